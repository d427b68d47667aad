package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/lasertag/internal/adc"
	"github.com/ColonelBlimp/lasertag/internal/config"
	"github.com/ColonelBlimp/lasertag/internal/core"
)

var (
	errInvalidShots = errors.New("shots must be at least 1")
	errShortGap     = errors.New("gap between shots must be longer than one burst")
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Fire synthetic shots at the detector",
	Long: `Drives the tick interrupt from a synthetic receiver instead of the audio
input. Bursts on the target channel are generated at the configured tick
rate and burst length, and the hits the detector registers are printed.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntP("target", "t", 4, "channel the synthetic shooter transmits on")
	simulateCmd.Flags().IntP("shots", "n", 3, "number of shots")
	simulateCmd.Flags().Int("gap-ms", 800, "time from one shot to the next")
	simulateCmd.Flags().Float64("amplitude", 0.5, "received level relative to full scale")
	simulateCmd.Flags().Float64("noise", 0, "background noise level relative to full scale")
	simulateCmd.Flags().Int64("seed", 1, "noise seed")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	settings, err := config.Get()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := setupLogger(settings, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	target, _ := flags.GetInt("target")
	shots, _ := flags.GetInt("shots")
	gapMs, _ := flags.GetInt("gap-ms")
	amplitude, _ := flags.GetFloat64("amplitude")
	noise, _ := flags.GetFloat64("noise")
	seed, _ := flags.GetInt64("seed")

	if shots < 1 {
		return errInvalidShots
	}
	gap, burst := settings.Ticks(gapMs), settings.Ticks(settings.BurstMs)
	if gap <= burst {
		return errShortGap
	}

	carrier, err := adc.NewCarrier(adc.CarrierConfig{Amplitude: amplitude, Noise: noise, Seed: seed})
	if err != nil {
		return err
	}
	start := gap / 2
	for i := range shots {
		if err := carrier.Schedule(target, start+i*gap, burst); err != nil {
			return fmt.Errorf("shot %d: %w", i, err)
		}
	}

	weapon, err := core.New(coreConfig(settings), core.IO{Cues: cueLogger})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	weapon.Pump().SetHitHandler(func(ch int) {
		slog.Debug("hit", "channel", ch, "tick", weapon.Scheduler().Ticks())
		weapon.AcknowledgeHit()
	})

	// One detection pass per 10 ms of ticks.
	pass := max(settings.TickRate/100, 1)
	total := start + shots*gap
	for i := range total {
		weapon.Scheduler().Interrupt(carrier.Next())
		if (i+1)%pass == 0 {
			weapon.Pump().RunDetectionPass(true)
		}
	}
	weapon.Pump().RunDetectionPass(true)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "fired %d shots on channel %d\n", shots, target)
	printHitCounts(out, weapon.HitCounts())
	return nil
}

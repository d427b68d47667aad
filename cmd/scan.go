package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/lasertag/internal/adc"
	"github.com/ColonelBlimp/lasertag/internal/config"
	"github.com/ColonelBlimp/lasertag/internal/dsp"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Measure the carrier level on every channel",
	Long: `Reads blocks from the receiver and reports the strongest channel in each,
bypassing the filter bank. With --target a synthetic carrier on that channel
is measured instead of the audio input.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntP("target", "t", -1, "measure a synthetic carrier on this channel (-1 for live input)")
	scanCmd.Flags().IntP("blocks", "n", 5, "number of blocks to measure")
	scanCmd.Flags().Int("block-size", 20400, "samples per block")
	scanCmd.Flags().Float64("amplitude", 0.5, "synthetic carrier level relative to full scale")
	scanCmd.Flags().Float64("noise", 0, "synthetic background noise level")
}

func runScan(cmd *cobra.Command, _ []string) error {
	settings, err := config.Get()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := setupLogger(settings, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	target, _ := flags.GetInt("target")
	blocks, _ := flags.GetInt("blocks")
	blockSize, _ := flags.GetInt("block-size")

	probe, err := dsp.NewProbe(dsp.ProbeConfig{TickRate: float64(settings.TickRate), BlockSize: blockSize})
	if err != nil {
		return err
	}

	if target < 0 {
		return scanLive(cmd, settings, probe, blocks)
	}

	amplitude, _ := flags.GetFloat64("amplitude")
	noise, _ := flags.GetFloat64("noise")
	carrier, err := adc.NewCarrier(adc.CarrierConfig{Amplitude: amplitude, Noise: noise})
	if err != nil {
		return err
	}
	if err := carrier.Schedule(target, 0, blocks*blockSize); err != nil {
		return err
	}

	codes := make([]uint32, blockSize)
	for i := range blocks {
		carrier.Fill(codes)
		if err := reportBlock(cmd.OutOrStdout(), probe, i, codes); err != nil {
			return err
		}
	}
	return nil
}

// scanLive measures blocks captured from the audio input.
func scanLive(cmd *cobra.Command, settings *config.Settings, probe *dsp.Probe, blocks int) error {
	full := make(chan []uint32, 1)
	var (
		mu      sync.Mutex
		pending = make([]uint32, 0, probe.BlockSize())
	)
	handler := func(codes []uint32) {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range codes {
			pending = append(pending, c)
			if len(pending) < probe.BlockSize() {
				continue
			}
			select {
			case full <- pending:
				pending = make([]uint32, 0, probe.BlockSize())
			default:
				// previous block still being measured
				pending = pending[:0]
			}
		}
	}

	capture := adc.NewCapture(adc.Config{
		DeviceIndex: settings.DeviceIndex,
		TickRate:    uint32(settings.TickRate),
		BufferSize:  uint32(settings.BufferSize),
	}, handler)
	if err := capture.Init(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	defer capture.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := capture.Start(ctx); err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	for i := range blocks {
		select {
		case <-ctx.Done():
			return nil
		case codes := <-full:
			if err := reportBlock(cmd.OutOrStdout(), probe, i, codes); err != nil {
				return err
			}
		}
	}
	return nil
}

func reportBlock(w io.Writer, probe *dsp.Probe, index int, codes []uint32) error {
	samples := make([]float64, len(codes))
	for i, c := range codes {
		samples[i] = adc.Scale(c)
	}
	ch, level, err := probe.Strongest(samples)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "block %d: channel %d level %.3f\n", index, ch, level)
	return nil
}

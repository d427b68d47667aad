package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ColonelBlimp/lasertag/internal/config"
	"github.com/ColonelBlimp/lasertag/internal/core"
	"github.com/ColonelBlimp/lasertag/internal/dsp"
	"github.com/ColonelBlimp/lasertag/internal/pins"
	"github.com/ColonelBlimp/lasertag/internal/timers"
)

// coreConfig converts settings in milliseconds into the tick based core
// configuration.
func coreConfig(s *config.Settings) core.Config {
	return core.Config{
		TickRate:      s.TickRate,
		BufferSize:    s.SampleBufferSize,
		FudgeFactor:   s.FudgeFactor,
		Ignored:       s.IgnoredMask(),
		Channel:       s.Channel,
		Continuous:    s.ContinuousMode,
		UnlimitedAmmo: s.UnlimitedAmmo,
		ClipSize:      s.ClipSize,
		DebounceTicks: s.Ticks(s.TriggerDebounceMs),
		BurstTicks:    s.Ticks(s.BurstMs),
		LockoutTicks:  s.Ticks(s.LockoutMs),
		HitLedTicks:   s.Ticks(s.HitLedMs),
		ReloadTicks:   s.Ticks(s.ReloadMs),
	}
}

// cueLogger reports audio cues through the default logger.
var cueLogger = timers.CueFunc(func(c timers.Cue) {
	slog.Info("cue", "sound", c.String())
})

// openIO requests the GPIO lines when gpio_enabled is set. Otherwise every
// line is inert. The returned close function releases whatever was opened.
func openIO(s *config.Settings) (core.IO, func() error, error) {
	lines := core.IO{
		Trigger:          pins.Nop{},
		Transmitter:      pins.Nop{},
		HitLed:           pins.Nop{},
		InvincibilityLed: pins.Nop{},
		Cues:             cueLogger,
	}
	if !s.GPIOEnabled {
		return lines, func() error { return nil }, nil
	}

	var closers []closer
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i].Close())
		}
		return errors.Join(errs...)
	}

	trigger, err := pins.NewLineInput(s.GPIOChip, s.TriggerPin)
	if err != nil {
		return lines, nil, fmt.Errorf("gpio trigger line %d: %w", s.TriggerPin, err)
	}
	closers = append(closers, trigger)
	lines.Trigger = trigger

	outputs := []struct {
		name   string
		offset int
		dst    *pins.Output
	}{
		{"transmitter", s.TransmitterPin, &lines.Transmitter},
		{"hit led", s.HitLedPin, &lines.HitLed},
		{"invincibility led", s.InvincibilityLedPin, &lines.InvincibilityLed},
	}
	for _, o := range outputs {
		line, err := pins.NewLineOutput(s.GPIOChip, o.offset)
		if err != nil {
			_ = closeAll()
			return lines, nil, fmt.Errorf("gpio %s line %d: %w", o.name, o.offset, err)
		}
		closers = append(closers, line)
		*o.dst = line
	}

	slog.Info("gpio lines requested", "chip", s.GPIOChip,
		"trigger", s.TriggerPin, "transmitter", s.TransmitterPin,
		"hit_led", s.HitLedPin, "invincibility_led", s.InvincibilityLedPin)
	return lines, closeAll, nil
}

type closer interface {
	Close() error
}

// printHitCounts writes one line per channel with at least one hit.
func printHitCounts(w io.Writer, counts [dsp.ChannelCount]uint32) {
	total := uint32(0)
	for ch, n := range counts {
		if n == 0 {
			continue
		}
		total += n
		fmt.Fprintf(w, "channel %d: %d hits\n", ch, n)
	}
	fmt.Fprintf(w, "total: %d hits\n", total)
}

package adc

import (
	"errors"
	"math"
	"math/rand"

	"github.com/ColonelBlimp/lasertag/internal/dsp"
)

var (
	// ErrInvalidAmplitude indicates amplitude must lie in (0, 1]
	ErrInvalidAmplitude = errors.New("amplitude must be greater than 0 and at most 1")
	// ErrInvalidNoise indicates noise must lie in [0, 1)
	ErrInvalidNoise = errors.New("noise must be between 0 and 1")
	// ErrInvalidShot indicates a shot must start now or later and last at least one tick
	ErrInvalidShot = errors.New("shot must not start in the past and must last at least one tick")
)

// CarrierConfig holds configuration for the synthetic receiver.
type CarrierConfig struct {
	// Amplitude is the peak level of a received shot, relative to full scale
	Amplitude float64
	// Noise is the peak level of uniform background noise, 0 for none
	Noise float64
	// Seed makes the noise repeatable
	Seed int64
}

// Shot is one received burst.
type Shot struct {
	Channel int
	Start   int // tick
	Length  int // ticks
}

// Carrier generates what the receiver would see: mid-scale silence with sine
// bursts at the carrier frequency of each scheduled shot. Frequencies are
// expressed in ticks per period, so the output is correct at any tick rate.
type Carrier struct {
	cfg   CarrierConfig
	rng   *rand.Rand
	shots []Shot
	pos   int
}

// NewCarrier creates a silent source positioned at tick 0.
func NewCarrier(cfg CarrierConfig) (*Carrier, error) {
	if cfg.Amplitude <= 0 || cfg.Amplitude > 1 {
		return nil, ErrInvalidAmplitude
	}
	if cfg.Noise < 0 || cfg.Noise >= 1 {
		return nil, ErrInvalidNoise
	}
	return &Carrier{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// Schedule adds a shot on channel ch starting at tick start.
func (c *Carrier) Schedule(ch, start, length int) error {
	if _, err := dsp.ChannelTicks(ch); err != nil {
		return err
	}
	if start < c.pos || length < 1 {
		return ErrInvalidShot
	}
	c.shots = append(c.shots, Shot{Channel: ch, Start: start, Length: length})
	return nil
}

// Next returns the code for the current tick and advances one tick.
func (c *Carrier) Next() uint32 {
	var v float64
	live := c.shots[:0]
	for _, s := range c.shots {
		end := s.Start + s.Length
		if c.pos >= end {
			continue
		}
		live = append(live, s)
		if c.pos < s.Start {
			continue
		}
		ticks, _ := dsp.ChannelTicks(s.Channel)
		phase := 2 * math.Pi * float64(c.pos-s.Start) / float64(ticks)
		v += c.cfg.Amplitude * math.Sin(phase)
	}
	c.shots = live

	if c.cfg.Noise > 0 {
		v += c.cfg.Noise * (2*c.rng.Float64() - 1)
	}
	c.pos++
	return ToCode(float32(v))
}

// Fill writes the next len(dst) codes.
func (c *Carrier) Fill(dst []uint32) {
	for i := range dst {
		dst[i] = c.Next()
	}
}

// Pos returns the tick the next sample belongs to.
func (c *Carrier) Pos() int { return c.pos }

// Pending returns the number of shots not yet fully emitted.
func (c *Carrier) Pending() int { return len(c.shots) }

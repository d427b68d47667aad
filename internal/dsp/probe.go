package dsp

import (
	"errors"
	"math"
)

var (
	// ErrInvalidBlockSize indicates block size must be positive
	ErrInvalidBlockSize = errors.New("block size must be positive")
	// ErrInsufficientSamples indicates not enough samples for the configured block size
	ErrInsufficientSamples = errors.New("insufficient samples for block size")
)

// ProbeConfig holds configuration for the carrier probe.
type ProbeConfig struct {
	// TickRate is the sample rate in Hz (from config: tick_rate)
	TickRate float64
	// BlockSize is the number of samples per measurement
	BlockSize int
}

// Probe measures the carrier level on every channel of a raw sample block
// with one Goertzel bin per channel frequency. It bypasses the filter bank
// and is used to check a receiver or transmitter on the bench.
type Probe struct {
	config       ProbeConfig
	coefficients [ChannelCount]float64 // 2*cos(2*pi*f/fs)
	normalizer   float64
}

// NewProbe creates a probe for the given tick rate and block size.
func NewProbe(cfg ProbeConfig) (*Probe, error) {
	if cfg.BlockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	if cfg.TickRate <= 0 {
		return nil, ErrInvalidTickRate
	}

	p := &Probe{
		config:     cfg,
		normalizer: 2.0 / float64(cfg.BlockSize),
	}
	for ch := range ChannelCount {
		f, err := ChannelFrequency(ch, cfg.TickRate)
		if err != nil {
			return nil, err
		}
		p.coefficients[ch] = 2.0 * math.Cos(2.0*math.Pi*f/cfg.TickRate)
	}
	return p, nil
}

// Measure writes the normalized magnitude of each channel frequency in the
// first BlockSize samples into dst. A full-scale sine on a channel reads
// close to 1.0 there.
func (p *Probe) Measure(samples []float64, dst *[ChannelCount]float64) error {
	if len(samples) < p.config.BlockSize {
		return ErrInsufficientSamples
	}
	block := samples[:p.config.BlockSize]
	for ch, coeff := range p.coefficients {
		var s0, s1, s2 float64
		for _, x := range block {
			s0 = x + coeff*s1 - s2
			s2 = s1
			s1 = s0
		}
		power := s1*s1 + s2*s2 - coeff*s1*s2
		// rounding can push an empty bin slightly negative
		if power < 0 {
			power = 0
		}
		dst[ch] = math.Sqrt(power) * p.normalizer
	}
	return nil
}

// Strongest returns the channel with the highest magnitude in the block.
func (p *Probe) Strongest(samples []float64) (int, float64, error) {
	var mags [ChannelCount]float64
	if err := p.Measure(samples, &mags); err != nil {
		return 0, 0, err
	}
	best := 0
	for ch, m := range mags {
		if m > mags[best] {
			best = ch
		}
	}
	return best, mags[best], nil
}

// BlockSize returns the configured block size.
func (p *Probe) BlockSize() int {
	return p.config.BlockSize
}

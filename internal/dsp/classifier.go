package dsp

import (
	"cmp"
	"errors"
	"slices"
)

const (
	// ReferenceRank is the ascending rank whose power the strongest channel
	// is compared against
	ReferenceRank = 4
	// DefaultFudgeFactor is the margin used on the original hardware
	DefaultFudgeFactor = 1000
)

var (
	// ErrInvalidFudgeFactor indicates the fudge factor must be at least 1
	ErrInvalidFudgeFactor = errors.New("fudge factor must be at least 1")
)

// ClassifierConfig holds configuration for the hit classifier.
type ClassifierConfig struct {
	// FudgeFactor is the multiple of the reference-rank power the strongest
	// channel must reach (from config: fudge_factor)
	FudgeFactor int
	// Ignored lists channels that never produce a hit, usually the
	// shooter's own (from config: ignored_channels)
	Ignored [ChannelCount]bool
}

// Classifier decides whether a set of channel powers is a hit and keeps the
// hit record until it is acknowledged.
type Classifier struct {
	fudge   float64
	ignored [ChannelCount]bool

	pending bool
	last    int
	counts  [ChannelCount]uint32

	order [ChannelCount]int
}

// NewClassifier creates a classifier with the given configuration.
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	if cfg.FudgeFactor < 1 {
		return nil, ErrInvalidFudgeFactor
	}
	return &Classifier{
		fudge:   float64(cfg.FudgeFactor),
		ignored: cfg.Ignored,
	}, nil
}

// Classify ranks powers ascending (stable, ties keep channel order) and
// reports a hit when the top channel is not ignored, has non-zero power and
// reaches FudgeFactor times the power at ReferenceRank.
//
// The non-zero rule is deliberate: with every power at zero the margin test
// alone would pass, and silence must never register as a hit.
//
// A hit updates the record and sets the pending flag. A miss leaves any
// earlier pending hit untouched.
func (c *Classifier) Classify(powers *[ChannelCount]float64) (int, bool) {
	for i := range c.order {
		c.order[i] = i
	}
	slices.SortStableFunc(c.order[:], func(a, b int) int {
		return cmp.Compare(powers[a], powers[b])
	})

	top := c.order[ChannelCount-1]
	ref := c.order[ReferenceRank]
	if c.ignored[top] || powers[top] <= 0 || powers[top] < c.fudge*powers[ref] {
		return -1, false
	}

	c.pending = true
	c.last = top
	c.counts[top]++
	return top, true
}

// Rank returns the channel order of the last Classify call, weakest first.
func (c *Classifier) Rank() [ChannelCount]int {
	return c.order
}

// SetIgnored replaces the ignore mask.
func (c *Classifier) SetIgnored(mask [ChannelCount]bool) {
	c.ignored = mask
}

// Ignored returns the current ignore mask.
func (c *Classifier) Ignored() [ChannelCount]bool {
	return c.ignored
}

// SetFudgeFactor changes the hit margin.
func (c *Classifier) SetFudgeFactor(f int) error {
	if f < 1 {
		return ErrInvalidFudgeFactor
	}
	c.fudge = float64(f)
	return nil
}

// FudgeFactor returns the current hit margin.
func (c *Classifier) FudgeFactor() int {
	return int(c.fudge)
}

// HitPending reports whether a hit is waiting to be acknowledged.
func (c *Classifier) HitPending() bool { return c.pending }

// LastHitChannel returns the channel of the most recent hit.
func (c *Classifier) LastHitChannel() int { return c.last }

// Acknowledge clears the pending flag.
func (c *Classifier) Acknowledge() { c.pending = false }

// HitCounts returns the lifetime hit count per channel.
func (c *Classifier) HitCounts() [ChannelCount]uint32 { return c.counts }

// Reset clears the hit record and counts. The mask and fudge factor stay.
func (c *Classifier) Reset() {
	c.pending = false
	c.last = 0
	c.counts = [ChannelCount]uint32{}
}

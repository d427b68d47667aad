package core

import (
	"log/slog"

	"github.com/ColonelBlimp/lasertag/internal/adc"
	"github.com/ColonelBlimp/lasertag/internal/buffer"
	"github.com/ColonelBlimp/lasertag/internal/dsp"
	"github.com/ColonelBlimp/lasertag/internal/timers"
)

// HitHandler is called from the foreground for every classified hit.
type HitHandler func(channel int)

// Pump is the foreground detector. Each pass drains the sample buffer into
// the filter bank and classifies once per decimated sample.
type Pump struct {
	mask          *Mask
	buf           *buffer.SampleBuffer
	filters       *dsp.FilterBank
	classifier    *dsp.Classifier
	lockout       *timers.LockoutTimer
	hitLed        *timers.HitLedTimer
	invincibility *timers.InvincibilityTimer

	onHit HitHandler

	decimation  int
	invocations uint64
	powers      [dsp.ChannelCount]float64
}

// NewPump creates a pump over the given collaborators.
func NewPump(mask *Mask, buf *buffer.SampleBuffer, filters *dsp.FilterBank, classifier *dsp.Classifier,
	lockout *timers.LockoutTimer, hitLed *timers.HitLedTimer, invincibility *timers.InvincibilityTimer) *Pump {
	return &Pump{
		mask:          mask,
		buf:           buf,
		filters:       filters,
		classifier:    classifier,
		lockout:       lockout,
		hitLed:        hitLed,
		invincibility: invincibility,
	}
}

// SetHitHandler installs fn to be told about hits. nil removes it.
func (p *Pump) SetHitHandler(fn HitHandler) {
	p.onHit = fn
}

// RunDetectionPass processes the samples present when it starts and returns
// how many it consumed. Samples that arrive during the pass wait for the next
// one. With interruptsActive set, every buffer and timer access is made
// under the mask.
func (p *Pump) RunDetectionPass(interruptsActive bool) int {
	p.invocations++

	p.lock(interruptsActive)
	n := p.buf.Len()
	p.unlock(interruptsActive)

	for range n {
		p.lock(interruptsActive)
		raw := p.buf.Pop()
		p.unlock(interruptsActive)

		p.filters.AddInput(adc.Scale(raw))
		p.decimation++
		if p.decimation < dsp.Decimation {
			continue
		}
		p.decimation = 0
		p.filters.Step()
		p.classify(interruptsActive)
	}
	return n
}

func (p *Pump) classify(interruptsActive bool) {
	p.lock(interruptsActive)
	suppressed := p.lockout.Running() || p.invincibility.Running()
	p.unlock(interruptsActive)
	if suppressed {
		return
	}

	p.filters.CurrentPowers(&p.powers)
	ch, hit := p.classifier.Classify(&p.powers)
	if !hit {
		return
	}

	p.lock(interruptsActive)
	p.lockout.Start()
	p.hitLed.Start()
	p.unlock(interruptsActive)
	slog.Debug("hit detected", "channel", ch, "power", p.powers[ch])
	if p.onHit != nil {
		p.onHit(ch)
	}
}

func (p *Pump) lock(active bool) {
	if active {
		p.mask.Disable()
	}
}

func (p *Pump) unlock(active bool) {
	if active {
		p.mask.Enable()
	}
}

// Invocations returns the number of detection passes run.
func (p *Pump) Invocations() uint64 {
	return p.invocations
}

package timers

import (
	"github.com/ColonelBlimp/lasertag/internal/pins"
)

// HitLedState is the hit indicator state.
type HitLedState uint8

const (
	HitLedIdle HitLedState = iota
	HitLedOn
)

// String returns the state name.
func (s HitLedState) String() string {
	switch s {
	case HitLedIdle:
		return "idle"
	case HitLedOn:
		return "on"
	default:
		return "unknown"
	}
}

// HitLedTimer lights the hit indicator for a fixed time after a hit.
type HitLedTimer struct {
	out     pins.Output
	expire  int
	enabled bool

	state   HitLedState
	counter int
}

// NewHitLedTimer creates an enabled, idle timer driving out.
func NewHitLedTimer(expireTicks int, out pins.Output) (*HitLedTimer, error) {
	if expireTicks < 1 {
		return nil, ErrInvalidTicks
	}
	if out == nil {
		out = pins.Nop{}
	}
	out.Set(false)
	return &HitLedTimer{out: out, expire: expireTicks, enabled: true}, nil
}

// Start lights the indicator. It is ignored while disabled.
func (h *HitLedTimer) Start() {
	if !h.enabled {
		return
	}
	h.state = HitLedOn
	h.counter = 0
	h.out.Set(true)
}

// Tick advances the timer and turns the indicator off on expiry.
func (h *HitLedTimer) Tick() {
	if h.state != HitLedOn {
		return
	}
	h.counter++
	if h.counter >= h.expire {
		h.state = HitLedIdle
		h.out.Set(false)
	}
}

// Enable allows Start.
func (h *HitLedTimer) Enable() { h.enabled = true }

// Disable makes Start a no-op. A lit indicator runs out normally.
func (h *HitLedTimer) Disable() { h.enabled = false }

// Enabled reports whether Start is accepted.
func (h *HitLedTimer) Enabled() bool { return h.enabled }

// Running reports whether the indicator is lit.
func (h *HitLedTimer) Running() bool { return h.state == HitLedOn }

// State returns the current state.
func (h *HitLedTimer) State() HitLedState { return h.state }

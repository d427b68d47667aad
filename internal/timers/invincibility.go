package timers

import (
	"github.com/ColonelBlimp/lasertag/internal/pins"
)

// InvincibilityState is the invincibility state.
type InvincibilityState uint8

const (
	InvincibilityIdle InvincibilityState = iota
	InvincibilityActive
)

// String returns the state name.
func (s InvincibilityState) String() string {
	switch s {
	case InvincibilityIdle:
		return "idle"
	case InvincibilityActive:
		return "active"
	default:
		return "unknown"
	}
}

// InvincibilityTimer gives a player a grace period, typically after losing a
// life. While active the trigger is held off, the hit indicator is disabled
// and hit detection is suppressed by the caller.
type InvincibilityTimer struct {
	trigger   Inhibitor
	hitLed    Indicator
	indicator pins.Output

	state    InvincibilityState
	duration int
	counter  int
}

// NewInvincibilityTimer creates an idle timer. hitLed may be nil.
func NewInvincibilityTimer(trigger Inhibitor, hitLed Indicator, indicator pins.Output) *InvincibilityTimer {
	if indicator == nil {
		indicator = pins.Nop{}
	}
	indicator.Set(false)
	return &InvincibilityTimer{trigger: trigger, hitLed: hitLed, indicator: indicator}
}

// Start becomes active immediately for the given number of ticks. Starting
// while active restarts the period.
func (v *InvincibilityTimer) Start(ticks int) error {
	if ticks < 1 {
		return ErrInvalidTicks
	}
	v.state = InvincibilityActive
	v.duration = ticks
	v.counter = 0
	if v.trigger != nil {
		v.trigger.Inhibit(InhibitInvincibility)
	}
	if v.hitLed != nil {
		v.hitLed.Disable()
	}
	v.indicator.Set(true)
	return nil
}

// Tick advances the timer.
func (v *InvincibilityTimer) Tick() {
	if v.state != InvincibilityActive {
		return
	}
	v.counter++
	if v.counter >= v.duration {
		v.end()
	}
}

func (v *InvincibilityTimer) end() {
	v.state = InvincibilityIdle
	v.counter = 0
	if v.trigger != nil {
		v.trigger.Release(InhibitInvincibility)
	}
	if v.hitLed != nil {
		v.hitLed.Enable()
	}
	v.indicator.Set(false)
}

// Cancel ends the period now.
func (v *InvincibilityTimer) Cancel() {
	if v.state == InvincibilityActive {
		v.end()
	}
}

// Running reports whether the player is invincible.
func (v *InvincibilityTimer) Running() bool { return v.state == InvincibilityActive }

// State returns the current state.
func (v *InvincibilityTimer) State() InvincibilityState { return v.state }

// Remaining returns the ticks left in the current period.
func (v *InvincibilityTimer) Remaining() int {
	if v.state != InvincibilityActive {
		return 0
	}
	return v.duration - v.counter
}

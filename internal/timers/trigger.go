package timers

import (
	"github.com/ColonelBlimp/lasertag/internal/pins"
)

// TriggerState is the debouncer state.
type TriggerState uint8

const (
	TriggerIdle TriggerState = iota
	TriggerDebouncingPress
	TriggerFiring
	TriggerDebouncingRelease
)

// String returns the state name.
func (s TriggerState) String() string {
	switch s {
	case TriggerIdle:
		return "idle"
	case TriggerDebouncingPress:
		return "debouncing-press"
	case TriggerFiring:
		return "firing"
	case TriggerDebouncingRelease:
		return "debouncing-release"
	default:
		return "unknown"
	}
}

// TriggerConfig holds configuration for the trigger.
type TriggerConfig struct {
	// DebounceTicks is how long the input must hold a level before it counts
	// (from config: trigger_debounce_ms)
	DebounceTicks int
	// ClipSize is the number of shots in a full clip (from config: clip_size)
	ClipSize int
	// UnlimitedAmmo exempts shots from the ammo count (from config: unlimited_ammo)
	UnlimitedAmmo bool
}

// Trigger debounces the trigger input and fires one shot per press.
//
// The input must read asserted for DebounceTicks consecutive ticks before a
// press is accepted. Accepting a press always moves to Firing; whether it
// emits a burst depends on ammo and inhibits. Nothing else fires until the
// input has read released for DebounceTicks consecutive ticks.
type Trigger struct {
	cfg   TriggerConfig
	input pins.Input
	tx    Emitter
	cues  CueSink

	state   TriggerState
	counter int
	inhibit InhibitSource

	ammo      int
	unlimited bool
	shots     uint64
}

// NewTrigger creates a trigger reading input and firing tx. It starts idle,
// enabled and with a full clip.
func NewTrigger(cfg TriggerConfig, input pins.Input, tx Emitter, cues CueSink) (*Trigger, error) {
	if cfg.DebounceTicks < 1 {
		return nil, ErrInvalidTicks
	}
	if cfg.ClipSize < 1 {
		return nil, ErrInvalidClipSize
	}
	if input == nil {
		input = pins.Nop{}
	}
	return &Trigger{
		cfg:       cfg,
		input:     input,
		tx:        tx,
		cues:      sinkOrNop(cues),
		ammo:      cfg.ClipSize,
		unlimited: cfg.UnlimitedAmmo,
	}, nil
}

// Tick samples the input and advances the debouncer by one step.
func (t *Trigger) Tick() {
	pressed := t.input.Get()

	switch t.state {
	case TriggerIdle:
		if pressed {
			t.state = TriggerDebouncingPress
			t.counter = 1
			t.settlePress()
		}
	case TriggerDebouncingPress:
		if !pressed {
			t.state = TriggerIdle
			return
		}
		t.counter++
		t.settlePress()
	case TriggerFiring:
		if !pressed {
			t.state = TriggerDebouncingRelease
			t.counter = 1
			t.settleRelease()
		}
	case TriggerDebouncingRelease:
		if pressed {
			// bounce: still the same press
			t.state = TriggerFiring
			return
		}
		t.counter++
		t.settleRelease()
	}
}

func (t *Trigger) settlePress() {
	if t.counter >= t.cfg.DebounceTicks {
		t.state = TriggerFiring
		t.fire()
	}
}

func (t *Trigger) settleRelease() {
	if t.counter >= t.cfg.DebounceTicks {
		t.state = TriggerIdle
	}
}

func (t *Trigger) fire() {
	if t.inhibit != 0 || (!t.unlimited && t.ammo == 0) {
		t.cues.Emit(CueDryFire)
		return
	}
	if !t.unlimited {
		t.ammo--
	}
	t.shots++
	if t.tx != nil {
		t.tx.Run()
	}
	t.cues.Emit(CueGunFire)
}

// State returns the current state.
func (t *Trigger) State() TriggerState { return t.state }

// Running reports whether a press is in progress.
func (t *Trigger) Running() bool { return t.state != TriggerIdle }

// Enable releases the manual inhibit.
func (t *Trigger) Enable() { t.Release(InhibitManual) }

// Disable sets the manual inhibit.
func (t *Trigger) Disable() { t.Inhibit(InhibitManual) }

// Enabled reports whether no source inhibits firing.
func (t *Trigger) Enabled() bool { return t.inhibit == 0 }

// Inhibit prevents firing until src is released.
func (t *Trigger) Inhibit(src InhibitSource) { t.inhibit |= src }

// Release clears src. Other sources keep their hold.
func (t *Trigger) Release(src InhibitSource) { t.inhibit &^= src }

// Inhibited reports whether src is holding the trigger.
func (t *Trigger) Inhibited(src InhibitSource) bool { return t.inhibit&src != 0 }

// RemainingAmmo returns the shots left in the clip.
func (t *Trigger) RemainingAmmo() int { return t.ammo }

// SetRemainingAmmo sets the shots left, clamped to [0, ClipSize].
func (t *Trigger) SetRemainingAmmo(n int) {
	t.ammo = min(max(n, 0), t.cfg.ClipSize)
}

// ClipSize returns the shots in a full clip.
func (t *Trigger) ClipSize() int { return t.cfg.ClipSize }

// SetUnlimitedAmmo turns the ammo exemption on or off.
func (t *Trigger) SetUnlimitedAmmo(on bool) { t.unlimited = on }

// UnlimitedAmmo reports whether shots are exempt from the ammo count.
func (t *Trigger) UnlimitedAmmo() bool { return t.unlimited }

// Shots returns the lifetime number of bursts fired.
func (t *Trigger) Shots() uint64 { return t.shots }

// Reset returns to idle with a full clip. Inhibits are kept.
func (t *Trigger) Reset() {
	t.state = TriggerIdle
	t.counter = 0
	t.ammo = t.cfg.ClipSize
	t.shots = 0
}

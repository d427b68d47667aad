// Package timers implements the tick-driven state machines of the weapon:
// trigger, transmitter, hit lockout, hit indicator, auto-reload and
// invincibility. Every machine advances by exactly one step per Tick call
// and measures time only in ticks.
//
// None of the machines lock. Tick runs in interrupt context; commands issued
// from the foreground must hold the caller's interrupt mask.
package timers

import (
	"errors"
	"sync"
)

var (
	// ErrInvalidTicks indicates a duration must be at least one tick
	ErrInvalidTicks = errors.New("tick count must be positive")
	// ErrInvalidClipSize indicates a clip must hold at least one shot
	ErrInvalidClipSize = errors.New("clip size must be positive")
)

// Cue is a sound or feedback event raised by a machine.
type Cue uint8

const (
	// CueGunFire is raised when a shot is fired
	CueGunFire Cue = iota
	// CueDryFire is raised when the trigger is pulled with no ammo or while inhibited
	CueDryFire
	// CueReload is raised when the clip is refilled
	CueReload
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueGunFire:
		return "gun-fire"
	case CueDryFire:
		return "dry-fire"
	case CueReload:
		return "reload"
	default:
		return "unknown"
	}
}

// CueSink receives cues. Emit is called from tick context and must not block.
type CueSink interface {
	Emit(c Cue)
}

// CueFunc adapts a function to CueSink.
type CueFunc func(c Cue)

// Emit calls f(c).
func (f CueFunc) Emit(c Cue) { f(c) }

type nopSink struct{}

func (nopSink) Emit(Cue) {}

func sinkOrNop(s CueSink) CueSink {
	if s == nil {
		return nopSink{}
	}
	return s
}

// CueLog is a CueSink that remembers every cue. Safe for concurrent use.
type CueLog struct {
	mu   sync.Mutex
	cues []Cue
}

// Emit appends c.
func (l *CueLog) Emit(c Cue) {
	l.mu.Lock()
	l.cues = append(l.cues, c)
	l.mu.Unlock()
}

// Cues returns a copy of everything emitted so far.
func (l *CueLog) Cues() []Cue {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Cue, len(l.cues))
	copy(out, l.cues)
	return out
}

// Count returns how many times c was emitted.
func (l *CueLog) Count(c Cue) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, v := range l.cues {
		if v == c {
			n++
		}
	}
	return n
}

// InhibitSource names who is holding the trigger off. Firing is allowed only
// while no source holds it.
type InhibitSource uint8

const (
	// InhibitManual is held by callers through Inhibit and Release
	InhibitManual InhibitSource = 1 << iota
	// InhibitReload is held by the auto-reload timer while the clip is empty
	InhibitReload
	// InhibitInvincibility is held by the invincibility timer while active
	InhibitInvincibility
)

// Inhibitor is implemented by Trigger.
type Inhibitor interface {
	Inhibit(src InhibitSource)
	Release(src InhibitSource)
}

// Magazine is the ammunition view the auto-reload timer works on.
type Magazine interface {
	Inhibitor
	RemainingAmmo() int
	SetRemainingAmmo(n int)
	ClipSize() int
	UnlimitedAmmo() bool
}

// Emitter starts a carrier burst. Implemented by Transmitter.
type Emitter interface {
	Run()
}

// Indicator is implemented by HitLedTimer.
type Indicator interface {
	Enable()
	Disable()
}

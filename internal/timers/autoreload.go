package timers

// AutoReloadState is the auto-reload state.
type AutoReloadState uint8

const (
	AutoReloadReady AutoReloadState = iota
	AutoReloadEmpty
)

// String returns the state name.
func (s AutoReloadState) String() string {
	switch s {
	case AutoReloadReady:
		return "ready"
	case AutoReloadEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// AutoReloadTimer refills the clip a fixed time after it runs dry. The
// trigger is held off with InhibitReload while waiting.
type AutoReloadTimer struct {
	mag    Magazine
	cues   CueSink
	expire int

	state   AutoReloadState
	counter int
}

// NewAutoReloadTimer creates a ready timer watching mag.
func NewAutoReloadTimer(expireTicks int, mag Magazine, cues CueSink) (*AutoReloadTimer, error) {
	if expireTicks < 1 {
		return nil, ErrInvalidTicks
	}
	return &AutoReloadTimer{mag: mag, cues: sinkOrNop(cues), expire: expireTicks}, nil
}

// Tick advances the timer.
func (a *AutoReloadTimer) Tick() {
	switch a.state {
	case AutoReloadReady:
		if !a.mag.UnlimitedAmmo() && a.mag.RemainingAmmo() == 0 {
			a.state = AutoReloadEmpty
			a.counter = 0
			a.mag.Inhibit(InhibitReload)
		}
	case AutoReloadEmpty:
		a.counter++
		if a.counter >= a.expire {
			a.refill()
		}
	}
}

func (a *AutoReloadTimer) refill() {
	a.mag.SetRemainingAmmo(a.mag.ClipSize())
	a.mag.Release(InhibitReload)
	a.state = AutoReloadReady
	a.counter = 0
	a.cues.Emit(CueReload)
}

// Quick refills the clip now, whatever the state.
func (a *AutoReloadTimer) Quick() {
	a.refill()
}

// Cancel abandons a pending reload without refilling. If the clip is still
// empty the wait starts over at the next tick.
func (a *AutoReloadTimer) Cancel() {
	a.state = AutoReloadReady
	a.counter = 0
	a.mag.Release(InhibitReload)
}

// Running reports whether a reload is pending.
func (a *AutoReloadTimer) Running() bool { return a.state == AutoReloadEmpty }

// State returns the current state.
func (a *AutoReloadTimer) State() AutoReloadState { return a.state }

package timers

// LockoutState is the hit lockout state.
type LockoutState uint8

const (
	LockoutIdle LockoutState = iota
	LockoutLocked
)

// String returns the state name.
func (s LockoutState) String() string {
	switch s {
	case LockoutIdle:
		return "idle"
	case LockoutLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// LockoutTimer blocks hit detection for a fixed time after each hit so one
// shot is counted once.
type LockoutTimer struct {
	expire  int
	state   LockoutState
	counter int
}

// NewLockoutTimer creates an idle lockout lasting expireTicks.
func NewLockoutTimer(expireTicks int) (*LockoutTimer, error) {
	if expireTicks < 1 {
		return nil, ErrInvalidTicks
	}
	return &LockoutTimer{expire: expireTicks}, nil
}

// Start (re)arms the lockout. Running stays true for the next
// expireTicks-1 ticks and turns false on the expireTicks-th.
func (l *LockoutTimer) Start() {
	l.state = LockoutLocked
	l.counter = 0
}

// Tick advances the lockout.
func (l *LockoutTimer) Tick() {
	if l.state != LockoutLocked {
		return
	}
	l.counter++
	if l.counter >= l.expire {
		l.state = LockoutIdle
	}
}

// Running reports whether hits are locked out.
func (l *LockoutTimer) Running() bool { return l.state == LockoutLocked }

// State returns the current state.
func (l *LockoutTimer) State() LockoutState { return l.state }

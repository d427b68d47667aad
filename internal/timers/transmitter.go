package timers

import (
	"github.com/ColonelBlimp/lasertag/internal/dsp"
	"github.com/ColonelBlimp/lasertag/internal/pins"
)

// TransmitterState is the carrier generator state.
type TransmitterState uint8

const (
	TransmitterIdle TransmitterState = iota
	TransmitterBurstHigh
	TransmitterBurstLow
	TransmitterResetting
)

// String returns the state name.
func (s TransmitterState) String() string {
	switch s {
	case TransmitterIdle:
		return "idle"
	case TransmitterBurstHigh:
		return "burst-high"
	case TransmitterBurstLow:
		return "burst-low"
	case TransmitterResetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// TransmitterConfig holds configuration for the transmitter.
type TransmitterConfig struct {
	// Channel is the player's carrier channel (from config: channel)
	Channel int
	// BurstTicks is the length of one shot (from config: burst_ms)
	BurstTicks int
	// Continuous repeats bursts back to back (from config: continuous_mode)
	Continuous bool
}

// Transmitter drives the emitter with a square wave at the latched channel's
// carrier frequency for one burst per Run.
//
// A channel change only takes effect while idle, so a burst never changes
// frequency part way through. In continuous mode the machine passes through
// idle between bursts and picks up a pending channel there.
type Transmitter struct {
	out pins.Output

	state      TransmitterState
	channel    int // latched
	pending    int
	half       int // ticks per half period of the latched channel
	burstTicks int
	continuous bool

	elapsed int
	phase   int
}

// NewTransmitter creates an idle transmitter driving out.
func NewTransmitter(cfg TransmitterConfig, out pins.Output) (*Transmitter, error) {
	if cfg.BurstTicks < 1 {
		return nil, ErrInvalidTicks
	}
	if _, err := dsp.ChannelTicks(cfg.Channel); err != nil {
		return nil, err
	}
	if out == nil {
		out = pins.Nop{}
	}
	t := &Transmitter{
		out:        out,
		pending:    cfg.Channel,
		burstTicks: cfg.BurstTicks,
		continuous: cfg.Continuous,
	}
	t.latch()
	out.Set(false)
	return t, nil
}

func (t *Transmitter) latch() {
	t.channel = t.pending
	ticks, _ := dsp.ChannelTicks(t.channel)
	t.half = ticks / 2
}

func (t *Transmitter) begin() {
	t.state = TransmitterBurstHigh
	t.elapsed = 0
	t.phase = 0
	t.out.Set(true)
}

// Tick advances the waveform by one tick.
func (t *Transmitter) Tick() {
	switch t.state {
	case TransmitterIdle:
		t.latch()
		if t.continuous {
			t.begin()
		}
	case TransmitterBurstHigh, TransmitterBurstLow:
		t.elapsed++
		if t.elapsed >= t.burstTicks {
			t.state = TransmitterResetting
			t.out.Set(false)
			return
		}
		t.phase++
		if t.phase >= t.half {
			t.phase = 0
			if t.state == TransmitterBurstHigh {
				t.state = TransmitterBurstLow
				t.out.Set(false)
			} else {
				t.state = TransmitterBurstHigh
				t.out.Set(true)
			}
		}
	case TransmitterResetting:
		t.out.Set(false)
		t.state = TransmitterIdle
	}
}

// Run starts a burst. It is ignored while a burst is already in progress.
func (t *Transmitter) Run() {
	switch t.state {
	case TransmitterIdle:
		t.latch()
		t.begin()
	case TransmitterResetting:
		t.begin()
	}
}

// Stop ends the current burst at the next tick and turns continuous mode
// off, so the transmitter stays idle until the next Run.
func (t *Transmitter) Stop() {
	t.continuous = false
	if t.state == TransmitterBurstHigh || t.state == TransmitterBurstLow {
		t.state = TransmitterResetting
	}
}

// Running reports whether a burst is in progress or finishing.
func (t *Transmitter) Running() bool { return t.state != TransmitterIdle }

// State returns the current state.
func (t *Transmitter) State() TransmitterState { return t.state }

// SetChannel selects the channel for the next burst.
func (t *Transmitter) SetChannel(ch int) error {
	if _, err := dsp.ChannelTicks(ch); err != nil {
		return err
	}
	t.pending = ch
	return nil
}

// Channel returns the channel in use, which lags SetChannel until idle.
func (t *Transmitter) Channel() int { return t.channel }

// SetContinuousMode turns back-to-back bursts on or off. Turning it off lets
// the current burst finish.
func (t *Transmitter) SetContinuousMode(on bool) { t.continuous = on }

// ContinuousMode reports whether bursts repeat.
func (t *Transmitter) ContinuousMode() bool { return t.continuous }

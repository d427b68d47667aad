package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ColonelBlimp/lasertag/internal/buffer"
	"github.com/ColonelBlimp/lasertag/internal/dsp"
	"github.com/ColonelBlimp/lasertag/internal/pins"
	"github.com/ColonelBlimp/lasertag/internal/timers"
)

// pollIdle is how long Poll sleeps when there is not enough buffered input
// for one decimated sample.
const pollIdle = 500 * time.Microsecond

// Config holds every tuning value of the core, already converted to ticks.
type Config struct {
	TickRate   int
	BufferSize int

	FudgeFactor int
	Ignored     [dsp.ChannelCount]bool

	Channel       int
	Continuous    bool
	UnlimitedAmmo bool
	ClipSize      int

	DebounceTicks int
	BurstTicks    int
	LockoutTicks  int
	HitLedTicks   int
	ReloadTicks   int
}

// DefaultConfig returns the reference weapon at 100 kHz.
func DefaultConfig() Config {
	return Config{
		TickRate:      100000,
		BufferSize:    buffer.DefaultSize,
		FudgeFactor:   dsp.DefaultFudgeFactor,
		ClipSize:      10,
		DebounceTicks: 5000,
		BurstTicks:    20000,
		LockoutTicks:  50000,
		HitLedTicks:   50000,
		ReloadTicks:   300000,
	}
}

// IO connects the core to the outside world. Nil members are replaced with
// inert stand-ins.
type IO struct {
	Trigger          pins.Input
	Transmitter      pins.Output
	HitLed           pins.Output
	InvincibilityLed pins.Output
	Cues             timers.CueSink
}

// Core owns one weapon: buffer, detector and all timer machines.
type Core struct {
	cfg  Config
	mask *Mask

	buf        *buffer.SampleBuffer
	filters    *dsp.FilterBank
	classifier *dsp.Classifier

	trigger       *timers.Trigger
	transmitter   *timers.Transmitter
	lockout       *timers.LockoutTimer
	hitLed        *timers.HitLedTimer
	autoReload    *timers.AutoReloadTimer
	invincibility *timers.InvincibilityTimer

	scheduler *Scheduler
	pump      *Pump
}

// New builds a core from cfg.
func New(cfg Config, io IO) (*Core, error) {
	if cfg.TickRate <= 0 {
		return nil, dsp.ErrInvalidTickRate
	}

	c := &Core{cfg: cfg, mask: &Mask{}}

	var err error
	if c.buf, err = buffer.New(cfg.BufferSize); err != nil {
		return nil, fmt.Errorf("sample buffer: %w", err)
	}
	c.filters = dsp.NewFilterBank()
	c.classifier, err = dsp.NewClassifier(dsp.ClassifierConfig{
		FudgeFactor: cfg.FudgeFactor,
		Ignored:     cfg.Ignored,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	c.transmitter, err = timers.NewTransmitter(timers.TransmitterConfig{
		Channel:    cfg.Channel,
		BurstTicks: cfg.BurstTicks,
		Continuous: cfg.Continuous,
	}, io.Transmitter)
	if err != nil {
		return nil, fmt.Errorf("transmitter: %w", err)
	}
	c.trigger, err = timers.NewTrigger(timers.TriggerConfig{
		DebounceTicks: cfg.DebounceTicks,
		ClipSize:      cfg.ClipSize,
		UnlimitedAmmo: cfg.UnlimitedAmmo,
	}, io.Trigger, c.transmitter, io.Cues)
	if err != nil {
		return nil, fmt.Errorf("trigger: %w", err)
	}
	if c.lockout, err = timers.NewLockoutTimer(cfg.LockoutTicks); err != nil {
		return nil, fmt.Errorf("lockout timer: %w", err)
	}
	if c.hitLed, err = timers.NewHitLedTimer(cfg.HitLedTicks, io.HitLed); err != nil {
		return nil, fmt.Errorf("hit led timer: %w", err)
	}
	if c.autoReload, err = timers.NewAutoReloadTimer(cfg.ReloadTicks, c.trigger, io.Cues); err != nil {
		return nil, fmt.Errorf("auto-reload timer: %w", err)
	}
	c.invincibility = timers.NewInvincibilityTimer(c.trigger, c.hitLed, io.InvincibilityLed)

	c.scheduler = NewScheduler(c.mask, c.buf,
		c.trigger, c.transmitter, c.lockout, c.hitLed, c.autoReload, c.invincibility)
	c.pump = NewPump(c.mask, c.buf, c.filters, c.classifier, c.lockout, c.hitLed, c.invincibility)

	return c, nil
}

// Poll runs detection passes until ctx is done, as the foreground loop of a
// live weapon. The tick interrupt must be driven elsewhere.
func (c *Core) Poll(ctx context.Context) error {
	slog.Debug("detector loop started")
	for {
		select {
		case <-ctx.Done():
			slog.Debug("detector loop stopped", "passes", c.pump.Invocations())
			return ctx.Err()
		default:
		}

		if n := c.pump.RunDetectionPass(true); n < dsp.Decimation {
			time.Sleep(pollIdle)
		}
	}
}

// HitPending reports whether a hit is waiting to be acknowledged.
func (c *Core) HitPending() bool { return c.classifier.HitPending() }

// LastHitChannel returns the channel of the most recent hit.
func (c *Core) LastHitChannel() int { return c.classifier.LastHitChannel() }

// AcknowledgeHit clears the pending hit.
func (c *Core) AcknowledgeHit() { c.classifier.Acknowledge() }

// HitCounts returns the lifetime hits per channel.
func (c *Core) HitCounts() [dsp.ChannelCount]uint32 { return c.classifier.HitCounts() }

// SetIgnoredChannels replaces the set of channels that never register hits.
func (c *Core) SetIgnoredChannels(mask [dsp.ChannelCount]bool) { c.classifier.SetIgnored(mask) }

// StartInvincibility starts a grace period of the given length.
func (c *Core) StartInvincibility(ticks int) error {
	c.mask.Disable()
	defer c.mask.Enable()
	return c.invincibility.Start(ticks)
}

// IgnoreAllHits is kept for callers of the game layer. It has no effect;
// use SetIgnoredChannels or StartInvincibility.
func (c *Core) IgnoreAllHits(bool) {}

// SetFudgeFactorIndex is kept for callers of the game layer. It has no
// effect; the fudge factor is fixed at construction.
func (c *Core) SetFudgeFactorIndex(int) {}

// Ticks converts milliseconds to ticks at the configured rate.
func (c *Core) Ticks(ms int) int { return ms * c.cfg.TickRate / 1000 }

// Config returns the configuration the core was built with.
func (c *Core) Config() Config { return c.cfg }

// Mask returns the interrupt mask shared by scheduler and pump.
func (c *Core) Mask() *Mask { return c.mask }

// Scheduler returns the tick interrupt body.
func (c *Core) Scheduler() *Scheduler { return c.scheduler }

// Pump returns the foreground detector.
func (c *Core) Pump() *Pump { return c.pump }

// Buffer returns the sample buffer.
func (c *Core) Buffer() *buffer.SampleBuffer { return c.buf }

// Filters returns the filter bank.
func (c *Core) Filters() *dsp.FilterBank { return c.filters }

// Classifier returns the hit classifier.
func (c *Core) Classifier() *dsp.Classifier { return c.classifier }

// Trigger returns the trigger machine.
func (c *Core) Trigger() *timers.Trigger { return c.trigger }

// Transmitter returns the transmitter machine.
func (c *Core) Transmitter() *timers.Transmitter { return c.transmitter }

// Lockout returns the hit lockout timer.
func (c *Core) Lockout() *timers.LockoutTimer { return c.lockout }

// HitLed returns the hit indicator timer.
func (c *Core) HitLed() *timers.HitLedTimer { return c.hitLed }

// AutoReload returns the auto-reload timer.
func (c *Core) AutoReload() *timers.AutoReloadTimer { return c.autoReload }

// Invincibility returns the invincibility timer.
func (c *Core) Invincibility() *timers.InvincibilityTimer { return c.invincibility }

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColonelBlimp/lasertag/internal/adc"
	"github.com/ColonelBlimp/lasertag/internal/dsp"
	"github.com/ColonelBlimp/lasertag/internal/pins"
	"github.com/ColonelBlimp/lasertag/internal/timers"
)

const (
	shotTicks  = 20000
	shotPeriod = 80000
)

type fixture struct {
	core      *Core
	trigger   *pins.FakeInput
	tx        *pins.FakeOutput
	hitLed    *pins.FakeOutput
	invLed    *pins.FakeOutput
	cues      *timers.CueLog
	carrier   *adc.Carrier
	hitEvents []int
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{
		trigger: pins.NewFakeInput(),
		tx:      pins.NewFakeOutput(),
		hitLed:  pins.NewFakeOutput(),
		invLed:  pins.NewFakeOutput(),
		cues:    &timers.CueLog{},
	}
	c, err := New(cfg, IO{
		Trigger:          f.trigger,
		Transmitter:      f.tx,
		HitLed:           f.hitLed,
		InvincibilityLed: f.invLed,
		Cues:             f.cues,
	})
	require.NoError(t, err)
	c.Pump().SetHitHandler(func(ch int) { f.hitEvents = append(f.hitEvents, ch) })
	f.core = c

	f.carrier, err = adc.NewCarrier(adc.CarrierConfig{Amplitude: 0.5})
	require.NoError(t, err)
	return f
}

// run drives n interrupts from the carrier, with a detection pass every
// 1000 ticks as the foreground would.
func (f *fixture) run(n int) {
	for i := range n {
		f.core.Scheduler().Interrupt(f.carrier.Next())
		if (i+1)%1000 == 0 {
			f.core.Pump().RunDetectionPass(true)
		}
	}
	f.core.Pump().RunDetectionPass(true)
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tick rate", func(c *Config) { c.TickRate = 0 }},
		{"buffer", func(c *Config) { c.BufferSize = 0 }},
		{"fudge", func(c *Config) { c.FudgeFactor = 0 }},
		{"channel", func(c *Config) { c.Channel = 10 }},
		{"debounce", func(c *Config) { c.DebounceTicks = 0 }},
		{"clip", func(c *Config) { c.ClipSize = 0 }},
		{"lockout", func(c *Config) { c.LockoutTicks = 0 }},
		{"hit led", func(c *Config) { c.HitLedTicks = 0 }},
		{"reload", func(c *Config) { c.ReloadTicks = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, IO{})
			assert.Error(t, err)
		})
	}
}

func TestCore_RoundTripHits(t *testing.T) {
	const (
		channel = 4
		shots   = 3
	)
	f := newFixture(t, DefaultConfig())

	for i := range shots {
		require.NoError(t, f.carrier.Schedule(channel, i*shotPeriod, shotTicks))
	}
	f.run(shots * shotPeriod)

	var want [dsp.ChannelCount]uint32
	want[channel] = shots
	if diff := cmp.Diff(want, f.core.HitCounts()); diff != "" {
		t.Errorf("HitCounts() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{channel, channel, channel}, f.hitEvents)
	assert.True(t, f.core.HitPending())
	assert.Equal(t, channel, f.core.LastHitChannel())

	f.core.AcknowledgeHit()
	assert.False(t, f.core.HitPending())
	assert.Zero(t, f.core.Buffer().Dropped())
}

func TestCore_EveryChannelDetected(t *testing.T) {
	for ch := range dsp.ChannelCount {
		f := newFixture(t, DefaultConfig())
		require.NoError(t, f.carrier.Schedule(ch, 0, shotTicks))
		f.run(shotTicks + 5000)

		assert.True(t, f.core.HitPending(), "channel %d", ch)
		assert.Equal(t, ch, f.core.LastHitChannel())
	}
}

func TestCore_HitStartsLockoutAndLed(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.NoError(t, f.carrier.Schedule(1, 0, shotTicks))
	f.run(shotTicks)

	require.True(t, f.core.HitPending())
	assert.True(t, f.core.Lockout().Running())
	assert.True(t, f.core.HitLed().Running())
	assert.True(t, f.hitLed.Level())
}

func TestCore_SilenceNeverHits(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.run(100000)

	assert.False(t, f.core.HitPending())
	assert.Equal(t, [dsp.ChannelCount]uint32{}, f.core.HitCounts())
	assert.Equal(t, uint64(100000), f.core.Scheduler().Ticks())
}

func TestCore_IgnoredChannelNeverHits(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	var mask [dsp.ChannelCount]bool
	mask[6] = true
	f.core.SetIgnoredChannels(mask)

	require.NoError(t, f.carrier.Schedule(6, 0, shotTicks))
	f.run(shotTicks + 5000)

	assert.False(t, f.core.HitPending())
	assert.Empty(t, f.hitEvents)
}

func TestCore_LockoutSuppressesClassification(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.core.Mask().Do(f.core.Lockout().Start)

	require.NoError(t, f.carrier.Schedule(2, 0, shotTicks))
	f.run(shotTicks)

	assert.False(t, f.core.HitPending(), "lockout must suppress hits")
}

func TestCore_InvincibilitySuppressesClassification(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.NoError(t, f.core.StartInvincibility(f.core.Ticks(1000)))
	assert.True(t, f.invLed.Level())
	assert.False(t, f.core.Trigger().Enabled())
	assert.False(t, f.core.HitLed().Enabled())

	require.NoError(t, f.carrier.Schedule(2, 0, shotTicks))
	f.run(shotTicks)
	assert.False(t, f.core.HitPending(), "invincibility must suppress hits")

	f.run(f.core.Ticks(1000))
	assert.False(t, f.core.Invincibility().Running())
	assert.True(t, f.core.Trigger().Enabled())
	assert.False(t, f.invLed.Level())
}

func TestCore_TriggerFiresTransmitter(t *testing.T) {
	cfg := DefaultConfig()
	f := newFixture(t, cfg)
	f.trigger.Script(append(levelsN(true, cfg.DebounceTicks), false)...)

	f.run(cfg.DebounceTicks)
	assert.True(t, f.core.Transmitter().Running())
	assert.Equal(t, cfg.ClipSize-1, f.core.Trigger().RemainingAmmo())
	assert.Equal(t, []timers.Cue{timers.CueGunFire}, f.cues.Cues())

	f.run(cfg.BurstTicks + 2)
	assert.False(t, f.core.Transmitter().Running())
	assert.False(t, f.tx.Level())
	assert.Greater(t, f.tx.Edges, 2*cfg.BurstTicks/68)
}

func TestCore_EmptyClipReloads(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClipSize = 1
	cfg.ReloadTicks = 30000
	f := newFixture(t, cfg)

	press := append(levelsN(true, cfg.DebounceTicks), levelsN(false, cfg.DebounceTicks)...)
	f.trigger.Script(append(press, press...)...)

	f.run(2 * len(press))
	assert.Equal(t, []timers.Cue{timers.CueGunFire, timers.CueDryFire}, f.cues.Cues())
	assert.True(t, f.core.AutoReload().Running())

	f.run(cfg.ReloadTicks)
	assert.False(t, f.core.AutoReload().Running())
	assert.Equal(t, 1, f.core.Trigger().RemainingAmmo())
	assert.True(t, f.core.Trigger().Enabled())
	assert.Equal(t, 1, f.cues.Count(timers.CueReload))
}

func TestCore_PumpDrainsSnapshotOnly(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.core.Scheduler().ServiceBlock(make([]uint32, 25))

	n := f.core.Pump().RunDetectionPass(false)
	assert.Equal(t, 25, n)
	assert.Zero(t, f.core.Buffer().Len())
	assert.Equal(t, uint64(1), f.core.Pump().Invocations())

	assert.Zero(t, f.core.Pump().RunDetectionPass(false))
	assert.Equal(t, uint64(2), f.core.Pump().Invocations())
}

func TestCore_Poll(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	require.NoError(t, f.carrier.Schedule(8, 0, shotTicks))
	codes := make([]uint32, shotTicks+5000)
	f.carrier.Fill(codes)
	f.core.Scheduler().ServiceBlock(codes)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.core.Poll(ctx) }()

	require.Eventually(t, func() bool {
		f.core.Mask().Disable()
		defer f.core.Mask().Enable()
		return f.core.Buffer().Len() == 0
	}, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not return after cancel")
	}

	assert.True(t, f.core.HitPending())
	assert.Equal(t, 8, f.core.LastHitChannel())
}

func TestCore_InertHooks(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.core.IgnoreAllHits(true)
	f.core.SetFudgeFactorIndex(3)
	assert.Equal(t, dsp.DefaultFudgeFactor, f.core.Classifier().FudgeFactor())

	require.NoError(t, f.carrier.Schedule(0, 0, shotTicks))
	f.run(shotTicks)
	assert.True(t, f.core.HitPending(), "IgnoreAllHits has no effect")
}

func levelsN(level bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = level
	}
	return out
}

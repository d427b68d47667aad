package timers

import (
	"slices"
	"testing"

	"github.com/ColonelBlimp/lasertag/internal/pins"
)

const testDebounce = 5

type ticker interface{ Tick() }

func tickN(m ticker, n int) {
	for range n {
		m.Tick()
	}
}

// countingEmitter records Run calls.
type countingEmitter struct{ runs int }

func (e *countingEmitter) Run() { e.runs++ }

// levels builds a trigger script from (level, count) runs.
func levels(runs ...any) []bool {
	var out []bool
	for i := 0; i < len(runs); i += 2 {
		level := runs[i].(bool)
		for range runs[i+1].(int) {
			out = append(out, level)
		}
	}
	return out
}

func newTestTrigger(t *testing.T, script []bool) (*Trigger, *countingEmitter, *CueLog) {
	t.Helper()
	tx := &countingEmitter{}
	cues := &CueLog{}
	trig, err := NewTrigger(TriggerConfig{DebounceTicks: testDebounce, ClipSize: 10},
		pins.NewFakeInput(script...), tx, cues)
	if err != nil {
		t.Fatalf("NewTrigger() error = %v", err)
	}
	return trig, tx, cues
}

func TestNewTrigger_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TriggerConfig
		wantErr error
	}{
		{"zero debounce", TriggerConfig{DebounceTicks: 0, ClipSize: 10}, ErrInvalidTicks},
		{"zero clip", TriggerConfig{DebounceTicks: 5, ClipSize: 0}, ErrInvalidClipSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTrigger(tt.cfg, nil, nil, nil); err != tt.wantErr {
				t.Errorf("NewTrigger() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrigger_InitialState(t *testing.T) {
	trig, _, _ := newTestTrigger(t, nil)
	if trig.State() != TriggerIdle {
		t.Errorf("State() = %v, want idle", trig.State())
	}
	if !trig.Enabled() {
		t.Error("trigger should start enabled")
	}
	if trig.RemainingAmmo() != 10 {
		t.Errorf("RemainingAmmo() = %d, want 10", trig.RemainingAmmo())
	}
}

func TestTrigger_ShortPressNeverFires(t *testing.T) {
	trig, tx, cues := newTestTrigger(t, levels(true, testDebounce-1, false, 1))
	tickN(trig, 50)

	if tx.runs != 0 {
		t.Errorf("transmitter runs = %d, want 0", tx.runs)
	}
	if len(cues.Cues()) != 0 {
		t.Errorf("cues = %v, want none", cues.Cues())
	}
	if trig.State() != TriggerIdle {
		t.Errorf("State() = %v, want idle", trig.State())
	}
	if trig.RemainingAmmo() != 10 {
		t.Errorf("RemainingAmmo() = %d, want 10", trig.RemainingAmmo())
	}
}

func TestTrigger_ExactDebounceFiresOnce(t *testing.T) {
	trig, tx, cues := newTestTrigger(t, levels(true, testDebounce, false, 1))

	tickN(trig, testDebounce-1)
	if trig.State() != TriggerDebouncingPress || tx.runs != 0 {
		t.Fatalf("after %d ticks: state %v, runs %d", testDebounce-1, trig.State(), tx.runs)
	}

	trig.Tick()
	if trig.State() != TriggerFiring {
		t.Errorf("State() = %v, want firing", trig.State())
	}
	if tx.runs != 1 {
		t.Errorf("transmitter runs = %d, want 1", tx.runs)
	}

	tickN(trig, testDebounce-1)
	if trig.State() != TriggerDebouncingRelease {
		t.Errorf("State() = %v, want debouncing-release", trig.State())
	}
	trig.Tick()
	if trig.State() != TriggerIdle {
		t.Errorf("State() = %v, want idle after release debounce", trig.State())
	}

	if got := cues.Cues(); !slices.Equal(got, []Cue{CueGunFire}) {
		t.Errorf("cues = %v, want [gun-fire]", got)
	}
	if trig.RemainingAmmo() != 9 {
		t.Errorf("RemainingAmmo() = %d, want 9", trig.RemainingAmmo())
	}
	if trig.Shots() != 1 {
		t.Errorf("Shots() = %d, want 1", trig.Shots())
	}
}

func TestTrigger_LongHoldFiresOnce(t *testing.T) {
	trig, tx, _ := newTestTrigger(t, levels(true, 1000, false, 1))
	tickN(trig, 1200)

	if tx.runs != 1 {
		t.Errorf("transmitter runs = %d, want 1", tx.runs)
	}
}

func TestTrigger_ReleaseBounceIsAbsorbed(t *testing.T) {
	script := levels(
		true, testDebounce,
		false, testDebounce-2,
		true, 3,
		false, testDebounce-1,
		true, 1,
		false, 1,
	)
	trig, tx, _ := newTestTrigger(t, script)
	tickN(trig, len(script)+testDebounce)

	if tx.runs != 1 {
		t.Errorf("transmitter runs = %d, want 1", tx.runs)
	}
	if trig.State() != TriggerIdle {
		t.Errorf("State() = %v, want idle", trig.State())
	}
}

func TestTrigger_SeparatePressesFireEach(t *testing.T) {
	press := levels(true, testDebounce+3, false, testDebounce+3)
	var script []bool
	for range 3 {
		script = append(script, press...)
	}
	trig, tx, _ := newTestTrigger(t, script)
	tickN(trig, len(script))

	if tx.runs != 3 {
		t.Errorf("transmitter runs = %d, want 3", tx.runs)
	}
	if trig.RemainingAmmo() != 7 {
		t.Errorf("RemainingAmmo() = %d, want 7", trig.RemainingAmmo())
	}
}

func TestTrigger_DryFire(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Trigger)
	}{
		{"disabled", func(tr *Trigger) { tr.Disable() }},
		{"out of ammo", func(tr *Trigger) { tr.SetRemainingAmmo(0) }},
		{"reloading", func(tr *Trigger) { tr.Inhibit(InhibitReload) }},
		{"invincible", func(tr *Trigger) { tr.Inhibit(InhibitInvincibility) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trig, tx, cues := newTestTrigger(t, levels(true, testDebounce, false, 1))
			tt.setup(trig)
			ammo := trig.RemainingAmmo()

			tickN(trig, 2*testDebounce)

			if tx.runs != 0 {
				t.Errorf("transmitter runs = %d, want 0", tx.runs)
			}
			if got := cues.Cues(); !slices.Equal(got, []Cue{CueDryFire}) {
				t.Errorf("cues = %v, want [dry-fire]", got)
			}
			if trig.RemainingAmmo() != ammo {
				t.Errorf("RemainingAmmo() = %d, want %d", trig.RemainingAmmo(), ammo)
			}
			if trig.State() != TriggerIdle {
				t.Errorf("State() = %v, want idle", trig.State())
			}
		})
	}
}

func TestTrigger_UnlimitedAmmo(t *testing.T) {
	press := levels(true, testDebounce, false, testDebounce)
	var script []bool
	for range 15 {
		script = append(script, press...)
	}
	trig, tx, _ := newTestTrigger(t, script)
	trig.SetUnlimitedAmmo(true)
	trig.SetRemainingAmmo(0)

	tickN(trig, len(script))

	if tx.runs != 15 {
		t.Errorf("transmitter runs = %d, want 15", tx.runs)
	}
	if trig.RemainingAmmo() != 0 {
		t.Errorf("RemainingAmmo() = %d, want 0", trig.RemainingAmmo())
	}
}

func TestTrigger_InhibitSourcesAreIndependent(t *testing.T) {
	trig, _, _ := newTestTrigger(t, nil)

	trig.Inhibit(InhibitReload)
	trig.Inhibit(InhibitInvincibility)
	trig.Release(InhibitReload)
	if trig.Enabled() {
		t.Error("invincibility hold should keep the trigger disabled")
	}
	if !trig.Inhibited(InhibitInvincibility) || trig.Inhibited(InhibitReload) {
		t.Error("Inhibited() does not match the holds")
	}

	trig.Enable()
	if trig.Enabled() {
		t.Error("Enable must not release other sources")
	}
	trig.Release(InhibitInvincibility)
	if !trig.Enabled() {
		t.Error("trigger should be enabled with no holds")
	}
}

func TestTrigger_SetRemainingAmmoClamps(t *testing.T) {
	trig, _, _ := newTestTrigger(t, nil)

	trig.SetRemainingAmmo(-3)
	if trig.RemainingAmmo() != 0 {
		t.Errorf("RemainingAmmo() = %d, want 0", trig.RemainingAmmo())
	}
	trig.SetRemainingAmmo(99)
	if trig.RemainingAmmo() != trig.ClipSize() {
		t.Errorf("RemainingAmmo() = %d, want %d", trig.RemainingAmmo(), trig.ClipSize())
	}
}

func TestTriggerState_String(t *testing.T) {
	want := map[TriggerState]string{
		TriggerIdle:              "idle",
		TriggerDebouncingPress:   "debouncing-press",
		TriggerFiring:            "firing",
		TriggerDebouncingRelease: "debouncing-release",
		TriggerState(42):         "unknown",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), name)
		}
	}
}

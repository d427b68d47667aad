package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTickRate = 100000.0

// directPower sums the squares of channel ch's window without the cached state.
func directPower(fb *FilterBank, ch int) float64 {
	window := make([]float64, WindowSize)
	n := fb.Window(ch, window)
	var total float64
	for _, v := range window[:n] {
		total += v * v
	}
	return total
}

// feedSine pushes n samples of a sine at freq through the bank, running a
// decimation step every Decimation inputs.
func feedSine(fb *FilterBank, freq, amplitude float64, n int) {
	for i := range n {
		fb.AddInput(amplitude * math.Sin(2*math.Pi*freq*float64(i)/testTickRate))
		if (i+1)%Decimation == 0 {
			fb.Step()
		}
	}
}

func TestNewFilterBank_StartsZeroed(t *testing.T) {
	fb := NewFilterBank()

	for ch := range ChannelCount {
		assert.Zero(t, fb.CurrentPower(ch), "channel %d power", ch)
		assert.Equal(t, WindowSize, fb.out[ch].Len(), "channel %d window length", ch)
		assert.Equal(t, IIRATaps, fb.z[ch].Len(), "channel %d feedback length", ch)
	}
	assert.Equal(t, FIRTaps, fb.x.Len())
	assert.Equal(t, IIRBTaps, fb.y.Len())
}

func TestFilterBank_FIRImpulseResponse(t *testing.T) {
	fb := NewFilterBank()
	coeffs := FIRCoefficients()

	fb.AddInput(1)
	for k := range FIRTaps {
		if k > 0 {
			fb.AddInput(0)
		}
		got := fb.FIR()
		assert.InDelta(t, coeffs[k], got, 1e-15, "tap %d", k)
	}

	fb.AddInput(0)
	assert.Zero(t, fb.FIR(), "impulse should have left the FIR history")
}

func TestFilterBank_FIRPushesToIIRInput(t *testing.T) {
	fb := NewFilterBank()
	for range FIRTaps {
		fb.AddInput(1)
	}
	out := fb.FIR()

	assert.Equal(t, out, fb.y.Newest())
	assert.Equal(t, IIRBTaps, fb.y.Len())
}

func TestFilterBank_IIRFirstOutput(t *testing.T) {
	for ch := range ChannelCount {
		fb := NewFilterBank()
		fb.y.OverwritePush(1)

		got := fb.IIR(ch)
		b := IIRBCoefficients(ch)
		assert.InDelta(t, b[0], got, 1e-20, "channel %d", ch)
		assert.Equal(t, got, fb.z[ch].Newest())
		assert.Equal(t, got, fb.out[ch].Newest())
	}
}

func TestFilterBank_IIRSecondOutputUsesFeedback(t *testing.T) {
	const ch = 3
	fb := NewFilterBank()
	fb.y.OverwritePush(1)
	first := fb.IIR(ch)
	fb.y.OverwritePush(0)
	second := fb.IIR(ch)

	b, a := IIRBCoefficients(ch), IIRACoefficients(ch)
	want := b[1]*1 - a[0]*first
	assert.InDelta(t, want, second, 1e-20)
}

func TestFilterBank_ForcedPowerMatchesDirectSum(t *testing.T) {
	fb := NewFilterBank()
	rng := rand.New(rand.NewSource(1))
	for range WindowSize {
		fb.out[2].OverwritePush(rng.Float64()*2 - 1)
	}

	got := fb.Power(2, true)
	assert.InEpsilon(t, directPower(fb, 2), got, 1e-12)
	assert.Equal(t, fb.out[2].Oldest(), fb.oldest[2])
}

func TestFilterBank_IncrementalPowerTracksWindowRotation(t *testing.T) {
	const ch = 5
	fb := NewFilterBank()
	rng := rand.New(rand.NewSource(7))

	for range WindowSize {
		fb.out[ch].OverwritePush(rng.NormFloat64())
	}
	fb.Power(ch, true)

	// Rotate the window several times over, one push per update.
	for i := range 5 * WindowSize {
		fb.out[ch].OverwritePush(rng.NormFloat64())
		got := fb.Power(ch, false)
		if i%997 == 0 {
			require.InEpsilon(t, directPower(fb, ch), got, 1e-9, "update %d", i)
		}
	}
	assert.InEpsilon(t, directPower(fb, ch), fb.CurrentPower(ch), 1e-9)
}

func TestFilterBank_IncrementalPowerThroughPipeline(t *testing.T) {
	fb := NewFilterBank()
	fb.ForceRecompute()
	rng := rand.New(rand.NewSource(99))

	for i := range 30000 {
		fb.AddInput(rng.Float64()*2 - 1)
		if (i+1)%Decimation == 0 {
			fb.Step()
		}
	}

	for ch := range ChannelCount {
		want := directPower(fb, ch)
		require.Positive(t, want, "channel %d should carry noise energy", ch)
		assert.InEpsilon(t, want, fb.CurrentPower(ch), 1e-9, "channel %d", ch)
	}
}

func TestFilterBank_SineSelectsItsChannel(t *testing.T) {
	for ch := range ChannelCount {
		freq, err := ChannelFrequency(ch, testTickRate)
		require.NoError(t, err)

		fb := NewFilterBank()
		feedSine(fb, freq, 0.5, (WindowSize+500)*Decimation)

		var normalized [ChannelCount]float64
		got := fb.NormalizedPowers(&normalized)
		assert.Equal(t, ch, got, "sine at %.0f Hz", freq)
		assert.Equal(t, 1.0, normalized[ch])
	}
}

func TestFilterBank_NormalizedPowers(t *testing.T) {
	fb := NewFilterBank()

	var normalized [ChannelCount]float64
	idx := fb.NormalizedPowers(&normalized)
	assert.Equal(t, 0, idx, "all-zero powers should report index 0")
	assert.Equal(t, [ChannelCount]float64{}, normalized)

	for ch, v := range []float64{1, 2, 8, 4, 0, 0, 0, 0, 0, 2} {
		fb.SetCurrentPower(ch, v)
	}
	idx = fb.NormalizedPowers(&normalized)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 1.0, normalized[2])
	assert.Equal(t, 0.5, normalized[3])
	assert.Equal(t, 0.125, normalized[0])

	var raw [ChannelCount]float64
	fb.CurrentPowers(&raw)
	assert.Equal(t, 8.0, raw[2], "normalizing must not alter stored powers")
}

func TestFilterBank_ResetClearsState(t *testing.T) {
	fb := NewFilterBank()
	feedSine(fb, 2000, 0.5, 5000)
	fb.Reset()

	for ch := range ChannelCount {
		assert.Zero(t, fb.CurrentPower(ch))
		assert.Zero(t, directPower(fb, ch))
	}
}

func TestChannelFrequency(t *testing.T) {
	f0, err := ChannelFrequency(0, testTickRate)
	require.NoError(t, err)
	assert.InDelta(t, 1470.59, f0, 0.01)

	f9, err := ChannelFrequency(9, testTickRate)
	require.NoError(t, err)
	assert.InDelta(t, 4166.67, f9, 0.01)

	_, err = ChannelFrequency(10, testTickRate)
	assert.ErrorIs(t, err, ErrInvalidChannel)

	_, err = ChannelFrequency(-1, testTickRate)
	assert.ErrorIs(t, err, ErrInvalidChannel)

	_, err = ChannelFrequency(0, 0)
	assert.ErrorIs(t, err, ErrInvalidTickRate)
}

func TestChannelTicks_Descending(t *testing.T) {
	prev := math.MaxInt
	for ch := range ChannelCount {
		ticks, err := ChannelTicks(ch)
		require.NoError(t, err)
		assert.Less(t, ticks, prev, "channel %d", ch)
		assert.Zero(t, ticks%2, "channel %d period must split into equal halves", ch)
		prev = ticks
	}
}

func BenchmarkFilterBank_Step(b *testing.B) {
	fb := NewFilterBank()
	for i := 0; i < b.N; i++ {
		for j := range Decimation {
			fb.AddInput(float64(j) / Decimation)
		}
		fb.Step()
	}
}

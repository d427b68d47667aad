// Package dsp implements the receiver signal chain: a decimating FIR
// low-pass, ten IIR band-pass channels with running power estimates, and
// the hit classifier that ranks those powers.
package dsp

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"github.com/ColonelBlimp/lasertag/internal/queue"
)

var (
	// ErrInvalidChannel indicates a channel index outside [0, ChannelCount)
	ErrInvalidChannel = errors.New("channel must be between 0 and 9")
	// ErrInvalidTickRate indicates the tick rate must be positive
	ErrInvalidTickRate = errors.New("tick rate must be positive")
)

// FilterBank owns every filter history and the per-channel power state.
// It is foreground-only: nothing here is touched from the tick interrupt.
//
// Call order per decimated sample is AddInput (Decimation times), FIR, then
// IIR and Power for each channel. Power in incremental mode assumes exactly
// one IIR output was appended to that channel since the previous call.
type FilterBank struct {
	x   *queue.Queue[float64] // FIR input history
	y   *queue.Queue[float64] // FIR output history, IIR input
	z   [ChannelCount]*queue.Queue[float64]
	out [ChannelCount]*queue.Queue[float64]

	power  [ChannelCount]float64
	oldest [ChannelCount]float64 // window head at the last Power call

	scratch []float64
}

// NewFilterBank allocates all histories zero-filled so every read during
// start-up is in range.
func NewFilterBank() *FilterBank {
	fb := &FilterBank{
		x:       queue.MustNew[float64](FIRTaps, "fir-x"),
		y:       queue.MustNew[float64](IIRBTaps, "fir-y"),
		scratch: make([]float64, WindowSize),
	}
	for ch := range ChannelCount {
		fb.z[ch] = queue.MustNew[float64](IIRATaps, "iir-z")
		fb.out[ch] = queue.MustNew[float64](WindowSize, "iir-out")
	}
	fb.Reset()
	return fb
}

// Reset zero-fills every history and clears the powers.
func (fb *FilterBank) Reset() {
	fb.x.Fill(0)
	fb.y.Fill(0)
	for ch := range ChannelCount {
		fb.z[ch].Fill(0)
		fb.out[ch].Fill(0)
	}
	fb.power = [ChannelCount]float64{}
	fb.oldest = [ChannelCount]float64{}
}

// AddInput appends one scaled sample to the FIR input history.
func (fb *FilterBank) AddInput(x float64) {
	fb.x.OverwritePush(x)
}

// FIR computes one low-pass output from the newest FIRTaps inputs, appends
// it to the IIR input history and returns it.
func (fb *FilterBank) FIR() float64 {
	var total float64
	for i, c := range firCoefficients {
		total += fb.x.At(FIRTaps-1-i) * c
	}
	fb.y.OverwritePush(total)
	return total
}

// IIR runs band-pass channel ch once over the FIR output history and its own
// feedback history. The result is appended to both the feedback history and
// the power window, and returned.
func (fb *FilterBank) IIR(ch int) float64 {
	b, a := &iirB[ch], &iirA[ch]
	z := fb.z[ch]

	total := b[IIRBTaps-1] * fb.y.At(0)
	for i := range IIRATaps {
		total += fb.y.At(IIRBTaps-1-i)*b[i] - z.At(IIRATaps-1-i)*a[i]
	}

	z.OverwritePush(total)
	fb.out[ch].OverwritePush(total)
	return total
}

// Power updates and returns the energy of channel ch's output window.
//
// With force set it sums the square of every sample in the window. Otherwise
// it removes the square of the sample that was oldest at the previous call
// (now evicted) and adds the square of the newest one. Either way it records
// the current oldest sample for the next incremental step.
func (fb *FilterBank) Power(ch int, force bool) float64 {
	w := fb.out[ch]
	if force {
		n := w.CopyTo(fb.scratch)
		fb.power[ch] = floats.Dot(fb.scratch[:n], fb.scratch[:n])
	} else {
		newest := w.Newest()
		old := fb.oldest[ch]
		fb.power[ch] = fb.power[ch] - old*old + newest*newest
	}
	fb.oldest[ch] = w.Oldest()
	return fb.power[ch]
}

// ForceRecompute recomputes every channel's power from scratch.
func (fb *FilterBank) ForceRecompute() {
	for ch := range ChannelCount {
		fb.Power(ch, true)
	}
}

// Step runs FIR, every IIR channel and every incremental power update: the
// work done once per Decimation inputs.
func (fb *FilterBank) Step() {
	fb.FIR()
	for ch := range ChannelCount {
		fb.IIR(ch)
		fb.Power(ch, false)
	}
}

// CurrentPower returns the last computed power of channel ch.
func (fb *FilterBank) CurrentPower(ch int) float64 {
	return fb.power[ch]
}

// SetCurrentPower overwrites the stored power of channel ch. Used to drive
// the classifier with known values.
func (fb *FilterBank) SetCurrentPower(ch int, v float64) {
	fb.power[ch] = v
}

// CurrentPowers copies all channel powers into dst.
func (fb *FilterBank) CurrentPowers(dst *[ChannelCount]float64) {
	*dst = fb.power
}

// NormalizedPowers copies the powers into dst divided by the largest one and
// returns the index of that largest channel. When every power is zero dst
// is all zero and the index is 0.
func (fb *FilterBank) NormalizedPowers(dst *[ChannelCount]float64) int {
	maxIdx := floats.MaxIdx(fb.power[:])
	peak := fb.power[maxIdx]
	if peak == 0 {
		*dst = [ChannelCount]float64{}
		return 0
	}
	*dst = fb.power
	floats.Scale(1/peak, dst[:])
	return maxIdx
}

// Window copies channel ch's power window oldest-first into dst.
func (fb *FilterBank) Window(ch int, dst []float64) int {
	return fb.out[ch].CopyTo(dst)
}

// FIRCoefficients returns a copy of the FIR taps.
func FIRCoefficients() [FIRTaps]float64 { return firCoefficients }

// IIRACoefficients returns a copy of channel ch's feedback taps.
func IIRACoefficients(ch int) [IIRATaps]float64 { return iirA[ch] }

// IIRBCoefficients returns a copy of channel ch's feed-forward taps.
func IIRBCoefficients(ch int) [IIRBTaps]float64 { return iirB[ch] }

// ChannelTicks returns the carrier period of channel ch in ticks at the
// reference 100 kHz rate.
func ChannelTicks(ch int) (int, error) {
	if ch < 0 || ch >= ChannelCount {
		return 0, ErrInvalidChannel
	}
	return channelTicks[ch], nil
}

// ChannelFrequency returns channel ch's carrier frequency in Hz when ticks
// run at tickRate per second.
func ChannelFrequency(ch int, tickRate float64) (float64, error) {
	if tickRate <= 0 {
		return 0, ErrInvalidTickRate
	}
	ticks, err := ChannelTicks(ch)
	if err != nil {
		return 0, err
	}
	return tickRate / float64(ticks), nil
}

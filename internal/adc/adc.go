// Package adc supplies ADC samples to the tick interrupt: a live receiver
// captured through an audio interface, and a synthetic carrier source.
package adc

import "math"

const (
	// Bits is the converter resolution.
	Bits = 12
	// MaxCode is the largest code the converter produces.
	MaxCode = 1<<Bits - 1
	// MidScale is the code for a zero input.
	MidScale = (MaxCode + 1) / 2
)

// Scale maps a raw code onto [-1, 1]: 0 gives -1 and MaxCode gives +1.
func Scale(raw uint32) float64 {
	return float64(raw)*2/MaxCode - 1
}

// ToCode quantizes a normalized level in [-1, 1] to a code. Out-of-range
// input is clipped the way the converter would.
func ToCode(x float32) uint32 {
	v := float64(x)
	if math.IsNaN(v) {
		return MidScale
	}
	v = min(max(v, -1), 1)
	return uint32(math.Round((v + 1) / 2 * MaxCode))
}

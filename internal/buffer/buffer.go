// Package buffer holds raw ADC codes between the tick interrupt and the
// foreground detector.
package buffer

import (
	"github.com/ColonelBlimp/lasertag/internal/queue"
)

// DefaultSize absorbs a little over 300 ms of samples at 100 kHz.
const DefaultSize = 32768

// SampleBuffer is the only structure shared by interrupt and foreground code.
//
// Push is called from the interrupt only and always overwrites the oldest
// sample when full, so the producer never blocks. Correctness assumes the
// foreground drains faster than the interrupt fills; when it does not, the
// oldest samples are lost and Dropped counts them.
//
// SampleBuffer does no locking. The foreground must hold the interrupt mask
// around Len and Pop while the tick interrupt is live.
type SampleBuffer struct {
	q       *queue.Queue[uint32]
	dropped uint64
}

// New returns an empty buffer of the given capacity.
func New(capacity int) (*SampleBuffer, error) {
	q, err := queue.New[uint32](capacity, "adc")
	if err != nil {
		return nil, err
	}
	return &SampleBuffer{q: q}, nil
}

// Push stores one ADC code, discarding the oldest one if the buffer is full.
func (b *SampleBuffer) Push(v uint32) {
	if b.q.Full() {
		b.dropped++
	}
	b.q.OverwritePush(v)
}

// Pop removes the oldest code. It returns 0 when the buffer is empty and
// sets the sticky underflow flag.
func (b *SampleBuffer) Pop() uint32 {
	v, _ := b.q.Pop()
	return v
}

// Underflow reports whether Pop was ever called on an empty buffer since the
// last ClearFlags.
func (b *SampleBuffer) Underflow() bool { return b.q.Underflow() }

// ClearFlags resets the underflow flag.
func (b *SampleBuffer) ClearFlags() { b.q.ClearFlags() }

// Len returns the number of buffered codes.
func (b *SampleBuffer) Len() int { return b.q.Len() }

// Cap returns the capacity.
func (b *SampleBuffer) Cap() int { return b.q.Cap() }

// Dropped returns how many samples were overwritten before being drained.
// A non-zero value means the drain-latency assumption was violated.
func (b *SampleBuffer) Dropped() uint64 { return b.dropped }

// Reset empties the buffer and clears the drop count.
func (b *SampleBuffer) Reset() {
	b.q.Reset()
	b.dropped = 0
}

package core

import (
	"sync/atomic"

	"github.com/ColonelBlimp/lasertag/internal/buffer"
)

// Machine is one tick-driven state machine.
type Machine interface {
	Tick()
}

// Scheduler is the body of the tick interrupt: store the newest ADC sample,
// then advance every machine once in a fixed order.
type Scheduler struct {
	mask     *Mask
	buf      *buffer.SampleBuffer
	machines []Machine
	ticks    atomic.Uint64
}

// NewScheduler creates a scheduler advancing machines in the given order.
func NewScheduler(mask *Mask, buf *buffer.SampleBuffer, machines ...Machine) *Scheduler {
	return &Scheduler{mask: mask, buf: buf, machines: machines}
}

// PushSample stores one ADC code, overwriting the oldest when full.
// The caller must hold the mask.
func (s *Scheduler) PushSample(v uint32) {
	s.buf.Push(v)
}

// Tick advances every machine exactly once. The caller must hold the mask.
func (s *Scheduler) Tick() {
	for _, m := range s.machines {
		m.Tick()
	}
	s.ticks.Add(1)
}

// Interrupt runs one complete tick with the mask held.
func (s *Scheduler) Interrupt(v uint32) {
	s.mask.Disable()
	s.PushSample(v)
	s.Tick()
	s.mask.Enable()
}

// ServiceBlock runs one interrupt per code, in order. It is the handler for
// block-oriented sample sources that deliver many ticks at once.
func (s *Scheduler) ServiceBlock(codes []uint32) {
	for _, v := range codes {
		s.Interrupt(v)
	}
}

// Ticks returns the number of ticks run so far.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

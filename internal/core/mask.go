// Package core ties the sample buffer, filter bank, classifier and timer
// machines together into the two execution contexts of the weapon: the
// fixed-rate tick interrupt (Scheduler) and the foreground detector (Pump).
package core

import "sync"

// Mask stands in for the processor's global interrupt enable. While the
// foreground holds it, the tick interrupt cannot run, and the interrupt
// holds it for its whole body so it is never preempted.
type Mask struct {
	mu sync.Mutex
}

// Disable blocks the tick interrupt.
func (m *Mask) Disable() { m.mu.Lock() }

// Enable lets the tick interrupt run again.
func (m *Mask) Enable() { m.mu.Unlock() }

// Do runs fn with the interrupt blocked.
func (m *Mask) Do(fn func()) {
	m.Disable()
	defer m.Enable()
	fn()
}

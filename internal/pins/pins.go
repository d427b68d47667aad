// Package pins provides the digital lines the timer machines poll and drive.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package pins

// Input is a digital input sampled once per tick.
type Input interface {
	// Get returns the current logical level, true = asserted.
	Get() bool
}

// Output is a digital output written from tick context.
type Output interface {
	// Set drives the line to the given logical level.
	Set(level bool)
}

// Nop is an Input that is never asserted and an Output that discards writes.
type Nop struct{}

// Get always reports the line deasserted.
func (Nop) Get() bool { return false }

// Set discards the level.
func (Nop) Set(bool) {}

// Default BCM line offsets on the Raspberry Pi header.
const (
	DefaultTriggerPin       = 17
	DefaultTransmitterPin   = 18
	DefaultHitLedPin        = 27
	DefaultInvincibilityPin = 22
	DefaultChip             = "gpiochip0"
)

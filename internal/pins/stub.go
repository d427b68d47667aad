//go:build !linux

package pins

import "errors"

// ErrUnsupported is returned when GPIO lines are requested off Linux.
var ErrUnsupported = errors.New("pins: not supported on this platform (requires Linux)")

// LineInput is not available on non-Linux platforms.
type LineInput struct{}

// NewLineInput returns an error on non-Linux platforms.
func NewLineInput(chip string, offset int) (*LineInput, error) {
	return nil, ErrUnsupported
}

// Get always reports false.
func (in *LineInput) Get() bool { return false }

// Close does nothing.
func (in *LineInput) Close() error { return nil }

// LineOutput is not available on non-Linux platforms.
type LineOutput struct{}

// NewLineOutput returns an error on non-Linux platforms.
func NewLineOutput(chip string, offset int) (*LineOutput, error) {
	return nil, ErrUnsupported
}

// Set does nothing.
func (out *LineOutput) Set(bool) {}

// Close does nothing.
func (out *LineOutput) Close() error { return nil }

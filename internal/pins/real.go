//go:build linux

package pins

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// LineInput tracks a GPIO input through edge events so Get never touches
// the kernel from tick context.
type LineInput struct {
	line  *gpiocdev.Line
	level atomic.Bool
}

// NewLineInput requests offset on chip as an input with pull-down and both
// edges watched.
func NewLineInput(chip string, offset int) (*LineInput, error) {
	in := &LineInput{}
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(in.handle))
	if err != nil {
		return nil, fmt.Errorf("request input line %d on %s: %w", offset, chip, err)
	}
	in.line = line

	v, err := line.Value()
	if err != nil {
		line.Close()
		return nil, fmt.Errorf("read input line %d: %w", offset, err)
	}
	in.level.Store(v == 1)
	return in, nil
}

func (in *LineInput) handle(evt gpiocdev.LineEvent) {
	in.level.Store(evt.Type == gpiocdev.LineEventRisingEdge)
}

// Get returns the level seen at the most recent edge.
func (in *LineInput) Get() bool {
	return in.level.Load()
}

// Close releases the line.
func (in *LineInput) Close() error {
	if in.line == nil {
		return nil
	}
	if err := in.line.Close(); err != nil {
		return fmt.Errorf("close input line: %w", err)
	}
	return nil
}

// LineOutput drives a GPIO output line.
type LineOutput struct {
	line   *gpiocdev.Line
	offset int
	level  atomic.Bool
}

// NewLineOutput requests offset on chip as an output starting low.
func NewLineOutput(chip string, offset int) (*LineOutput, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request output line %d on %s: %w", offset, chip, err)
	}
	return &LineOutput{line: line, offset: offset}, nil
}

// Set writes the level. Writes that do not change the level are skipped.
func (out *LineOutput) Set(level bool) {
	if out.level.Swap(level) == level {
		return
	}
	v := 0
	if level {
		v = 1
	}
	if err := out.line.SetValue(v); err != nil {
		slog.Debug("gpio write failed", "line", out.offset, "err", err)
	}
}

// Close drives the line low, returns it to input and releases it.
func (out *LineOutput) Close() error {
	if out.line == nil {
		return nil
	}
	var errs []error
	if err := out.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("drive line low: %w", err))
	}
	if err := out.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
	}
	if err := out.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close line: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

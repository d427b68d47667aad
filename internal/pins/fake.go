package pins

import "sync"

// FakeInput is a test double that returns scripted levels.
type FakeInput struct {
	mu sync.Mutex

	// levels contains scripted values; each Get consumes the next one and
	// the last one repeats once the script is exhausted.
	levels []bool
	index  int

	// Reads counts calls to Get.
	Reads int
}

// NewFakeInput creates a FakeInput with the given script.
func NewFakeInput(levels ...bool) *FakeInput {
	return &FakeInput{levels: levels}
}

// Get returns the next scripted level. With no script it reports false.
func (f *FakeInput) Get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Reads++
	if len(f.levels) == 0 {
		return false
	}
	level := f.levels[f.index]
	if f.index < len(f.levels)-1 {
		f.index++
	}
	return level
}

// Hold replaces the script with a single level held indefinitely.
func (f *FakeInput) Hold(level bool) {
	f.Script(level)
}

// Script replaces the remaining levels.
func (f *FakeInput) Script(levels ...bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels = levels
	f.index = 0
}

// FakeOutput records what was written to it.
type FakeOutput struct {
	mu sync.Mutex

	level bool
	// Writes counts calls to Set.
	Writes int
	// Edges counts level changes.
	Edges int
}

// NewFakeOutput creates a FakeOutput starting low.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Set records the level and counts an edge when it changes.
func (f *FakeOutput) Set(level bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Writes++
	if level != f.level {
		f.Edges++
	}
	f.level = level
}

// Level returns the last written level.
func (f *FakeOutput) Level() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

// Reset clears the recorded state.
func (f *FakeOutput) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level = false
	f.Writes = 0
	f.Edges = 0
}

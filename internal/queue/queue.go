// Package queue implements the fixed-capacity circular queue shared by the
// sample buffer and every filter history.
package queue

import (
	"errors"
	"log/slog"
)

var (
	// ErrInvalidCapacity indicates capacity must be at least one element
	ErrInvalidCapacity = errors.New("queue capacity must be positive")
)

// Queue is a bounded FIFO with age-indexed random reads.
// It is not safe for concurrent use; callers that share a queue between an
// interrupt and the foreground must bracket access with their own mask.
type Queue[T any] struct {
	name     string
	data     []T
	indexIn  int // next open slot
	indexOut int // oldest element
	count    int

	overflow   bool
	underflow  bool
	outOfRange bool
}

// New allocates a queue holding up to capacity elements. The queue starts
// empty; use Fill to preload a known value.
func New[T any](capacity int, name string) (*Queue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Queue[T]{
		name: name,
		data: make([]T, capacity),
	}, nil
}

// MustNew is New for fixed, known-good capacities. It panics on error, which
// is fatal at init.
func MustNew[T any](capacity int, name string) *Queue[T] {
	q, err := New[T](capacity, name)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return q
}

// Name returns the diagnostic name given at construction.
func (q *Queue[T]) Name() string { return q.name }

// Cap returns the capacity.
func (q *Queue[T]) Cap() int { return len(q.data) }

// Len returns the number of stored elements.
func (q *Queue[T]) Len() int { return q.count }

// Full reports whether Len equals Cap.
func (q *Queue[T]) Full() bool { return q.count == len(q.data) }

// Empty reports whether the queue holds nothing.
func (q *Queue[T]) Empty() bool { return q.count == 0 }

// Push appends v. When the queue is full the overflow flag is set, v is
// dropped and Push returns false.
func (q *Queue[T]) Push(v T) bool {
	if q.Full() {
		q.overflow = true
		slog.Debug("queue overflow", "queue", q.name, "cap", len(q.data))
		return false
	}
	q.data[q.indexIn] = v
	q.indexIn = (q.indexIn + 1) % len(q.data)
	q.count++
	return true
}

// Pop removes and returns the oldest element. On an empty queue it sets the
// underflow flag and returns the zero value and false.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.count == 0 {
		q.underflow = true
		slog.Debug("queue underflow", "queue", q.name)
		return zero, false
	}
	v := q.data[q.indexOut]
	q.data[q.indexOut] = zero
	q.indexOut = (q.indexOut + 1) % len(q.data)
	q.count--
	return v, true
}

// OverwritePush appends v, discarding the oldest element first when full.
// It never fails and never touches the flags.
func (q *Queue[T]) OverwritePush(v T) {
	if q.Full() {
		q.indexOut = (q.indexOut + 1) % len(q.data)
		q.count--
	}
	q.data[q.indexIn] = v
	q.indexIn = (q.indexIn + 1) % len(q.data)
	q.count++
}

// At returns the element at age index i without removing it: 0 is the
// oldest, Len()-1 the newest. Out-of-range reads set the out-of-range flag
// and return the zero value.
func (q *Queue[T]) At(i int) T {
	if i < 0 || i >= q.count {
		var zero T
		q.outOfRange = true
		slog.Debug("queue index out of range", "queue", q.name, "index", i, "len", q.count)
		return zero
	}
	return q.data[(q.indexOut+i)%len(q.data)]
}

// Oldest is At(0).
func (q *Queue[T]) Oldest() T { return q.At(0) }

// Newest is At(Len()-1).
func (q *Queue[T]) Newest() T { return q.At(q.count - 1) }

// CopyTo writes the contents oldest-first into dst and returns the number of
// elements copied (the smaller of Len and len(dst)).
func (q *Queue[T]) CopyTo(dst []T) int {
	n := min(q.count, len(dst))
	first := min(n, len(q.data)-q.indexOut)
	copy(dst, q.data[q.indexOut:q.indexOut+first])
	copy(dst[first:n], q.data[:n-first])
	return n
}

// Fill overwrite-pushes v until the queue is full.
func (q *Queue[T]) Fill(v T) {
	for range len(q.data) {
		q.OverwritePush(v)
	}
}

// Reset empties the queue and clears all flags.
func (q *Queue[T]) Reset() {
	clear(q.data)
	q.indexIn, q.indexOut, q.count = 0, 0, 0
	q.ClearFlags()
}

// Overflow reports whether Push was ever refused since the last ClearFlags.
func (q *Queue[T]) Overflow() bool { return q.overflow }

// Underflow reports whether Pop was ever called on an empty queue.
func (q *Queue[T]) Underflow() bool { return q.underflow }

// OutOfRange reports whether At was ever called with a bad index.
func (q *Queue[T]) OutOfRange() bool { return q.outOfRange }

// ClearFlags resets the sticky fault flags.
func (q *Queue[T]) ClearFlags() {
	q.overflow, q.underflow, q.outOfRange = false, false, false
}

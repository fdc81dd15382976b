// Package resource standardizes the fetch lifecycle every data-reading
// page goes through: Idle until the first load, Loading while a fetch is
// in flight, then Ready with a value or Error with a message. A retry is
// just another Load.
package resource

import (
	"context"
	"fmt"
	"sync"
)

// State is the discriminated lifecycle state. Exactly one holds at a time.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	}
	return "unknown"
}

// Snapshot is one consistent view of a resource. Value is meaningful only
// when State is Ready, and Err only when State is Error.
type Snapshot[T any] struct {
	State State
	Value T
	Err   string
}

// Resource drives one fetch operation through the lifecycle. Overlapping
// loads are resolved last-issued-wins: a superseded fetch may still run to
// completion, but its result is discarded instead of overwriting the newer
// one. The name feeds the fallback error message.
type Resource[T any] struct {
	name string

	mu    sync.Mutex
	state State
	value T
	err   string
	gen   uint64
}

// New returns a Resource in the Idle state.
func New[T any](name string) *Resource[T] {
	return &Resource[T]{name: name}
}

// Load transitions to Loading, runs fetch, and applies the outcome unless
// a newer Load started meanwhile. It returns the fetch error, if any, so
// callers that block on the load can branch on it directly.
func (r *Resource[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.state = Loading
	r.err = ""
	r.mu.Unlock()

	value, err := fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		// A newer load superseded this one; drop the result.
		return err
	}
	if err != nil {
		r.state = Error
		r.err = errMessage(err, r.name)
		return err
	}
	r.state = Ready
	r.value = value
	return nil
}

// Snapshot returns the current state, value and error message atomically.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{State: r.state, Value: r.value, Err: r.err}
}

// Reset returns the resource to Idle, discarding any value or error.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.state = Idle
	r.err = ""
	var zero T
	r.value = zero
}

func errMessage(err error, name string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fmt.Sprintf("failed to fetch %s", name)
}

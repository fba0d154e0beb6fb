package reactor

import (
	"fmt"

	"github.com/latticerun/reactor/internal"
)

// Error kinds from spec.md 7: a taxonomy, not one concrete type there, made
// concrete here following the teacher's small-typed-error-plus-sentinel
// convention. Each wraps the triggering internal error and exposes Unwrap
// so errors.Is/errors.As see through to it.

// AtomError wraps a failure from an Atom operation (currently: a write to
// a disposed atom).
type AtomError struct{ Err error }

func (e *AtomError) Error() string { return fmt.Sprintf("reactor: atom: %v", e.Err) }
func (e *AtomError) Unwrap() error { return e.Err }

// ComputedError wraps a circular dependency, a panic from a computed's
// function, or a repeated read of a still-rejected computed.
type ComputedError struct{ Err error }

func (e *ComputedError) Error() string { return fmt.Sprintf("reactor: computed: %v", e.Err) }
func (e *ComputedError) Unwrap() error { return e.Err }

// EffectError wraps a panic from an effect's function or cleanup, or a
// rate-limit-triggered disposal.
type EffectError struct{ Err error }

func (e *EffectError) Error() string { return fmt.Sprintf("reactor: effect: %v", e.Err) }
func (e *EffectError) Unwrap() error { return e.Err }

// BatchError wraps a panic recovered from the function passed to Batch.
type BatchError struct{ Err error }

func (e *BatchError) Error() string { return fmt.Sprintf("reactor: batch: %v", e.Err) }
func (e *BatchError) Unwrap() error { return e.Err }

// ErrAtomDisposed is the sentinel reachable via errors.Is(err,
// reactor.ErrAtomDisposed) after a write to a disposed atom.
var ErrAtomDisposed = internal.ErrAtomDisposed

func wrapComputedPanic(r any) *ComputedError {
	if err, ok := r.(error); ok {
		return &ComputedError{Err: err}
	}
	return &ComputedError{Err: &internal.PanicValueError{Value: r}}
}

func wrapBatchPanic(r any) *BatchError {
	if err, ok := r.(error); ok {
		return &BatchError{Err: err}
	}
	return &BatchError{Err: &internal.PanicValueError{Value: r}}
}

package reactor

import "github.com/latticerun/reactor/internal"

// Batch runs fn with the scheduler's flush deferred until the outermost
// Batch call returns — spec.md 4.I: nested batches coalesce into one
// flush at the outermost exit. If fn panics, the flush still runs (via the
// deferred ExitBatch unwinding before the panic reaches the caller), and
// the panic is re-raised wrapped in a *BatchError — spec.md 7: "errors
// from fn are caught and re-wrapped... flush still runs".
func Batch[T any](fn func() T) T {
	rt := internal.GetRuntime()
	sched := rt.Scheduler()

	sched.EnterBatch()
	defer sched.ExitBatch()

	var result T
	func() {
		defer func() {
			if r := recover(); r != nil {
				panic(wrapBatchPanic(r))
			}
		}()
		result = fn()
	}()
	return result
}

// Untracked runs fn with the tracking context cleared, so reads inside fn
// do not register dependencies on whatever computed/effect is currently
// evaluating — spec.md 4.C's `untracked(fn)`.
func Untracked[T any](fn func() T) T {
	rt := internal.GetRuntime()
	var result T
	rt.Tracker().Untracked(func() { result = fn() })
	return result
}

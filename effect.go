package reactor

import "github.com/latticerun/reactor/internal"

// EffectHandle is the host-facing handle for a running side-effecting
// subscriber — spec.md 6's `effect(fn, options?) → handle`.
type EffectHandle struct {
	inner *internal.Effect
}

// Effect constructs and immediately runs fn inside a tracking scope
// (spec.md 4.H: "On creation, evaluates fn inside a tracking scope"). If fn
// returns a non-nil function, it is retained as a cleanup, run before the
// next re-run and on Dispose.
func Effect(fn func() func(), opts ...EffectOption) *EffectHandle {
	cfg := effectConfig{maxExecutionsPerSecond: 100}
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := internal.GetRuntime()
	onError := wrapEffectOnError(cfg.onError)
	inner := rt.NewEffect(fn, internal.EffectOptions{
		Sync:                   cfg.sync,
		MaxExecutionsPerSecond: cfg.maxExecutionsPerSecond,
		TrackModifications:     cfg.trackModifications,
		OnError:                onError,
	})
	inner.Run()
	return &EffectHandle{inner: inner}
}

// Dispose runs the pending cleanup (if any) and severs this effect from
// the graph. Idempotent.
func (e *EffectHandle) Dispose() { e.inner.Dispose() }

// Run forces an immediate re-run, outside the normal scheduler flush.
func (e *EffectHandle) Run() { e.inner.Run() }

// IsDisposed reports whether this effect has been disposed (by the host,
// or by the rate-limit loop guard).
func (e *EffectHandle) IsDisposed() bool { return e.inner.IsDisposed() }

// ExecutionCount reports how many times fn has run so far.
func (e *EffectHandle) ExecutionCount() int { return e.inner.ExecutionCount() }

func wrapEffectOnError(onError func(error)) func(error) {
	if onError == nil {
		return nil
	}
	return func(err error) { onError(&EffectError{Err: err}) }
}

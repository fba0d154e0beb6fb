package reactor

import "github.com/latticerun/reactor/internal"

// ComputedHandle is a lazy (by default) or eager derived value — spec.md
// 4.G.
type ComputedHandle[T any] struct {
	inner *internal.Computed
}

// Computed constructs a derived value recomputed from fn, per spec.md 6's
// `computed(fn, options?)`.
func Computed[T any](fn func() T, opts ...ComputedOption[T]) *ComputedHandle[T] {
	cfg := computedConfig[T]{lazy: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	equal := anyEqual[T](cfg.equal)
	rt := internal.GetRuntime()
	erasedFn := func() any { return fn() }
	return &ComputedHandle[T]{inner: rt.NewComputed(erasedFn, equal, cfg.lazy, cfg.onError)}
}

// Get tracks a dependency (if called while evaluating another
// computed/effect), recomputes if dirty, and returns the cached value.
// Panics with a *ComputedError if the last recompute failed and no
// dependency has changed since.
func (c *ComputedHandle[T]) Get() (result T) {
	defer func() {
		if r := recover(); r != nil {
			panic(wrapComputedPanic(r))
		}
	}()
	return c.inner.Read().(T)
}

// Peek returns the cached value without forcing a recompute or tracking a
// dependency.
func (c *ComputedHandle[T]) Peek() T {
	v := c.inner.Peek()
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// State reports the computed's current resting (or pending) state.
func (c *ComputedHandle[T]) State() State { return stateFromFlags(c.inner.State()) }

// HasError reports whether the last recompute attempt failed.
func (c *ComputedHandle[T]) HasError() bool { return c.inner.HasError() }

// LastError returns the error from the last failed recompute, or nil.
func (c *ComputedHandle[T]) LastError() error {
	if err := c.inner.LastError(); err != nil {
		return wrapComputedPanic(err)
	}
	return nil
}

// IsPending reports whether the computed is currently recomputing.
func (c *ComputedHandle[T]) IsPending() bool { return c.inner.IsPending() }

// IsResolved reports whether the last recompute succeeded.
func (c *ComputedHandle[T]) IsResolved() bool { return c.inner.IsResolved() }

// Subscribe registers fn to run whenever this computed recomputes to a new
// value.
func (c *ComputedHandle[T]) Subscribe(fn func(newValue, oldValue T)) Unsubscribe {
	return c.inner.Subscribe(func(newValue, oldValue any) {
		fn(newValue.(T), oldValue.(T))
	})
}

// Invalidate forces the computed dirty, as if a dependency had changed.
func (c *ComputedHandle[T]) Invalidate() { c.inner.Invalidate() }

// Dispose severs this computed from its dependencies and subscribers.
func (c *ComputedHandle[T]) Dispose() { c.inner.Dispose() }

// IsComputed reports whether x is a computed handle — spec.md 6's
// `isComputed(x)`, duck-typed in the source language on an `invalidate`
// method; here it's checked via the computedHandle interface below, which
// every instantiation of ComputedHandle[T] satisfies.
func IsComputed(x any) bool {
	_, ok := x.(computedHandle)
	return ok
}

type computedHandle interface {
	Invalidate()
	HasError() bool
}

package reactor

import "github.com/latticerun/reactor/internal"

// AtomHandle is a writable reactive cell — spec.md 4.E. The zero value is
// not usable; construct one with the Atom function.
type AtomHandle[T any] struct {
	inner *internal.Atom
}

// Atom constructs a writable cell holding initial, per spec.md 6's
// `atom(initial, options?)`.
func Atom[T any](initial T, opts ...AtomOption[T]) *AtomHandle[T] {
	cfg := atomConfig[T]{}
	for _, opt := range opts {
		opt(&cfg)
	}

	equal := anyEqual[T](cfg.equal)
	rt := internal.GetRuntime()
	return &AtomHandle[T]{inner: rt.NewAtom(initial, equal)}
}

// Get tracks a dependency (if called while a computed/effect is
// evaluating) and returns the atom's current value.
func (a *AtomHandle[T]) Get() T {
	return a.inner.Read().(T)
}

// Peek returns the current value without registering a dependency.
func (a *AtomHandle[T]) Peek() T {
	return a.inner.Peek().(T)
}

// Set stages v as the atom's next value (spec.md 4.E `value.set(v)`).
// Writing to a disposed atom panics with an *AtomError wrapping
// ErrAtomDisposed, since Set has no error return in the public signature
// (spec.md 6).
func (a *AtomHandle[T]) Set(v T) {
	if err := a.inner.Write(v); err != nil {
		panic(&AtomError{Err: err})
	}
}

// Subscribe registers fn to run once per settling pass in which this
// atom's value changed, with (newValue, oldValue).
func (a *AtomHandle[T]) Subscribe(fn func(newValue, oldValue T)) Unsubscribe {
	return a.inner.Subscribe(func(newValue, oldValue any) {
		fn(newValue.(T), oldValue.(T))
	})
}

// Dispose severs all subscribers and marks the atom disposed.
func (a *AtomHandle[T]) Dispose() {
	a.inner.Dispose()
}

func anyEqual[T any](equal func(a, b T) bool) func(a, b any) bool {
	if equal == nil {
		return nil
	}
	return func(a, b any) bool { return equal(a.(T), b.(T)) }
}

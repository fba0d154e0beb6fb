package internal

// StateFlags is the bitset state machine from spec.md 3 / 4.G. Exactly one
// of {Idle, Pending, Resolved, Rejected} holds at rest; Recomputing is
// transient; Dirty may co-occur with any resting state.
type StateFlags uint8

const (
	FlagDirty StateFlags = 1 << iota
	FlagIdle
	FlagPending
	FlagResolved
	FlagRejected
	FlagRecomputing
	FlagHasError
)

const restingMask = FlagIdle | FlagPending | FlagResolved | FlagRejected

// Component G: the lazy (by default) or eager derived value.
type Computed struct {
	*Node

	runtime *Runtime

	fn          func() any // may panic; recovered and wrapped by recompute
	value       any
	equal       func(a, b any) bool
	lazy        bool
	onError     func(error)
	lastError   error
	flags       StateFlags
	initialized bool

	// eagerWatcher is non-nil for an eager (lazy=false) computed: a
	// permanent synchronous effect that forces a recompute on every flush
	// that touches one of this computed's dependencies, per 4.G's "eager:
	// a dependency change schedules an immediate recompute on the next
	// flush" — reusing the same effect-backed forcing mechanism that
	// Subscribe attaches on demand (see attachComputedWatcher in
	// effect.go), rather than a second, parallel scheduling path.
	eagerWatcher *computedWatcher
}

func (r *Runtime) NewComputed(fn func() any, equal func(a, b any) bool, lazy bool, onError func(error)) *Computed {
	if equal == nil {
		equal = defaultEqual
	}
	c := &Computed{
		Node:    r.NewComputedNode(),
		runtime: r,
		fn:      fn,
		equal:   equal,
		lazy:    lazy,
		onError: onError,
		flags:   FlagDirty | FlagIdle,
	}
	c.owner = c
	if !lazy {
		c.eagerWatcher = r.attachComputedWatcher(c)
	}
	return c
}

// State returns the single resting (or transient Recomputing) state bit
// currently set — spec.md 4.G's {IDLE, PENDING, RESOLVED, REJECTED}, with
// PENDING standing in for the transient RECOMPUTING state observed from
// outside the evaluation (e.g. by a concurrent goroutine reading Peek, or
// by dev tooling).
func (c *Computed) State() StateFlags {
	switch {
	case c.flags&FlagRecomputing != 0:
		return FlagPending
	case c.flags&FlagRejected != 0:
		return FlagRejected
	case c.flags&FlagResolved != 0:
		return FlagResolved
	default:
		return FlagIdle
	}
}

func (c *Computed) HasError() bool   { return c.flags&FlagHasError != 0 }
func (c *Computed) LastError() error { return c.lastError }
func (c *Computed) IsDirty() bool    { return c.flags&FlagDirty != 0 }
func (c *Computed) IsPending() bool  { return c.flags&FlagRecomputing != 0 }
func (c *Computed) IsResolved() bool { return c.flags&FlagResolved != 0 }

// Read tracks the dependency (if any), recomputes if needed, and returns
// the current value — 4.G `read()`. Panics with the stored error (the
// public package wraps it in a ComputedError) if the computation is in a
// rejected state and hasn't been invalidated since.
func (c *Computed) Read() any {
	c.runtime.tracker.TrackRead(c.Node)

	if c.IsDirty() || !c.initialized {
		c.recompute()
	}

	if c.flags&FlagRejected != 0 {
		panic(c.lastError)
	}

	return c.value
}

// Peek returns the cached value without forcing a recompute and without
// tracking a dependency; it mirrors Atom.Peek and backs the public
// ComputedHandle.Peek.
func (c *Computed) Peek() any { return c.value }

// Invalidate forces Dirty, as if a dependency had changed, without waiting
// for one actually to.
func (c *Computed) Invalidate() {
	c.flags |= FlagDirty
}

func (c *Computed) recompute() {
	if c.flags&FlagRecomputing != 0 || c.runtime.tracker.InStack(c.Node) {
		err := &ComputedCircularError{}
		c.fail(err)
		panic(err)
	}

	if err := DetectCommittedCycle(c.runtime, c.Node); err != nil {
		c.fail(err)
		panic(err)
	}

	// no-op short-circuit: every dependency unchanged since last capture.
	if c.initialized && noChangeSinceLastRun(c.Node) {
		c.flags &^= FlagDirty
		return
	}

	c.flags = (c.flags &^ restingMask) | FlagRecomputing

	scope := newEvalScope(c.runtime, c.Node, c.runtime.tracker.Current())

	var result any
	failed := c.runtime.tracker.runRecovering(scope, func() {
		result = c.fn()
	}, func(recovered any) {
		c.fail(toError(recovered))
	})

	c.height = scope.finish()

	if failed {
		c.initialized = true
		return
	}

	c.initialized = true
	c.flags = (c.flags &^ (restingMask | FlagDirty | FlagRecomputing | FlagHasError)) | FlagResolved
	c.lastError = nil

	if !c.equal(c.value, result) {
		c.value = result
		c.version++
	}
}

func (c *Computed) fail(err error) {
	c.flags = (c.flags &^ (restingMask | FlagDirty | FlagRecomputing)) | FlagRejected | FlagHasError
	c.lastError = err
	if c.onError != nil {
		c.onError(err)
	}
}

// ComputedCircularError is the direct/live cycle variant of 4.G's circular
// detection (the committed-graph variant is CircularDependencyError).
type ComputedCircularError struct{}

func (*ComputedCircularError) Error() string { return "reactor: circular computed dependency" }

// Subscribe registers a raw listener, invoked with (newValue, oldValue)
// whenever this computed recomputes to a different value during a flush.
// Internally this attaches a lightweight always-eager dependent (see
// effect.go's computedWatcher) so the computed is forced to recompute on
// every flush that touches its dependencies, rather than waiting for the
// host to read it — spec.md leaves Computed.subscribe's exact trigger
// undocumented beyond "exposes subscribe"; this resolves it analogously to
// Atom.subscribe.
func (c *Computed) Subscribe(fn func(newValue, oldValue any)) Unsubscribe {
	unsub := c.subscribers.Subscribe(fn)
	if c.eagerWatcher != nil {
		// an eager computed already forces a recompute on every relevant
		// flush; a second watcher would just duplicate that work.
		return unsub
	}
	watcher := c.runtime.attachComputedWatcher(c)
	return func() {
		unsub()
		if c.subscribers.Len() == 0 {
			watcher.dispose()
		}
	}
}

func (c *Computed) hasSubscribers() bool { return c.subscribers.Len() > 0 }

func (c *Computed) notify(oldValue, newValue any) {
	c.subscribers.Notify(c.runtime.notificationPool, newValue, oldValue, func(r any) {
		c.runtime.Warn(c.Node, "panic in computed subscriber (recovered)")
	})
}

// Dispose severs this computed from its dependencies and subscribers.
func (c *Computed) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if c.eagerWatcher != nil {
		c.eagerWatcher.dispose()
		c.eagerWatcher = nil
	}
	c.ClearDeps()
	c.ClearSubs()
	c.subscribers.DisposeAll()
}

func toError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return err
	}
	return &PanicValueError{Value: recovered}
}

// PanicValueError wraps a non-error panic value from a computed/effect
// function so it still satisfies the error interface.
type PanicValueError struct {
	Value any
}

func (e *PanicValueError) Error() string {
	return "reactor: panic: " + anyToString(e.Value)
}

func anyToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "(non-string panic value)"
}

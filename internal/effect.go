package internal

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// Component H: the side-effecting subscriber. fn runs inside a tracking
// scope like a computed, but instead of producing a cached value it may
// return a cleanup closure, run before the next re-run and on Dispose.
type Effect struct {
	*Node

	runtime *Runtime

	fn      func() func()
	cleanup func()

	onError func(error)
	sync    bool // false (the default): deferred to the end of the current flush

	trackModifications bool

	limiter  *catrate.Limiter // nil unless maxExecutionsPerSecond was set
	category any

	executing   bool // reentrancy guard: fn is currently running
	rerunQueued bool // a dependency changed while fn was running

	execCount int
}

// EffectOptions bundles effect.go's functional-option surface, passed by
// the public package's EffectOption closures.
type EffectOptions struct {
	Sync                   bool
	MaxExecutionsPerSecond float64
	TrackModifications     bool
	OnError                func(error)
}

func (r *Runtime) NewEffect(fn func() func(), opts EffectOptions) *Effect {
	e := &Effect{
		Node:               r.NewEffectNode(),
		runtime:            r,
		fn:                 fn,
		onError:             opts.OnError,
		sync:                opts.Sync,
		trackModifications: opts.TrackModifications,
	}
	if opts.MaxExecutionsPerSecond > 0 {
		e.limiter = catrate.NewLimiter(map[time.Duration]int{
			time.Second: int(opts.MaxExecutionsPerSecond),
		})
		e.category = e.Node // category distinguishes this effect's own window
	}
	e.owner = e
	return e
}

func (e *Effect) ExecutionCount() int { return e.execCount }

// run executes the effect body once: runs the previous cleanup (if any),
// installs a fresh tracking scope, calls fn, captures the new cleanup, and
// re-links dependencies. Called by the scheduler's notification phase, or
// re-entrantly coalesced if a write happens while already executing.
func (e *Effect) run() {
	if e.disposed {
		return
	}

	if e.executing {
		// spec.md 4.H: a dependency write triggered by the effect's own
		// body (or by something it calls) doesn't nest a second
		// execution; it's coalesced into a single rerun after this one
		// finishes.
		e.rerunQueued = true
		return
	}

	e.executing = true
	defer func() { e.executing = false }()

	for {
		// Checked every iteration, not just on entry: a self-triggering
		// effect (writes an atom it reads) coalesces its own nested
		// flush into rerunQueued and never leaves this loop through the
		// normal return path, so a check before the initial call only
		// would never see the limiter trip.
		if e.limiter != nil {
			if _, ok := e.limiter.Allow(e.category); !ok {
				err := &EffectLoopError{}
				if e.onError != nil {
					e.onError(err)
				}
				e.runtime.Warn(e.Node, "effect exceeded max executions per second, disposing")
				e.Dispose()
				return
			}
		}

		e.runOnce()
		if !e.rerunQueued {
			return
		}
		e.rerunQueued = false
	}
}

func (e *Effect) runOnce() {
	if e.cleanup != nil {
		e.runPreviousCleanup()
	}

	scope := newEvalScope(e.runtime, e.Node, e.runtime.tracker.Current())

	var newCleanup func()
	failed := e.runtime.tracker.runRecovering(scope, func() {
		newCleanup = e.fn()
	}, func(recovered any) {
		err := toError(recovered)
		if e.onError != nil {
			e.onError(err)
		} else {
			e.runtime.Warn(e.Node, "unhandled panic in effect (recovered): "+err.Error())
		}
	})

	selfWrites := scope.selfWrites
	e.height = scope.finish()
	e.execCount++

	if e.trackModifications {
		e.checkSelfModification(selfWrites)
	}

	if !failed {
		e.cleanup = newCleanup
	}
}

// checkSelfModification warns (trackModifications option, 4.H) when this
// run wrote to an atom that is also one of its own dependencies — the
// shape that, absent the rate limiter, would re-trigger itself forever.
func (e *Effect) checkSelfModification(writes []*Node) {
	if len(writes) == 0 {
		return
	}
	written := make(map[*Node]bool, len(writes))
	for _, n := range writes {
		written[n] = true
	}
	e.Node.ForEachDep(func(l *DependencyLink) bool {
		if written[l.dep] {
			e.runtime.Warn(e.Node, "effect both reads and writes one of its own dependencies")
			return false
		}
		return true
	})
}

func (e *Effect) runPreviousCleanup() {
	defer func() {
		if r := recover(); r != nil {
			if e.onError != nil {
				e.onError(toError(r))
			} else {
				e.runtime.Warn(e.Node, "panic in effect cleanup (recovered)")
			}
		}
	}()
	e.cleanup()
	e.cleanup = nil
}

// Dispose runs the last cleanup (if any), then severs this effect from the
// graph permanently.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.cleanup != nil {
		e.runPreviousCleanup()
	}
	e.ClearDeps()
}

func (e *Effect) IsDisposed() bool { return e.disposed }

// Run forces an immediate re-run, bypassing the scheduler — the public
// package's EffectHandle.Run().
func (e *Effect) Run() { e.run() }

// EffectLoopError is reported (via onError, and a Warn) when an effect's
// rate limiter trips and the effect is disposed — spec.md 4.H's
// "infinite-loop error kind".
type EffectLoopError struct{}

func (*EffectLoopError) Error() string {
	return "reactor: effect exceeded maxExecutionsPerSecond and was disposed"
}

// computedWatcher keeps a Computed eagerly up to date by wrapping it in a
// synchronous Effect that reads the computed (forcing recomputation and
// dependency tracking) and forwards any resulting value change to the
// computed's own subscriber list. Attached permanently for a
// lazy=false Computed (4.G's eager mode), and on demand for the duration
// of at least one Computed.Subscribe registration on a lazy one. This lets
// both reuse Effect's scheduling and error isolation machinery rather than
// duplicating it; the watcher's effect is created without a rate limit.
type computedWatcher struct {
	effect    *Effect
	lastValue any
	hasValue  bool
}

func (r *Runtime) attachComputedWatcher(c *Computed) *computedWatcher {
	w := &computedWatcher{}
	w.effect = r.NewEffect(func() func() {
		newValue := c.Read()
		if w.hasValue && !c.equal(w.lastValue, newValue) {
			old := w.lastValue
			w.lastValue = newValue
			c.notify(old, newValue)
		} else if !w.hasValue {
			w.lastValue = newValue
			w.hasValue = true
		}
		return nil
	}, EffectOptions{Sync: true})
	w.effect.run()
	return w
}

func (w *computedWatcher) dispose() {
	w.effect.Dispose()
}

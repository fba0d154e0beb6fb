package internal

// Component I: batching and the two-phase flush. Writes land in
// enqueueDirtyAtom and never trigger recomputation directly; Schedule
// either defers (inside a batch, or while already flushing) or runs Flush,
// which commits every staged write, walks the graph once per drained batch
// to invalidate computeds and collect effects (phase 1), then notifies
// atom subscribers and runs effects, in that order (phase 2) — spec.md
// 4.I.
type Scheduler struct {
	runtime *Runtime

	batchDepth int
	dirtyAtoms []*Atom

	flushing bool

	// asyncPending collects effects created/scheduled with sync=false
	// (the default) across every round of the current top-level flush.
	// There is no microtask queue in a single-goroutine Go runtime, so
	// "runs on a microtask after the current batch settles" is modeled as
	// "runs once, after every synchronous round of this flush call has
	// drained" — still synchronous, but ordered strictly after every
	// sync effect and every atom subscriber notification.
	asyncPending []*Effect
	asyncSeen    map[*Effect]bool

	// maxIterations caps the number of times Flush can re-drain the queue
	// within a single call (an effect writing back to one of its own
	// upstream atoms re-enqueues work) before giving up — 4.I's infinite
	// loop safety net, independent of and in addition to the per-effect
	// rate limiter in effect.go.
	maxIterations int
}

func NewScheduler(r *Runtime) *Scheduler {
	return &Scheduler{runtime: r, maxIterations: 10000}
}

func (s *Scheduler) BatchDepth() int { return s.batchDepth }

// EnterBatch/ExitBatch bracket Batch(fn) in the public package: writes
// during the batch accumulate but don't flush until the outermost batch
// exits, per 4.E/4.I and scenario S3 (batching coalesces N writes into one
// settling pass per atom).
func (s *Scheduler) EnterBatch() { s.batchDepth++ }

func (s *Scheduler) ExitBatch() {
	s.batchDepth--
	if s.batchDepth < 0 {
		s.batchDepth = 0
	}
	if s.batchDepth == 0 {
		s.Schedule()
	}
}

func (s *Scheduler) enqueueDirtyAtom(a *Atom) {
	if a.queuedForFlush {
		return
	}
	a.queuedForFlush = true
	s.dirtyAtoms = append(s.dirtyAtoms, a)
}

// Schedule asks the scheduler to flush now, unless a batch is open or a
// flush is already in progress on this goroutine (a write from inside an
// effect body re-enters here; it just extends the current flush's work
// queue rather than recursing).
func (s *Scheduler) Schedule() {
	if s.batchDepth > 0 || s.flushing {
		return
	}
	s.flush()
}

type atomNotification struct {
	atom     *Atom
	old, new any
}

// flush drains the dirty-atom queue to quiescence. Each iteration commits a
// whole batch of staged writes under one epoch, so that an effect which
// writes to another atom during phase 2 starts a fresh, independent
// iteration rather than being folded into the epoch that's still being
// notified — each round sees a clean invalidation pass.
func (s *Scheduler) flush() {
	s.flushing = true
	s.asyncPending = nil
	s.asyncSeen = map[*Effect]bool{}
	defer func() {
		s.flushing = false
		s.drainAsync()
	}()

	iterations := 0
	for len(s.dirtyAtoms) > 0 {
		iterations++
		if iterations > s.maxIterations {
			s.runtime.Warn(nil, "flush exceeded the iteration safety cap; dropping remaining work to avoid an infinite loop")
			for _, a := range s.dirtyAtoms {
				a.queuedForFlush = false
			}
			s.dirtyAtoms = nil
			return
		}

		queue := s.dirtyAtoms
		s.dirtyAtoms = nil

		epoch := s.runtime.epoch.Next()

		var notifications []atomNotification
		var effectsToRun []*Effect
		effectSeen := map[*Effect]bool{}

		for _, a := range queue {
			a.queuedForFlush = false

			old, newValue, changed := a.commit()
			if !changed {
				continue
			}

			if a.hasSubscribers() {
				notifications = append(notifications, atomNotification{atom: a, old: old, new: newValue})
			}

			s.propagate(a.Node, epoch, &effectsToRun, effectSeen)
		}

		for _, n := range notifications {
			n.atom.notify(n.old, n.new)
		}

		// effect runs go through a callback-pool record (4.B) rather than
		// being invoked straight off effectsToRun, so the fixed-shape record
		// is reused across flush rounds; the closure it carries is still
		// allocated per run.
		for _, e := range effectsToRun {
			if !e.sync {
				if !s.asyncSeen[e] {
					s.asyncSeen[e] = true
					s.asyncPending = append(s.asyncPending, e)
				}
				continue
			}
			rec := s.runtime.callbackPool.Acquire()
			effect := e
			rec.Callback = func() { effect.run() }
			rec.Callback()
			s.runtime.callbackPool.Release(rec)
		}
	}
}

// drainAsync runs every effect deferred during this flush because it was
// created with sync=false, once, after every round of the flush itself has
// quiesced — see the asyncPending doc comment.
func (s *Scheduler) drainAsync() {
	pending := s.asyncPending
	s.asyncPending = nil
	for _, e := range pending {
		rec := s.runtime.callbackPool.Acquire()
		effect := e
		rec.Callback = func() { effect.run() }
		rec.Callback()
		s.runtime.callbackPool.Release(rec)
	}
}

// propagate BFS-walks every node transitively subscribed to root (the dep
// graph run in reverse), epoch-stamping each one so a diamond shape visits
// every node exactly once per flush round (4.I / spec.md 8 invariant on
// diamond dependencies). Computed nodes are marked Dirty (and recompute
// later, lazily, the next time something reads them); Effect nodes are
// collected, deduplicated, in discovery order, for phase 2.
func (s *Scheduler) propagate(root *Node, epoch uint32, effects *[]*Effect, effectSeen map[*Effect]bool) {
	queue := []*Node{root}
	for i := 0; i < len(queue); i++ {
		n := queue[i]
		n.ForEachSub(func(l *DependencyLink) bool {
			sub := l.sub
			if sub.disposed || sub.lastSeenEpoch == epoch {
				return true
			}
			sub.lastSeenEpoch = epoch

			switch sub.kind {
			case KindComputed:
				if c, ok := sub.owner.(*Computed); ok {
					c.Invalidate()
				}
			case KindEffect:
				if e, ok := sub.owner.(*Effect); ok && !effectSeen[e] {
					effectSeen[e] = true
					*effects = append(*effects, e)
				}
			}

			queue = append(queue, sub)
			return true
		})
	}
}

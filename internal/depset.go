package internal

// Component F: dependency manager and delta sync. EvalScope links each
// dependency into the graph the moment it's read — grounded on the
// teacher's Tracker.Track calling comp.Link immediately, not after the
// whole evaluation finishes, so that a self-referential write inside the
// same pass (an effect that writes an atom it just read) sees a live edge
// rather than one that doesn't exist yet. What's deferred to the end of
// the pass (finish, below) is only the removal of edges that existed
// before this run and were not re-touched — spec.md 4.F, steps 1-4.

// smallSetThreshold is the point past which EvalScope switches from a
// linear scan to a map for O(1) membership testing, per 4.F: "membership
// testing must be O(1) (hash-set or small-set linear scan under a
// threshold)".
const smallSetThreshold = 16

// DefaultMaxDependencies is the dev-mode warning threshold from 4.F:
// "if |D_new| > max_dependencies (default 1000), warn in dev; never
// throw." It is a package var, not a constant, so a host embedding many
// atoms per computed can raise it.
var DefaultMaxDependencies = 1000

// EvalScope is the per-evaluation tracking frame installed as Tracker's
// current scope. One is created per Computed/Effect re-evaluation.
type EvalScope struct {
	runtime *Runtime
	node    *Node
	parent  *EvalScope

	// existing holds node's committed dependency edges as of the start of
	// this pass (D_prev). track() deletes an entry the moment that
	// dependency is re-read this pass (it survives); whatever remains at
	// finish() was not re-read and gets unlinked.
	existing map[*Node]*DependencyLink

	// touched records every distinct dependency read this pass, in read
	// order, purely for indexOf's within-pass dedup and the dependency
	// count warning below — the graph edges themselves are already live by
	// the time a node lands here.
	touched []DepEntry
	seen    map[*Node]int // built lazily past smallSetThreshold

	// selfWrites records every atom written to while this scope was
	// current, for Effect's trackModifications option (4.H) to compare
	// against the final dependency set.
	selfWrites []*Node
}

func newEvalScope(r *Runtime, node *Node, parent *EvalScope) *EvalScope {
	existing := make(map[*Node]*DependencyLink, 8)
	node.ForEachDep(func(l *DependencyLink) bool {
		existing[l.dep] = l
		return true
	})

	return &EvalScope{
		runtime:  r,
		node:     node,
		parent:   parent,
		existing: existing,
		touched:  r.depSetPool.Acquire(),
	}
}

// track records a read of dep, deduplicating within this pass, and links
// it into the graph immediately if it wasn't already a dependency carried
// over from the previous run.
func (s *EvalScope) track(dep *Node) {
	if s.indexOf(dep) >= 0 {
		return
	}

	if l, ok := s.existing[dep]; ok {
		l.versionAtCapture = dep.version
		delete(s.existing, dep)
	} else {
		link(dep, s.node, dep.version)
	}

	s.touched = append(s.touched, DepEntry{Node: dep, Version: dep.version})

	if s.seen != nil {
		s.seen[dep] = len(s.touched) - 1
	} else if len(s.touched) > smallSetThreshold {
		s.seen = make(map[*Node]int, len(s.touched)*2)
		for i, e := range s.touched {
			s.seen[e.Node] = i
		}
	}
}

func (s *EvalScope) indexOf(dep *Node) int {
	if s.seen != nil {
		if i, ok := s.seen[dep]; ok {
			return i
		}
		return -1
	}
	for i, e := range s.touched {
		if e.Node == dep {
			return i
		}
	}
	return -1
}

// noChangeSinceLastRun reports whether every dependency currently linked to
// node still carries the version it had when last captured — the no-op
// short-circuit from 4.G step 2, and from 4.F's rationale for delta sync
// being worthwhile in the first place.
func noChangeSinceLastRun(node *Node) bool {
	upToDate := true
	node.ForEachDep(func(l *DependencyLink) bool {
		if l.dep.disposed || l.dep.version != l.versionAtCapture {
			upToDate = false
			return false
		}
		return true
	})
	return upToDate
}

// finish drops whatever committed edges were not re-touched this pass
// (D_prev \ D_new — the only diff work left, since D_new \ D_prev was
// already linked live by track), then releases the scratch buffer back to
// its pool. It returns node's recomputed height.
func (s *EvalScope) finish() int {
	for _, l := range s.existing {
		l.unlink()
	}
	s.existing = nil

	if len(s.touched) > DefaultMaxDependencies {
		s.runtime.warnf(s.node, "dependency count %d exceeds max_dependencies %d", len(s.touched), DefaultMaxDependencies)
	}

	height := s.node.MaxDepHeight()
	s.runtime.depSetPool.Release(s.touched)
	s.touched = nil

	return height
}

package internal

// Kind identifies what a Node is, for debug output and for IsComputed-style
// duck typing at the public layer.
type Kind int

const (
	KindAtom Kind = iota
	KindComputed
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindComputed:
		return "computed"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Node is the graph-shared state of every atom, computed and effect: an id
// (3, "Ids"), a version (3, "Version"), an epoch marker for O(1) pass
// membership (3, "Epoch"), and the two intrusive doubly-linked lists of
// DependencyLink that make up the dependency DAG — "dep" edges (nodes this
// one reads from) and "sub" edges (nodes that read from this one).
//
// This mirrors the teacher's ReactiveNode/DependencyLink shape, generalized
// to carry the version/epoch bookkeeping the spec requires.
type Node struct {
	id   uint64
	kind Kind

	version       uint64
	lastSeenEpoch uint32
	disposed      bool

	// height is this node's position in the dependency DAG, one more than
	// the max height of its dependencies. The scheduler does not order work
	// by it: propagate walks subscribers breadth-first and dedups by epoch,
	// and computeds recompute lazily when read.
	height int

	// subsHead is the head of the list of DependencyLink where this node is
	// the dependency (others point at it).
	subsHead *DependencyLink

	// depsHead is the head of the list of DependencyLink where this node is
	// the subscriber (it points at others). Atoms never populate this.
	depsHead *DependencyLink

	// subscribers holds raw host listeners registered via Atom.Subscribe /
	// Computed.Subscribe — distinct from the dep/sub graph edges above,
	// per spec.md 4.D (Subscriber manager) vs 4.F (Dependency manager).
	subscribers *SubscriberList

	name string // debug-only, see debug.go

	// owner is the Atom/Computed/Effect wrapping this node, set once by the
	// constructor in atom.go/computed.go/effect.go. The scheduler's
	// invalidation walk (scheduler.go) type-switches on kind and asserts
	// back to the concrete wrapper — Node itself stays free of any
	// upward dependency on those types.
	owner any
}

func newNode(r *Runtime, kind Kind) *Node {
	return &Node{
		id:          r.nextID(),
		kind:        kind,
		subscribers: NewSubscriberList(),
	}
}

func (n *Node) ID() uint64    { return n.id }
func (n *Node) Kind() Kind    { return n.kind }
func (n *Node) Version() uint64 { return n.version }
func (n *Node) Disposed() bool  { return n.disposed }

// DependencyLink is one edge of the dependency DAG: dep is the source being
// read, sub is the reader. versionAtCapture is the dep's version when sub
// last (re-)established this link, used by the no-op short-circuit in
// Computed.recompute (4.G) and by the delta-sync diff (4.F).
type DependencyLink struct {
	dep *Node
	sub *Node

	versionAtCapture uint64

	prevDep, nextDep *DependencyLink // sub's dep list
	prevSub, nextSub *DependencyLink // dep's sub list
}

// link creates a bidirectional edge dep <- sub, recording dep's current
// version and bumping sub's height above dep's.
func link(dep, sub *Node, version uint64) *DependencyLink {
	l := &DependencyLink{dep: dep, sub: sub, versionAtCapture: version}

	// append to sub's dep list
	if sub.depsHead == nil {
		sub.depsHead = l
		l.prevDep = l
	} else {
		tail := sub.depsHead.prevDep
		tail.nextDep = l
		l.prevDep = tail
		sub.depsHead.prevDep = l
	}

	// append to dep's sub list
	if dep.subsHead == nil {
		dep.subsHead = l
		l.prevSub = l
	} else {
		tail := dep.subsHead.prevSub
		tail.nextSub = l
		l.prevSub = tail
		dep.subsHead.prevSub = l
	}

	if dep.height >= sub.height {
		sub.height = dep.height + 1
	}

	return l
}

// unlinkDep removes l from sub's dep list only (ClearSubs calls it while
// tearing down dep's sub list wholesale; unlink calls it for one edge).
func (l *DependencyLink) unlinkDep(sub *Node) {
	if l.prevDep == l {
		sub.depsHead = nil
	} else {
		if sub.depsHead == l {
			sub.depsHead = l.nextDep
		} else {
			l.prevDep.nextDep = l.nextDep
		}
		if l.nextDep != nil {
			l.nextDep.prevDep = l.prevDep
		} else {
			sub.depsHead.prevDep = l.prevDep
		}
	}
	l.prevDep, l.nextDep = nil, nil
}

// unlinkSub removes l from dep's sub list only.
func (l *DependencyLink) unlinkSub(dep *Node) {
	if l.prevSub == l {
		dep.subsHead = nil
	} else {
		if dep.subsHead == l {
			dep.subsHead = l.nextSub
		} else {
			l.prevSub.nextSub = l.nextSub
		}
		if l.nextSub != nil {
			l.nextSub.prevSub = l.prevSub
		} else {
			dep.subsHead.prevSub = l.prevSub
		}
	}
	l.prevSub, l.nextSub = nil, nil
}

// unlink removes l from both lists it belongs to.
func (l *DependencyLink) unlink() {
	l.unlinkDep(l.sub)
	l.unlinkSub(l.dep)
}

// ForEachDep walks sub's current dependency edges.
func (n *Node) ForEachDep(yield func(*DependencyLink) bool) {
	for l := n.depsHead; l != nil; {
		next := l.nextDep
		if !yield(l) {
			return
		}
		l = next
	}
}

// ForEachSub walks dep's current subscriber edges.
func (n *Node) ForEachSub(yield func(*DependencyLink) bool) {
	for l := n.subsHead; l != nil; {
		next := l.nextSub
		if !yield(l) {
			return
		}
		l = next
	}
}

// ClearDeps tears down every outgoing edge of n (used on dispose).
func (n *Node) ClearDeps() {
	for l := n.depsHead; l != nil; {
		next := l.nextDep
		l.unlinkSub(l.dep)
		l = next
	}
	n.depsHead = nil
}

// ClearSubs severs every node that depends on n (used on dispose).
func (n *Node) ClearSubs() {
	for l := n.subsHead; l != nil; {
		next := l.nextSub
		l.unlinkDep(l.sub)
		l = next
	}
	n.subsHead = nil
}

// MaxDepHeight recomputes the height n would need, scanning its current
// dependency edges.
func (n *Node) MaxDepHeight() int {
	h := 0
	n.ForEachDep(func(l *DependencyLink) bool {
		if l.dep.height+1 > h {
			h = l.dep.height + 1
		}
		return true
	})
	return h
}

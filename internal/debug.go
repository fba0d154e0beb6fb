package internal

// Component J: circular-dependency detection and debug-info attachment.
//
// The live case — self is already being evaluated somewhere up the current
// call chain — is caught directly by Tracker.InStack before this file gets
// involved; it needs no graph walk. DetectCommittedCycle handles the
// residual dev-mode case from 4.G: "In dev, also check for indirect cycles
// by BFS over D_prev (capped by maxDependencies)" — a cycle that has
// accumulated in the *committed* dependency graph across separate
// evaluations (different conditional branches taken on different runs)
// without ever being caught live. Per spec.md 9 (Open Question #1,
// resolved): a node with no dependencies is simply a BFS dead end — "skip
// with no error" is exactly what an empty edge list does under BFS.
func DetectCommittedCycle(r *Runtime, self *Node) error {
	if !r.logger.Dev() {
		return nil
	}

	visited := map[*Node]bool{self: true}
	var queue []*Node

	self.ForEachDep(func(l *DependencyLink) bool {
		if !visited[l.dep] {
			visited[l.dep] = true
			queue = append(queue, l.dep)
		}
		return true
	})

	for i := 0; i < len(queue) && i < DefaultMaxDependencies; i++ {
		n := queue[i]

		found := false
		n.ForEachDep(func(l *DependencyLink) bool {
			if l.dep == self {
				found = true
				return false
			}
			if !visited[l.dep] {
				visited[l.dep] = true
				queue = append(queue, l.dep)
			}
			return true
		})

		if found {
			return &CircularDependencyError{Node: self}
		}
	}

	return nil
}

// CircularDependencyError is returned by DetectCommittedCycle; the public package
// wraps it into a ComputedError.
type CircularDependencyError struct {
	Node *Node
}

func (e *CircularDependencyError) Error() string {
	return "reactor: circular dependency detected"
}

// DebugInfo is attached to a node in dev builds for inspection — a no-op
// read in production (4.J: "attachDebugInfo(obj, type, id): in dev, stores
// readable name/type/id for inspection; no-op in production builds").
func AttachDebugInfo(r *Runtime, n *Node, name string) {
	if !r.logger.Dev() {
		return
	}
	n.name = name
}

// DebugName returns the name attached via AttachDebugInfo, or a generated
// fallback.
func DebugName(n *Node) string {
	if n.name != "" {
		return n.name
	}
	return n.kind.String()
}

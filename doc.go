// Package reactor is a fine-grained reactive computation runtime: atoms
// (writable cells), computed values (derived, cached, lazy by default) and
// effects (side-effecting subscribers with automatic dependency tracking
// and cleanup), kept consistent by a batching scheduler with glitch-free
// propagation across diamond dependencies.
//
// A write to an atom never recomputes anything inline. It stages the value
// and asks the scheduler to flush: first an invalidation pass marks
// dependent computeds dirty and collects effects to run, then a
// notification pass runs atom subscribers followed by effects, in
// insertion order. Reading a computed recomputes it lazily, at most once
// per flush, regardless of how many times it's read or how many paths lead
// to it from the atom that changed.
//
//	count := reactor.Atom(0)
//	doubled := reactor.Computed(func() int { return count.Get() * 2 })
//	reactor.Effect(func() func() {
//		fmt.Println("doubled:", doubled.Get())
//		return nil
//	})
//	count.Set(5) // prints "doubled: 10"
//
// Each goroutine gets its own runtime and dependency graph; atoms and
// computeds created on one goroutine should be read and written from that
// same goroutine. See internal/runtime_default.go for the per-goroutine
// registry.
package reactor

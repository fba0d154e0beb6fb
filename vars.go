package reactor

import "github.com/latticerun/reactor/internal"

// Process-wide tunables mirroring the teacher's magic numbers — spec.md's
// AMBIENT STACK addition. Each is a pointer into the internal package's own
// var, so assigning through it (`*reactor.DefaultMaxDependencies = 2000`)
// takes effect the next time a runtime reads it. These are not part of the
// core contract (spec.md 6) and may be ignored by hosts that don't care.
var (
	// DefaultMaxDependencies is spec.md 4.F's max_dependencies: the
	// dev-mode warning threshold on a single node's dependency count.
	DefaultMaxDependencies = &internal.DefaultMaxDependencies

	// DefaultMaxPoolSize bounds the notification/callback record pools
	// (spec.md 4.B).
	DefaultMaxPoolSize = &internal.DefaultMaxPoolSize

	// DefaultCleanupThreshold mirrors spec.md 4.H's CLEANUP_THRESHOLD; see
	// internal.DefaultCleanupThreshold's doc comment for why it is
	// currently inert.
	DefaultCleanupThreshold = &internal.DefaultCleanupThreshold
)

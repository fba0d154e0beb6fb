package internal

// epochMask keeps the counter inside a 31-bit range and wraps on overflow,
// per spec.md 4.A ("saturates to a small-integer range (31-bit) and wraps
// by masking").
const epochMask uint32 = 1<<31 - 1

// Epoch is a process-wide (per Runtime) counter bumped at the start of each
// propagation pass. Nodes stamp a last_seen_epoch so the invalidation walk
// can test pass-membership in O(1) without an extra set.
type Epoch struct {
	current uint32
}

// Next bumps and returns the epoch.
func (e *Epoch) Next() uint32 {
	e.current = (e.current + 1) & epochMask
	return e.current
}

// Current returns the epoch without bumping it.
func (e *Epoch) Current() uint32 {
	return e.current
}

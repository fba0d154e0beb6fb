package internal

// Component B: pools for the hot allocation paths — dependency-diff scratch
// sets and fixed-shape notification/callback records — per spec.md 4.B.

// PoolStats mirrors the "dev instrumentation" contract of 4.B:
// leaked = acquired - released - rejected.
type PoolStats struct {
	Acquired         uint64
	Released         uint64
	RejectedFrozen   uint64
	RejectedTooLarge uint64
	RejectedPoolFull uint64
}

// Leaked reports objects that were acquired but never released or rejected.
func (s PoolStats) Leaked() uint64 {
	return s.Acquired - s.Released - s.RejectedFrozen - s.RejectedTooLarge - s.RejectedPoolFull
}

// DepEntry is one slot of a dependency scratch set: the source node and the
// version observed on it at capture time (spec.md 3, "Dependency record").
type DepEntry struct {
	Node    *Node
	Version uint64
}

// emptyDepSet is the frozen empty sentinel of the 4.B rejection rules; the
// pool never hands it out. Releasing it back to the pool is rejected (it is
// never actually pool memory), as is releasing any other zero-capacity
// slice, which sameBacking cannot tell apart from it.
var emptyDepSet = make([]DepEntry, 0)

// DepSetPool hands out scratch []DepEntry buffers used while re-evaluating a
// computed or effect (internal/depset.go).
type DepSetPool struct {
	maxPoolSize         int
	maxReusableCapacity int
	free                [][]DepEntry
	Stats               PoolStats
}

func NewDepSetPool(maxPoolSize, maxReusableCapacity int) *DepSetPool {
	return &DepSetPool{
		maxPoolSize:         maxPoolSize,
		maxReusableCapacity: maxReusableCapacity,
	}
}

func (p *DepSetPool) Acquire() []DepEntry {
	p.Stats.Acquired++

	if n := len(p.free); n > 0 {
		buf := p.free[n-1]
		p.free = p.free[:n-1]
		return buf[:0]
	}

	return make([]DepEntry, 0, 8)
}

// Release returns buf to the pool, applying the 4.B rejection rules:
// frozen/sentinel buffers, over-capacity buffers, and a full pool are all
// discarded rather than retained.
func (p *DepSetPool) Release(buf []DepEntry) {
	if sameBacking(buf, emptyDepSet) {
		p.Stats.RejectedFrozen++
		return
	}

	if cap(buf) > p.maxReusableCapacity {
		p.Stats.RejectedTooLarge++
		return
	}

	if len(p.free) >= p.maxPoolSize {
		p.Stats.RejectedPoolFull++
		return
	}

	p.free = append(p.free, buf[:0])
	p.Stats.Released++
}

func sameBacking[T any](a, b []T) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return cap(a) == cap(b)
	}
	return &a[:1][0] == &b[:1][0]
}

// NotificationRecord is the fixed-shape record delivered to a raw listener:
// {listener, newValue, oldValue} per spec.md 4.B.
type NotificationRecord struct {
	Listener func(newValue, oldValue any)
	NewValue any
	OldValue any
}

// NotificationPool recycles NotificationRecord values across flush passes.
type NotificationPool struct {
	maxPoolSize int
	free        []*NotificationRecord
	Stats       PoolStats
}

func NewNotificationPool(maxPoolSize int) *NotificationPool {
	return &NotificationPool{maxPoolSize: maxPoolSize}
}

func (p *NotificationPool) Acquire() *NotificationRecord {
	p.Stats.Acquired++

	if n := len(p.free); n > 0 {
		rec := p.free[n-1]
		p.free = p.free[:n-1]
		return rec
	}

	return &NotificationRecord{}
}

func (p *NotificationPool) Release(rec *NotificationRecord) {
	if len(p.free) >= p.maxPoolSize {
		p.Stats.RejectedPoolFull++
		return
	}

	rec.Listener = nil
	rec.NewValue = nil
	rec.OldValue = nil
	p.free = append(p.free, rec)
	p.Stats.Released++
}

// CallbackRecord wraps a single scheduler callback (an effect run), per
// spec.md 4.B.
type CallbackRecord struct {
	Callback func()
}

// CallbackPool recycles CallbackRecord values.
type CallbackPool struct {
	maxPoolSize int
	free        []*CallbackRecord
	Stats       PoolStats
}

func NewCallbackPool(maxPoolSize int) *CallbackPool {
	return &CallbackPool{maxPoolSize: maxPoolSize}
}

func (p *CallbackPool) Acquire() *CallbackRecord {
	p.Stats.Acquired++

	if n := len(p.free); n > 0 {
		rec := p.free[n-1]
		p.free = p.free[:n-1]
		return rec
	}

	return &CallbackRecord{}
}

func (p *CallbackPool) Release(rec *CallbackRecord) {
	if len(p.free) >= p.maxPoolSize {
		p.Stats.RejectedPoolFull++
		return
	}

	rec.Callback = nil
	p.free = append(p.free, rec)
	p.Stats.Released++
}

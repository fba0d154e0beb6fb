package internal

import "sync/atomic"

// Runtime is the process-wide (per execution context — see
// runtime_default.go / runtime_wasm.go) singleton holding the engine's
// shared state: id allocation, the epoch counter, pools, the tracking
// context, and the scheduler. Grounded on the teacher's internal/runtime.go.
type Runtime struct {
	idSeq atomic.Uint64

	epoch   Epoch
	tracker *Tracker

	depSetPool       *DepSetPool
	notificationPool *NotificationPool
	callbackPool     *CallbackPool

	scheduler *Scheduler

	logger *Logger
}

// DefaultMaxPoolSize bounds the notification and callback pools (4.B:
// "Bounded: max_pool_size (default 50-1000 depending on pool)"). Read once
// per goroutine, at that goroutine's first GetRuntime() call.
var DefaultMaxPoolSize = 1000

// DefaultDepSetPoolSize and DefaultDepSetMaxCapacity size the dependency
// scratch-buffer pool specifically, since it holds larger, variably-sized
// slices rather than fixed-shape records.
var (
	DefaultDepSetPoolSize     = 200
	DefaultDepSetMaxCapacity  = 256
)

// DefaultCleanupThreshold mirrors spec.md 4.H's CLEANUP_THRESHOLD=100 (the
// cap on the effect rate limiter's sliding-window entry count). The actual
// loop-guard in effect.go delegates to catrate.Limiter, which manages its
// own ring buffer retention internally, so this value is not currently
// consulted by any component — it is kept as documented, settable surface
// for parity with spec.md 4.H and for a future limiter implementation that
// does need an explicit cap.
var DefaultCleanupThreshold = 100

// NewRuntime builds a runtime with the current default pool sizes.
func NewRuntime() *Runtime {
	r := &Runtime{
		tracker:          NewTracker(),
		depSetPool:       NewDepSetPool(DefaultDepSetPoolSize, DefaultDepSetMaxCapacity),
		notificationPool: NewNotificationPool(DefaultMaxPoolSize),
		callbackPool:     NewCallbackPool(DefaultMaxPoolSize),
		logger:           defaultLogger(),
	}
	r.scheduler = NewScheduler(r)
	return r
}

func (r *Runtime) nextID() uint64 {
	return r.idSeq.Add(1)
}

func (r *Runtime) Tracker() *Tracker   { return r.tracker }
func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }
func (r *Runtime) Epoch() *Epoch       { return &r.epoch }

// NewAtomNode allocates the Node embedded in a fresh atom.
func (r *Runtime) NewAtomNode() *Node { return newNode(r, KindAtom) }

// NewComputedNode allocates the Node embedded in a fresh computed.
func (r *Runtime) NewComputedNode() *Node { return newNode(r, KindComputed) }

// NewEffectNode allocates the Node embedded in a fresh effect.
func (r *Runtime) NewEffectNode() *Node { return newNode(r, KindEffect) }

//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// runtimes maps goroutine id -> *Runtime. Every goroutine that touches the
// reactive graph gets its own runtime, lazily created on first use — the
// concrete form of spec.md 5's "one instance per execution context"
// (grounded on the teacher's internal/runtime_default.go).
var runtimes sync.Map

// GetRuntime returns the runtime for the calling goroutine, creating one if
// needed.
func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}

func getGID() int64 {
	return goid.Get()
}

// ResetForTest discards the calling goroutine's runtime. Exposed only for
// tests, per spec.md 9: "torn down only in tests via an internal __reset()
// hook."
func ResetForTest() {
	runtimes.Delete(goid.Get())
}

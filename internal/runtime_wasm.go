//go:build wasm

package internal

import "sync"

// wasm builds have no goroutine ids worth keying on (wasm's js/wasm target
// is effectively single-threaded), so there is exactly one global runtime,
// lazily created — grounded on the teacher's internal/runtime_wasm.go.
var (
	runtimeOnce sync.Once
	globalRuntime *Runtime
)

func GetRuntime() *Runtime {
	runtimeOnce.Do(func() {
		globalRuntime = NewRuntime()
	})
	return globalRuntime
}

func getGID() int64 {
	return 0
}

// ResetForTest discards the process-wide runtime. Exposed only for tests.
func ResetForTest() {
	runtimeOnce = sync.Once{}
	globalRuntime = nil
}

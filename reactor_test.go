package reactor

import (
	"errors"
	"testing"
	"time"

	"github.com/latticerun/reactor/internal"
	"github.com/stretchr/testify/assert"
)

// resetRuntime tears down the calling goroutine's runtime so each test
// starts from a clean epoch, tracker, and scheduler, per spec.md 9's "torn
// down only in tests via an internal reset hook".
func resetRuntime() { internal.ResetForTest() }

func TestScenarioCounter(t *testing.T) {
	resetRuntime()
	// S1 — Counter.
	a := Atom(0)
	c := Computed(func() int { return a.Get() * 2 })

	assert.Equal(t, 0, c.Get())
	v0 := c.inner.Version()

	a.Set(5)
	assert.Equal(t, 10, c.Get())
	assert.Greater(t, c.inner.Version(), v0)
}

func TestScenarioDiamond(t *testing.T) {
	resetRuntime()
	// S2 — Diamond.
	calls := 0
	a := Atom(1)
	b := Computed(func() int { return a.Get() + 1 })
	d := Computed(func() int { return a.Get() * 10 })
	sum := Computed(func() int {
		calls++
		return b.Get() + d.Get()
	})

	assert.Equal(t, 12, sum.Get())
	assert.Equal(t, 1, calls)

	a.Set(2)
	assert.Equal(t, 23, sum.Get())
	assert.Equal(t, 2, calls)
}

func TestScenarioBatch(t *testing.T) {
	resetRuntime()
	// S3 — Batch.
	type record struct{ old, new string }
	x := Atom("a")
	var records []record
	x.Subscribe(func(newValue, oldValue string) {
		records = append(records, record{old: oldValue, new: newValue})
	})

	Batch(func() any {
		x.Set("b")
		x.Set("c")
		x.Set("d")
		return nil
	})

	assert.Equal(t, []record{{old: "a", new: "d"}}, records)
}

func TestScenarioCleanupOnRerun(t *testing.T) {
	resetRuntime()
	// S4 — Cleanup on re-run.
	n := Atom(0)
	var cleanups []int
	Effect(func() func() {
		v := n.Get()
		return func() { cleanups = append(cleanups, v) }
	}, WithSync(true))

	n.Set(1)
	n.Set(2)

	assert.Equal(t, []int{0, 1}, cleanups)
}

func TestScenarioLoopDetection(t *testing.T) {
	resetRuntime()
	// S5 — Loop detection.
	a := Atom(0)
	var loopErr error
	start := time.Now()
	e := Effect(func() func() {
		a.Set(a.Get() + 1)
		return nil
	}, WithSync(true), WithMaxExecutionsPerSecond(10), WithEffectOnError(func(err error) {
		loopErr = err
	}))

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, e.IsDisposed())
	var effErr *EffectError
	assert.ErrorAs(t, loopErr, &effErr)
	var loopCause *internal.EffectLoopError
	assert.ErrorAs(t, effErr, &loopCause)
}

func TestScenarioComputedErrorIsolation(t *testing.T) {
	resetRuntime()
	// S6 — Computed error isolation.
	a := Atom(0)
	c := Computed(func() int {
		if a.Get() == 0 {
			panic(errors.New("x"))
		}
		return a.Get()
	})

	assert.Panics(t, func() { c.Get() })
	assert.True(t, c.HasError())

	a.Set(1)
	assert.Equal(t, 1, c.Get())
	assert.False(t, c.HasError())
}

func TestInvariantUntrackedIsolation(t *testing.T) {
	resetRuntime()
	a := Atom(1)
	calls := 0
	c := Computed(func() int {
		calls++
		return Untracked(func() int { return a.Get() })
	})

	assert.Equal(t, 1, c.Get())
	a.Set(2)
	// c never tracked a (the read happened inside Untracked), so it is
	// not invalidated and does not recompute.
	assert.Equal(t, 1, c.Get())
	assert.Equal(t, 1, calls)
}

func TestInvariantEqualityShortCircuit(t *testing.T) {
	resetRuntime()
	a := Atom(5)
	calls := 0
	a.Subscribe(func(newValue, oldValue int) { calls++ })

	a.Set(5)
	assert.Equal(t, 0, calls)
}

func TestEagerComputedRecomputesWithoutBeingRead(t *testing.T) {
	resetRuntime()
	calls := 0
	a := Atom(1)
	c := Computed(func() int {
		calls++
		return a.Get() * 2
	}, WithLazy[int](false))

	assert.Equal(t, 1, calls) // construction forces the first run

	a.Set(2)
	assert.Equal(t, 2, calls) // recomputed on flush, even though nothing called Get
	assert.Equal(t, 4, c.Peek())
}

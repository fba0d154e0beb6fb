package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputed(t *testing.T) {
	t.Run("derives from atom and recomputes lazily", func(t *testing.T) {
		r := NewRuntime()
		var log []string

		a := r.NewAtom(1, nil)
		c := r.NewComputed(func() any {
			log = append(log, "running")
			return a.Read().(int) * 2
		}, nil, true, nil)

		assert.Equal(t, 2, c.Read())
		assert.Equal(t, 2, c.Read())
		assert.Equal(t, []string{"running"}, log) // second read hits the cache, no recompute

		assert.NoError(t, a.Write(2))
		assert.Equal(t, 4, c.Read())
		assert.Equal(t, []string{"running", "running"}, log)
	})

	t.Run("does not propagate when value unchanged", func(t *testing.T) {
		r := NewRuntime()
		var log []string

		a := r.NewAtom(1, nil)
		mid := r.NewComputed(func() any {
			log = append(log, "mid")
			return a.Read().(int) * 0 // always 0
		}, nil, true, nil)
		top := r.NewComputed(func() any {
			log = append(log, "top")
			return mid.Read().(int) + 1
		}, nil, true, nil)

		top.Read()
		assert.NoError(t, a.Write(10))
		top.Read()

		assert.Equal(t, []string{"top", "mid", "mid"}, log)
	})

	t.Run("diamond glitch-free: sum.fn runs once per write", func(t *testing.T) {
		r := NewRuntime()
		calls := 0

		a := r.NewAtom(1, nil)
		b := r.NewComputed(func() any { return a.Read().(int) + 1 }, nil, true, nil)
		d := r.NewComputed(func() any { return a.Read().(int) * 10 }, nil, true, nil)
		sum := r.NewComputed(func() any {
			calls++
			return b.Read().(int) + d.Read().(int)
		}, nil, true, nil)

		assert.Equal(t, 12, sum.Read())
		assert.Equal(t, 1, calls)

		assert.NoError(t, a.Write(2))
		assert.Equal(t, 23, sum.Read())
		assert.Equal(t, 2, calls)
	})

	t.Run("read rethrows on failure and reports HasError", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(0, nil)
		c := r.NewComputed(func() any {
			if a.Read().(int) == 0 {
				panic(fmt.Errorf("x"))
			}
			return a.Read().(int)
		}, nil, true, nil)

		assert.Panics(t, func() { c.Read() })
		assert.True(t, c.HasError())

		assert.NoError(t, a.Write(1))
		assert.Equal(t, 1, c.Read())
		assert.False(t, c.HasError())
	})

	t.Run("direct circular dependency fails on first read", func(t *testing.T) {
		r := NewRuntime()
		var c1, c2 *Computed
		c1 = r.NewComputed(func() any { return c2.Read() }, nil, true, nil)
		c2 = r.NewComputed(func() any { return c1.Read() }, nil, true, nil)

		assert.Panics(t, func() { c1.Read() })
		assert.True(t, c1.HasError())
		var circ *ComputedCircularError
		assert.ErrorAs(t, c1.LastError(), &circ)
	})

	t.Run("invalidate forces a recompute on next read", func(t *testing.T) {
		r := NewRuntime()
		calls := 0
		c := r.NewComputed(func() any {
			calls++
			return 1
		}, nil, true, nil)

		c.Read()
		c.Read()
		assert.Equal(t, 1, calls)

		c.Invalidate()
		c.Read()
		assert.Equal(t, 2, calls)
	})

	t.Run("eager computed recomputes on flush without being read", func(t *testing.T) {
		r := NewRuntime()
		calls := 0

		a := r.NewAtom(1, nil)
		c := r.NewComputed(func() any {
			calls++
			return a.Read().(int) * 2
		}, nil, false, nil) // lazy=false

		assert.Equal(t, 1, calls) // attachComputedWatcher forces the first run immediately

		assert.NoError(t, a.Write(2))
		assert.Equal(t, 2, calls) // recomputed on flush, with nobody calling Read
		assert.Equal(t, 4, c.Peek())
	})

	t.Run("eager computed still notifies subscribers and does not double-recompute", func(t *testing.T) {
		r := NewRuntime()
		calls := 0
		a := r.NewAtom(1, nil)
		c := r.NewComputed(func() any {
			calls++
			return a.Read().(int) * 2
		}, nil, false, nil)

		var notified []int
		c.Subscribe(func(newValue, oldValue any) {
			notified = append(notified, oldValue.(int), newValue.(int))
		})

		assert.NoError(t, a.Write(5))
		assert.Equal(t, []int{2, 10}, notified)
		assert.Equal(t, 2, calls) // one run at construction, one for the write
	})
}

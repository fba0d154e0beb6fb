package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtom(t *testing.T) {
	t.Run("read returns initial value", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(1, nil)
		assert.Equal(t, 1, a.Read())
	})

	t.Run("write stages then commits on flush", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(1, nil)

		var notified []int
		a.Subscribe(func(newValue, oldValue any) {
			notified = append(notified, newValue.(int), oldValue.(int))
		})

		assert.NoError(t, a.Write(2))
		assert.Equal(t, 2, a.Read())
		assert.Equal(t, []int{2, 1}, notified)
	})

	t.Run("equal write is a no-op", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(5, nil)

		calls := 0
		a.Subscribe(func(newValue, oldValue any) { calls++ })

		assert.NoError(t, a.Write(5))
		assert.Equal(t, 0, calls)
	})

	t.Run("custom equal suppresses notification", func(t *testing.T) {
		r := NewRuntime()
		type point struct{ x, y int }
		a := r.NewAtom(point{1, 1}, func(a, b any) bool {
			return a.(point).x == b.(point).x
		})

		calls := 0
		a.Subscribe(func(newValue, oldValue any) { calls++ })

		assert.NoError(t, a.Write(point{1, 99}))
		assert.Equal(t, 0, calls)
	})

	t.Run("write after dispose is rejected", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(1, nil)
		a.Dispose()

		err := a.Write(2)
		assert.ErrorIs(t, err, ErrAtomDisposed)
		assert.Equal(t, 1, a.Read())
	})

	t.Run("peek does not track a dependency", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(1, nil)
		c := r.NewComputed(func() any {
			return a.Peek()
		}, nil, true, nil)

		assert.Equal(t, 1, c.Read())
		assert.NoError(t, a.Write(2))
		// c never tracked a, so it's still not dirty and still reports 1.
		assert.False(t, c.IsDirty())
		assert.Equal(t, 1, c.Peek())
	})
}

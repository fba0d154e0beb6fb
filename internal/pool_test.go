package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepSetPool(t *testing.T) {
	t.Run("acquire reuses a released buffer", func(t *testing.T) {
		p := NewDepSetPool(4, 32)

		buf := p.Acquire()
		buf = append(buf, DepEntry{Version: 1})
		p.Release(buf)

		buf2 := p.Acquire()
		assert.Equal(t, 0, len(buf2))
		assert.Equal(t, uint64(2), p.Stats.Acquired)
		assert.Equal(t, uint64(1), p.Stats.Released)
	})

	t.Run("leaked accounts for acquired minus released and rejected", func(t *testing.T) {
		p := NewDepSetPool(4, 32)
		p.Acquire()
		p.Acquire()
		buf := p.Acquire()
		p.Release(buf)

		assert.Equal(t, uint64(3), p.Stats.Acquired)
		assert.Equal(t, uint64(2), p.Stats.Leaked())
	})

	t.Run("oversized buffer is rejected rather than pooled", func(t *testing.T) {
		p := NewDepSetPool(4, 2)
		big := make([]DepEntry, 0, 64)
		p.Release(big)
		assert.Equal(t, uint64(1), p.Stats.RejectedTooLarge)
		assert.Equal(t, uint64(0), p.Stats.Released)
	})

	t.Run("full pool rejects further releases", func(t *testing.T) {
		p := NewDepSetPool(1, 32)
		p.Release(make([]DepEntry, 0, 4))
		p.Release(make([]DepEntry, 0, 4))
		assert.Equal(t, uint64(1), p.Stats.Released)
		assert.Equal(t, uint64(1), p.Stats.RejectedPoolFull)
	})

	t.Run("the frozen empty sentinel is never pooled", func(t *testing.T) {
		p := NewDepSetPool(4, 32)
		p.Release(emptyDepSet)
		assert.Equal(t, uint64(1), p.Stats.RejectedFrozen)
		assert.Equal(t, uint64(0), p.Stats.Released)
	})
}

func TestNotificationPool(t *testing.T) {
	t.Run("release clears the record before reuse", func(t *testing.T) {
		p := NewNotificationPool(4)
		rec := p.Acquire()
		rec.Listener = func(a, b any) {}
		rec.NewValue = 1
		rec.OldValue = 2
		p.Release(rec)

		rec2 := p.Acquire()
		assert.Same(t, rec, rec2)
		assert.Nil(t, rec2.Listener)
		assert.Nil(t, rec2.NewValue)
		assert.Nil(t, rec2.OldValue)
	})
}

func TestCallbackPool(t *testing.T) {
	t.Run("release clears the callback before reuse", func(t *testing.T) {
		p := NewCallbackPool(4)
		rec := p.Acquire()
		rec.Callback = func() {}
		p.Release(rec)

		rec2 := p.Acquire()
		assert.Same(t, rec, rec2)
		assert.Nil(t, rec2.Callback)
	})
}

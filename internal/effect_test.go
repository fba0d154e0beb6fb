package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs immediately on creation and reruns with cleanup on change", func(t *testing.T) {
		r := NewRuntime()
		var log []string

		a := r.NewAtom(0, nil)
		e := r.NewEffect(func() func() {
			v := a.Read().(int)
			log = append(log, fmt.Sprintf("running %d", v))
			return func() { log = append(log, fmt.Sprintf("cleanup %d", v)) }
		}, EffectOptions{Sync: true})
		e.run()

		assert.NoError(t, a.Write(1))

		assert.Equal(t, []string{
			"running 0",
			"cleanup 0",
			"running 1",
		}, log)
	})

	t.Run("drops a dependency it stops reading", func(t *testing.T) {
		r := NewRuntime()
		runs := 0

		a := r.NewAtom(0, nil)
		read := true
		e := r.NewEffect(func() func() {
			runs++
			if read {
				a.Read()
			}
			return nil
		}, EffectOptions{Sync: true})
		e.run()

		read = false
		assert.NoError(t, a.Write(1))
		assert.Equal(t, 2, runs)

		assert.NoError(t, a.Write(2)) // e no longer depends on a
		assert.Equal(t, 2, runs)
	})

	t.Run("self-triggering effect is disposed by the rate limiter", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(0, nil)

		var loopErr error
		e := r.NewEffect(func() func() {
			a.Write(a.Read().(int) + 1)
			return nil
		}, EffectOptions{
			Sync:                   true,
			MaxExecutionsPerSecond: 10,
			OnError:                func(err error) { loopErr = err },
		})
		e.run()

		assert.True(t, e.IsDisposed())
		var target *EffectLoopError
		assert.ErrorAs(t, loopErr, &target)
	})

	t.Run("reentrant write during execution coalesces into one rerun", func(t *testing.T) {
		r := NewRuntime()
		a := r.NewAtom(0, nil)
		b := r.NewAtom(0, nil)
		runs := 0

		e := r.NewEffect(func() func() {
			runs++
			if a.Read().(int) == 0 {
				// nested write; must not recurse into a second concurrent
				// execution of this same effect.
				b.Write(1)
			}
			return nil
		}, EffectOptions{Sync: true})
		e.run()

		assert.NoError(t, a.Write(1))
		assert.True(t, runs >= 2)
	})
}

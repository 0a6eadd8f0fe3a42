package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResetSignal(t *testing.T) {
	t.Run("unset signal polls false", func(t *testing.T) {
		s := NewResetSignal(10 * time.Second)
		assert.False(t, s.PollAndConsume())
	})

	t.Run("set signal polls true exactly once", func(t *testing.T) {
		s := NewResetSignal(10 * time.Second)
		s.Set()

		assert.True(t, s.PollAndConsume())
		assert.False(t, s.PollAndConsume())
	})

	t.Run("stale signal is consumed silently", func(t *testing.T) {
		s := NewResetSignal(20 * time.Millisecond)
		s.Set()

		time.Sleep(40 * time.Millisecond)

		assert.False(t, s.PollAndConsume())
		assert.False(t, s.PollAndConsume())
	})

	t.Run("each claim re-arms the signal", func(t *testing.T) {
		s := NewResetSignal(10 * time.Second)

		s.Set()
		assert.True(t, s.PollAndConsume())

		s.Set()
		assert.True(t, s.PollAndConsume())
		assert.False(t, s.PollAndConsume())
	})
}

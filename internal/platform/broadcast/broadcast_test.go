package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcaster(t *testing.T) {
	t.Run("subscriber sees latest value on subscribe", func(t *testing.T) {
		b := New[int]()
		b.Publish(3)

		ch, cancel := b.Subscribe()
		defer cancel()

		assert.Equal(t, 3, <-ch)
	})

	t.Run("no value before first publish", func(t *testing.T) {
		b := New[int]()
		ch, cancel := b.Subscribe()
		defer cancel()

		select {
		case v := <-ch:
			t.Fatalf("unexpected value %d", v)
		default:
		}
	})

	t.Run("slow subscriber only keeps the newest value", func(t *testing.T) {
		b := New[string]()
		ch, cancel := b.Subscribe()
		defer cancel()

		b.Publish("a")
		b.Publish("b")
		b.Publish("c")

		assert.Equal(t, "c", <-ch)
	})

	t.Run("cancel closes the channel and drops the subscription", func(t *testing.T) {
		b := New[int]()
		ch, cancel := b.Subscribe()

		cancel()
		cancel()

		_, open := <-ch
		assert.False(t, open)
		assert.NotPanics(t, func() { b.Publish(1) }, "publishing after cancel must not reach the closed channel")
	})
}

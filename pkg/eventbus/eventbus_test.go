package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublish_DeliversSynchronouslyInOrder(t *testing.T) {
	b := New(nil)
	var order []int
	b.Subscribe("checkout", func(e Event) { order = append(order, 1) })
	b.Subscribe("checkout", func(e Event) { order = append(order, 2) })

	b.Publish(Event{Topic: "checkout"})
	assert.Equal(t, []int{1, 2}, order)
}

func TestPublish_SwallowsPanicAndContinues(t *testing.T) {
	b := New(nil)
	secondRan := false
	b.Subscribe("checkout", func(e Event) { panic("boom") })
	b.Subscribe("checkout", func(e Event) { secondRan = true })

	assert.NotPanics(t, func() { b.Publish(Event{Topic: "checkout"}) })
	assert.True(t, secondRan)
}

func TestUnsubscribe_RemovesAllHandlers(t *testing.T) {
	b := New(nil)
	called := false
	b.Subscribe("checkout", func(e Event) { called = true })
	b.Unsubscribe("checkout")
	b.Publish(Event{Topic: "checkout"})
	assert.False(t, called)
}

func TestGetSubscribers(t *testing.T) {
	b := New(nil)
	b.Subscribe("a", func(e Event) {})
	b.Subscribe("a", func(e Event) {})
	b.Subscribe("b", func(e Event) {})

	subs := b.GetSubscribers()
	assert.Equal(t, 2, subs["a"])
	assert.Equal(t, 1, subs["b"])
}

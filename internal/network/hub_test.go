package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	a := b.Register("a")
	c := b.Register("c")
	assert.Equal(t, 2, b.SubscriberCount())

	b.Broadcast(TickEvent{Tick: 50})
	assert.Equal(t, TickEvent{Tick: 50}, <-a)
	assert.Equal(t, TickEvent{Tick: 50}, <-c)

	b.Unregister("a")
	_, ok := <-a
	assert.False(t, ok, "channel must be closed after Unregister")
	assert.Equal(t, 1, b.SubscriberCount())

	// Повторная регистрация закрывает старый канал
	c2 := b.Register("c")
	_, ok = <-c
	assert.False(t, ok)
	b.Broadcast(TickEvent{Tick: 100})
	require.Len(t, c2, 1)
}

func TestBroadcaster_SlowSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")

	for i := 0; i < cap(ch)+10; i++ {
		b.Broadcast(TickEvent{Tick: i})
	}
	assert.Len(t, ch, cap(ch))
}

package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTargetUser(t *testing.T) {
	h := NewHub(2)

	aliceCh, aliceDone := h.Subscribe("alice")
	defer aliceDone()
	bobCh, bobDone := h.Subscribe("bob")
	defer bobDone()

	delivered := h.Publish("alice", Event{UserID: "alice", Event: "notification", Data: "hi"})
	assert.Equal(t, 1, delivered)

	got := <-aliceCh
	assert.Equal(t, "hi", got.Data)
	assert.Empty(t, bobCh)
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(1)
	_, done := h.Subscribe("alice")
	defer done()

	assert.Equal(t, 1, h.Publish("alice", Event{Event: "a"}))
	assert.Equal(t, 0, h.Publish("alice", Event{Event: "b"}))
}

func TestHub_CleanupAndClose(t *testing.T) {
	h := NewHub(1)

	ch, done := h.Subscribe("alice")
	require.Equal(t, 1, h.SubscriberCount("alice"))
	done()
	done()
	assert.Equal(t, 0, h.SubscriberCount("alice"))
	_, open := <-ch
	assert.False(t, open)

	ch2, done2 := h.Subscribe("bob")
	h.Close()
	_, open = <-ch2
	assert.False(t, open)
	done2()

	ch3, _ := h.Subscribe("carol")
	_, open = <-ch3
	assert.False(t, open)
}

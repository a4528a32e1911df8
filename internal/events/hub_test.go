package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_EmitReachesSubscribers(t *testing.T) {
	h := NewHub()
	a, b := h.Subscribe(), h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	h.Emit("req-1", TypeJobsImported, JobsImported{Added: 2})

	for _, ch := range []chan string{a, b} {
		var e Event
		require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
		assert.Equal(t, TypeJobsImported, e.Type)
		assert.Equal(t, 1, e.Version)
		assert.Equal(t, "req-1", e.RequestID)
		assert.JSONEq(t, `{"added":2,"updated":0,"rejected":0}`, string(e.Data))
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	for i := 0; i < 100; i++ {
		h.Publish("x")
	}
	assert.Len(t, ch, cap(ch))
}

func TestHub_UnsubscribeTwice(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())
	h.Unsubscribe(ch)
	h.Unsubscribe(ch)
	assert.Equal(t, 0, h.Subscribers())

	_, open := <-ch
	assert.False(t, open)
}

func TestMakeEvent_NoData(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(MakeEvent("", TypePing, 1, nil)), &e))
	assert.Equal(t, TypePing, e.Type)
	assert.Empty(t, e.Data)
}

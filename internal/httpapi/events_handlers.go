package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"remotejobs-engine/internal/events"
)

// keepAlive is short enough to outlive the usual 60s proxy idle timeouts.
const keepAlive = 25 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

// ServeSSE streams hub events (imports, cleanups) until the client leaves.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	reqID := RequestIDFrom(r.Context())
	send := func(msg string) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
		flusher.Flush()
	}
	send(events.MakeEvent(reqID, events.TypePing, 1, nil))

	tick := time.NewTicker(keepAlive)
	defer tick.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			// comment line; EventSource ignores it
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			send(msg)
		}
	}
}

package events

import "sync"

// Hub fans events out to SSE subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

var _ Publisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			// drop if slow
		}
	}
}

// Emit publishes a version-1 event envelope.
func (h *Hub) Emit(reqID, typ string, data any) {
	h.Publish(MakeEvent(reqID, typ, 1, data))
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

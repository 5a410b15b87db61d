package services

import (
	"encoding/json"
	"sync"
	"waitfaster_server/structs"

	"github.com/MonkyMars/gecho"
)

// Hub is the registry of live viewers connected to this instance.
// Broadcast never blocks: a viewer whose buffer is full misses the event.
type Hub struct {
	logger  *gecho.Logger
	buffer  int
	mu      sync.RWMutex
	next    uint64
	viewers map[uint64]chan structs.Event
}

func NewHub(logger *gecho.Logger, buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		logger:  logger,
		buffer:  buffer,
		viewers: make(map[uint64]chan structs.Event),
	}
}

// Subscribe registers a viewer. The returned func unregisters it and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan structs.Event, func()) {
	ch := make(chan structs.Event, h.buffer)

	h.mu.Lock()
	id := h.next
	h.next++
	h.viewers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			// Close may have dropped the viewer already
			if _, ok := h.viewers[id]; ok {
				delete(h.viewers, id)
				close(ch)
			}
		})
	}
}

// Broadcast offers ev to every viewer and returns how many accepted it.
func (h *Hub) Broadcast(ev structs.Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.viewers {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}

	if dropped := len(h.viewers) - delivered; dropped > 0 {
		h.logger.Debug("Dropped event for slow viewers",
			gecho.Field("event", ev.Name),
			gecho.Field("dropped", dropped),
		)
	}
	return delivered
}

// Dispatch decodes a wire-encoded event and broadcasts it.
func (h *Hub) Dispatch(data []byte) {
	var ev structs.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Warn("Discarding malformed notification", gecho.Field("error", err))
		return
	}
	h.Broadcast(ev)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Close disconnects every viewer. Their channels are closed so streams
// return instead of holding up shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.viewers {
		delete(h.viewers, id)
		close(ch)
	}
}

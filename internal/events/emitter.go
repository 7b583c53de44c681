package events

import (
	"context"
	"log"
	"sync"
)

// Emitter delivers progress events to interested collaborators. It is an
// explicitly constructed dependency, passed into the pipeline rather than
// reached through package state.
type Emitter interface {
	Emit(ctx context.Context, evt ProgressEvent)
}

// EmitterFunc adapts a plain function to the Emitter interface.
type EmitterFunc func(ctx context.Context, evt ProgressEvent)

func (f EmitterFunc) Emit(ctx context.Context, evt ProgressEvent) { f(ctx, evt) }

// NopEmitter discards all events.
func NopEmitter() Emitter {
	return EmitterFunc(func(context.Context, ProgressEvent) {})
}

// Hub is a fan-out Emitter. Subscribers receive events on buffered channels;
// a subscriber that falls behind has events dropped rather than stalling the
// pipeline. Fragment ordering within a subscriber's channel is preserved.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan ProgressEvent
	nextID int
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan ProgressEvent)}
}

// Subscribe registers a new subscriber and returns its channel together with
// an unsubscribe function. The channel is closed on unsubscribe or hub close.
func (h *Hub) Subscribe(buffer int) (<-chan ProgressEvent, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan ProgressEvent, buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Emit stamps the session key from ctx when missing, logs the event, and
// fans it out to all subscribers.
func (h *Hub) Emit(ctx context.Context, evt ProgressEvent) {
	if evt.SessionKey == "" {
		if session := SessionFromContext(ctx); session != "" {
			evt.SessionKey = session
		}
	}

	if evt.Stage == StageError {
		log.Printf("events: [%s] stage=%s cause=%s", evt.SessionKey, evt.Metadata["stage"], evt.Message)
	} else if evt.Stage != StageGenerationProgress {
		log.Printf("events: [%s] %s", evt.SessionKey, evt.Stage)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, sub := range h.subs {
		select {
		case sub <- evt:
		default:
		}
	}
}

// Close closes all subscriber channels. Emit becomes a no-op afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub)
	}
}

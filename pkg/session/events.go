package session

import (
	"context"
	"sync"
)

// EventKind names a session state transition.
type EventKind string

const (
	EventRestored       EventKind = "restored"
	EventLoggedIn       EventKind = "logged_in"
	EventRegistered     EventKind = "registered"
	EventLoggedOut      EventKind = "logged_out"
	EventExpired        EventKind = "expired"
	EventProfileUpdated EventKind = "profile_updated"
)

// Event is delivered to subscribers after a transition is applied.
type Event struct {
	Kind  EventKind
	State State
}

// hub fans events out to subscribers. Sends never block: a subscriber
// whose buffer is full misses the event.
type hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
	done   chan struct{}
}

func newHub(buffer int) *hub {
	return &hub{
		subs:   make(map[chan Event]struct{}),
		buffer: max(buffer, 1),
		done:   make(chan struct{}),
	}
}

func (h *hub) subscribe(ctx context.Context) <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				h.unsubscribe(ch)
			case <-h.done:
			}
		}()
	}

	return ch
}

func (h *hub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for ch := range h.subs {
		close(ch)
	}
	clear(h.subs)
}

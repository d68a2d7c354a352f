// Package events carries host signals (such as the "update" refresh request)
// from the dispatcher to whichever front-end is listening.
package events

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// DefaultHistory is how many signals a Hub keeps for Since when none is given.
const DefaultHistory = 32

// Signal is one emitted host signal. Payload is never nil.
type Signal struct {
	ID      int64
	Name    string
	At      time.Time
	Payload map[string]any
}

type subscriber struct {
	names []string // empty means every signal
	ch    chan Signal
}

func (s *subscriber) wants(name string) bool {
	return len(s.names) == 0 || slices.Contains(s.names, name)
}

// Hub fans signals out to subscribers and remembers the most recent ones so
// a caller can ask what was emitted while it was busy.
type Hub struct {
	mu      sync.Mutex
	lastID  int64
	keep    int
	history []Signal
	subs    map[*subscriber]struct{}
}

// NewHub returns a Hub remembering up to keep signals.
func NewHub(keep int) *Hub {
	if keep <= 0 {
		keep = DefaultHistory
	}
	return &Hub{
		keep: keep,
		subs: make(map[*subscriber]struct{}),
	}
}

// Publish records a signal named name and delivers it to matching
// subscribers. The payload is copied; nil becomes an empty map.
func (h *Hub) Publish(name string, payload map[string]any) Signal {
	p := maps.Clone(payload)
	if p == nil {
		p = map[string]any{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	sig := Signal{ID: h.lastID, Name: name, At: time.Now().UTC(), Payload: p}

	h.history = append(h.history, sig)
	if over := len(h.history) - h.keep; over > 0 {
		h.history = slices.Delete(h.history, 0, over)
	}

	for s := range h.subs {
		if !s.wants(name) {
			continue
		}
		// A full subscriber misses the signal rather than stalling the emitter.
		select {
		case s.ch <- sig:
		default:
		}
	}
	return sig
}

// Subscribe returns a channel receiving signals with one of names, or all
// signals when names is empty. cancel closes the channel.
func (h *Hub) Subscribe(names ...string) (<-chan Signal, func()) {
	s := &subscriber{names: slices.Clone(names), ch: make(chan Signal, 16)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[s]; ok {
			delete(h.subs, s)
			close(s.ch)
		}
	}
	return s.ch, cancel
}

// LastID returns the id of the most recently published signal, or 0.
func (h *Hub) LastID() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastID
}

// Since returns the remembered signals published after id, oldest first.
func (h *Hub) Since(id int64) []Signal {
	h.mu.Lock()
	defer h.mu.Unlock()

	i, _ := slices.BinarySearchFunc(h.history, id, func(s Signal, id int64) int {
		if s.ID <= id {
			return -1
		}
		return 1
	})
	return slices.Clone(h.history[i:])
}

// NamesSince returns the names of the signals Since(id) would return.
func (h *Hub) NamesSince(id int64) []string {
	var names []string
	for _, sig := range h.Since(id) {
		names = append(names, sig.Name)
	}
	return names
}

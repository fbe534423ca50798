package notify

import "sync"

// Entity identifies which part of the metadata store changed.
type Entity int

const (
	// EntityFiles covers file inserts, renames and deletes.
	EntityFiles Entity = iota
	// EntityTags covers tag creation plus link and unlink of file-tag
	// associations.
	EntityTags
)

// Change describes a single committed mutation. FileID is zero when the
// change is not scoped to a single file.
type Change struct {
	Entity Entity
	FileID uint
}

// Hub fans committed store mutations out to subscribers. Delivery is
// non-blocking with latest-wins coalescing, so a slow subscriber never
// stalls a writer; it simply observes fewer intermediate states.
type Hub struct {
	mutex sync.RWMutex
	next  uint64
	subs  map[uint64]chan Change
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint64]chan Change),
	}
}

// Subscribe registers a new subscriber and returns its event channel
// together with a cancel function. After cancel returns, no further
// events are delivered and the channel is closed.
func (h *Hub) Subscribe() (<-chan Change, func()) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	id := h.next
	h.next++

	events := make(chan Change, 1)
	h.subs[id] = events

	cancel := func() {
		h.mutex.Lock()
		defer h.mutex.Unlock()

		if ch, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}

	return events, cancel
}

// Publish delivers a change to all current subscribers. If a subscriber
// has not consumed the previous event yet, it is replaced by the new one.
func (h *Hub) Publish(change Change) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, events := range h.subs {
		select {
		case events <- change:
		default:
			select {
			case <-events:
			default:
			}
			select {
			case events <- change:
			default:
			}
		}
	}
}

package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/SubhanAlom009/realtime-kanban-backend/internal/domain/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrHubNotInitialized is returned when the hub is used before it has
	// been constructed and injected.
	ErrHubNotInitialized = errors.New("realtime hub not initialized")
)

// Hub is the process-wide broadcast point for board events. Every subscriber
// receives every published event; there is no buffering for disconnected
// clients, no acknowledgment and no cross-topic ordering guarantee. The hub
// is constructed once at startup and injected into everything that publishes.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]chan events.Event
	bufferSize  int
	sendTimeout time.Duration
}

// NewHub creates a hub whose subscriber channels hold bufferSize events.
func NewHub(bufferSize int) *Hub {
	return &Hub{
		subscribers: make(map[string]chan events.Event),
		bufferSize:  bufferSize,
		sendTimeout: 100 * time.Millisecond,
	}
}

// Subscribe registers a new observer and returns its event channel together
// with a cancel function that must be called on disconnect.
func (h *Hub) Subscribe() (<-chan events.Event, func(), error) {
	if h == nil || h.subscribers == nil {
		return nil, nil, ErrHubNotInitialized
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan events.Event, h.bufferSize)
	subscriberID := uuid.New().String()
	h.subscribers[subscriberID] = ch

	logrus.WithField("subscriber_id", subscriberID).Debug("Board subscriber connected")

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if _, exists := h.subscribers[subscriberID]; exists {
			delete(h.subscribers, subscriberID)
			close(ch)
			logrus.WithField("subscriber_id", subscriberID).Debug("Board subscriber disconnected")
		}
	}

	return ch, cancel, nil
}

// Publish fans an event out to all current subscribers. Sends are
// fire-and-forget: a subscriber whose channel stays full past the send
// timeout simply misses the event.
func (h *Hub) Publish(name string, payload interface{}) error {
	if h == nil || h.subscribers == nil {
		return ErrHubNotInitialized
	}

	event := events.New(name, payload)

	h.mu.Lock()
	subscribers := make([]chan events.Event, 0, len(h.subscribers))
	for _, ch := range h.subscribers {
		subscribers = append(subscribers, ch)
	}
	h.mu.Unlock()

	if len(subscribers) > 0 {
		logrus.WithFields(logrus.Fields{
			"event":       name,
			"subscribers": len(subscribers),
		}).Debug("Publishing board event")
	}

	for _, ch := range subscribers {
		// Goroutine per send so one blocked subscriber never stalls the rest
		go func(channel chan events.Event) {
			defer func() {
				// A subscriber may cancel (closing its channel) while a send
				// is in flight; dropping the event is the correct outcome.
				_ = recover()
			}()
			select {
			case channel <- event:
			case <-time.After(h.sendTimeout):
				logrus.WithField("event", name).Warn("Dropped board event for slow subscriber")
			}
		}(ch)
	}

	return nil
}

// SubscriberCount reports how many observers are currently connected.
func (h *Hub) SubscriberCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

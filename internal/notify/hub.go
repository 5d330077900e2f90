package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Hub is an in-process sink fanning events out to live subscribers, such as
// websocket connections. Slow subscribers lose events instead of stalling
// delivery to everyone else.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	logger *slog.Logger
}

// Subscription receives events for its topics on C until Close.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	topics []string
	hub    *Hub
	once   sync.Once
}

// NewHub creates a hub whose subscriptions buffer up to buffer events each.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers interest in topics.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, topics: topics, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		set, ok := h.subs[topic]
		if !ok {
			set = make(map[*Subscription]struct{})
			h.subs[topic] = set
		}
		set[sub] = struct{}{}
	}
	h.logger.Debug("hub subscription added", "topics", topics)
	return sub
}

// Close unregisters the subscription and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()
		for _, topic := range s.topics {
			if set, ok := h.subs[topic]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(h.subs, topic)
				}
			}
		}
		close(s.ch)
	})
}

// Publish implements Sink.
func (h *Hub) Publish(_ context.Context, topic string, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[topic] {
		select {
		case sub.ch <- ev:
		default:
			h.logger.Warn("subscriber buffer full, skipping", "topic", topic, "event_id", ev.ID)
		}
	}
	return nil
}

// Subscribers reports how many subscriptions listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

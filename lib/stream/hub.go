package stream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBufferSize is used by subscriptions created with a non-positive buffer size.
const DefaultBufferSize = 10

// Message is anything a hub can publish.
type Message interface {
	String() string
}

// Filter decides whether a subscription receives a message. A nil filter accepts everything.
type Filter func(msg Message) bool

// Hub fans published messages out to its subscriptions.
type Hub struct {
	logger *zap.Logger

	subs     map[string]*Subscription
	subsLock sync.Mutex
}

// NewHub creates a hub without subscriptions.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   map[string]*Subscription{},
	}
}

// Subscribe attaches a named subscription receiving the messages accepted by filter.
func (h *Hub) Subscribe(name string, filter Filter, bufferSize int) *Subscription {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}

	sub := &Subscription{
		id:      uuid.New().String(),
		name:    name,
		filter:  filter,
		channel: make(chan Message, bufferSize),
		hub:     h,
	}

	h.subsLock.Lock()
	h.subs[sub.id] = sub
	h.subsLock.Unlock()

	h.logger.Debug("added subscription",
		zap.String("subscription_id", sub.id),
		zap.String("name", name),
	)
	return sub
}

// Publish hands msg to every subscription whose filter accepts it and returns
// how many received it. A subscription with a full buffer misses the message.
func (h *Hub) Publish(msg Message) int {
	h.subsLock.Lock()
	defer h.subsLock.Unlock()

	delivered := 0
	for _, sub := range h.subs {
		if sub.filter != nil && !sub.filter(msg) {
			continue
		}

		select {
		case sub.channel <- msg:
			delivered++
		default:
			sub.dropped++
			h.logger.Warn("subscription full, dropping message",
				zap.String("name", sub.name),
				zap.String("message", msg.String()),
			)
		}
	}
	return delivered
}

// Len returns the number of attached subscriptions.
func (h *Hub) Len() int {
	h.subsLock.Lock()
	defer h.subsLock.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.subsLock.Lock()
	delete(h.subs, sub.id)
	h.subsLock.Unlock()
}

package bus

import "sync"

// Topic names. Each producer publishes under its own topic so subscribers
// never have to disambiguate payload shapes.
const (
	TopicPriceUpdate = "priceUpdate" // canonical trades from the ingestor
	TopicChartUpdate = "chartUpdate" // aggregated chart points
	TopicTradeUpdate = "tradeUpdate" // raw relay samples
)

// Handler receives every payload published on a subscribed topic.
type Handler func(payload any)

// Bus is an in-process publish/subscribe fan-out. Delivery is synchronous
// and in publish order; there is no buffering and no replay, so a handler
// only sees payloads published after it subscribed.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers a handler for a topic. Handlers cannot be removed;
// subscriptions live as long as the bus.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish delivers the payload to every handler registered for the topic,
// in subscription order, on the caller's goroutine.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	handlers := b.subs[topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

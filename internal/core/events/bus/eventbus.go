package bus

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// simpleEvent is the Event used by callers without their own event types.
type simpleEvent struct {
	id      string
	typeStr string
	source  string
	ts      time.Time
	data    any
	meta    map[string]any
}

func (e simpleEvent) ID() string               { return e.id }
func (e simpleEvent) Type() string             { return e.typeStr }
func (e simpleEvent) Source() string           { return e.source }
func (e simpleEvent) Timestamp() time.Time     { return e.ts }
func (e simpleEvent) Data() any                { return e.data }
func (e simpleEvent) Metadata() map[string]any { return e.meta }

// NewEvent creates an Event with a fresh ID.
func NewEvent(typ, src string, data any, metadata map[string]any) Event {
	return simpleEvent{
		id:      uuid.NewString(),
		typeStr: typ,
		source:  src,
		ts:      time.Now(),
		data:    data,
		meta:    metadata,
	}
}

type subscription struct {
	id        string
	topic     string
	eventType string
	handler   EventHandler
	active    bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) Topic() string     { return s.topic }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active }
func (s *subscription) Cancel() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// topicState is declared once CreateTopic has run for it. Subscribing to an unknown
// topic creates it undeclared.
type topicState struct {
	config   TopicConfig
	declared bool
}

type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: topic -> eventType -> subscriptions in registration order
	handlers  map[string]map[string][]*subscription
	topics    map[string]*topicState
	metrics   EventBusMetrics
	observers []EventBusObserver
}

// New creates an empty bus.
func New() EventBus {
	return &inMemoryBus{
		handlers: make(map[string]map[string][]*subscription),
		topics:   make(map[string]*topicState),
	}
}

func (b *inMemoryBus) PublishToTopic(topic string, event Event) error {
	return b.deliver(topic, event)
}

func (b *inMemoryBus) SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureTopicLocked(topic)

	s := &subscription{
		id:        uuid.NewString(),
		topic:     topic,
		eventType: eventType,
		handler:   handler,
		active:    true,
	}
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[topic][eventType]
		if i := slices.Index(subs, s); i >= 0 {
			b.handlers[topic][eventType] = slices.Delete(subs, i, i+1)
		}
		s.active = false
	}
	b.handlers[topic][eventType] = append(b.handlers[topic][eventType], s)
	return s, nil
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) CreateTopic(name string, config TopicConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureTopicLocked(name)
	if t := b.topics[name]; !t.declared {
		t.config, t.declared = config, true
	}
	return nil
}

func (b *inMemoryBus) AddObserver(obs EventBusObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !slices.Contains(b.observers, obs) {
		b.observers = append(b.observers, obs)
	}
}

func (b *inMemoryBus) RemoveObserver(obs EventBusObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := slices.Index(b.observers, obs); i >= 0 {
		b.observers = slices.Delete(b.observers, i, i+1)
	}
}

func (b *inMemoryBus) GetMetrics() EventBusMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) GetTopics() []TopicInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]TopicInfo, 0, len(b.topics))
	for name, t := range b.topics {
		info := TopicInfo{Name: name, Description: t.config.Description}
		for _, subs := range b.handlers[name] {
			if len(subs) > 0 {
				info.EventTypes++
				info.Subs += len(subs)
			}
		}
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b TopicInfo) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// ensureTopicLocked creates the maps for topic. b.mu must be held.
func (b *inMemoryBus) ensureTopicLocked(topic string) {
	if _, ok := b.topics[topic]; !ok {
		b.topics[topic] = &topicState{}
	}
	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[string][]*subscription)
	}
}

func (b *inMemoryBus) deliver(topic string, event Event) error {
	start := time.Now()
	etype := event.Type()

	b.mu.RLock()
	var subs []*subscription
	if inner := b.handlers[topic]; inner != nil {
		subs = append(subs, inner[etype]...)
		if etype != AnyType {
			subs = append(subs, inner[AnyType]...)
		}
	}
	observers := slices.Clone(b.observers)
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(topic, etype, event)
	}

	var all error
	for _, s := range subs {
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	if len(observers) == 0 {
		return all
	}

	dur := time.Since(start).Microseconds()
	for _, obs := range observers {
		obs.OnDelivered(topic, etype, len(subs), all, dur)
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(len(subs))
	if all != nil {
		b.metrics.Errors++
	}
	b.metrics.Topics = uint64(len(b.topics))
	var active uint64
	for _, et := range b.handlers {
		for _, m := range et {
			active += uint64(len(m))
		}
	}
	b.metrics.SubscribersActive = active
	b.mu.Unlock()

	return all
}

package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
//   - Handlers subscribe by Event.Type() within a topic.
//   - Subscribing to AnyType receives every event published to the topic.
//   - PublishToTopic delivers synchronously in the caller goroutine, in subscription order.
//   - Handler errors are joined and returned from PublishToTopic.
//   - Metrics are collected only while at least one observer is registered.
type EventBus interface {
	// CreateTopic declares a topic. Only the first declaration sets its config.
	CreateTopic(name string, config TopicConfig) error
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	PublishToTopic(topic string, event Event) error
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
	GetTopics() []TopicInfo
}

// AnyType subscribes to every event type of a topic.
const AnyType = "*"

// Event is an immutable message. Implementations should treat it as read-only.
type Event interface {
	ID() string
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a registered handler.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// TopicConfig describes topic-level settings.
type TopicConfig struct {
	// Description is informational only. It is reported by GetTopics.
	Description string
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64)
}

// EventBusMetrics is updated only while at least one observer is registered.
type EventBusMetrics struct {
	Published         uint64 `json:"published"`
	DeliveredHandlers uint64 `json:"delivered_handlers"`
	Errors            uint64 `json:"errors"`
	SubscribersActive uint64 `json:"subscribers_active"`
	Topics            uint64 `json:"topics"`
}

type TopicInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	EventTypes  int    `json:"event_types"`
	Subs        int    `json:"subs"`
}

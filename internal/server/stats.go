package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zeusync/duel/internal/core/events/bus"
	"github.com/zeusync/duel/internal/core/observability/log"
)

// Stats is served as JSON on /stats.
type Stats struct {
	Clients int                 `json:"clients"`
	Bus     bus.EventBusMetrics `json:"bus"`
	Topics  []bus.TopicInfo     `json:"topics"`
}

// Stats reports connected clients and event bus delivery counters.
func (s *Server) Stats() Stats {
	st := Stats{Clients: s.hub.len()}
	if s.bus != nil {
		st.Bus = s.bus.GetMetrics()
		st.Topics = s.bus.GetTopics()
	}
	return st
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Stats()); err != nil {
		s.logger.Warn("Failed to write stats", log.Error(err))
	}
}

// deliveryObserver logs engine event deliveries. Registering it also turns on
// the bus metrics reported by Stats.
type deliveryObserver struct {
	logger log.Log
}

func (o *deliveryObserver) OnPublish(string, string, bus.Event) {}

func (o *deliveryObserver) OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64) {
	fields := []log.Field{
		log.String("topic", topic),
		log.String("event", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", time.Duration(durationMicros)*time.Microsecond),
	}
	if err != nil {
		o.logger.Warn("Event delivery failed", append(fields, log.Error(err))...)
		return
	}
	o.logger.Debug("Event delivered", fields...)
}

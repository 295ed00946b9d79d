package telemetry

import (
	"context"
	"log"
)

// EventEnvelope wraps socket lifecycle events on the wire.
type EventEnvelope struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	Payload   any    `json:"payload"`
}

// SocketEvent describes one connection lifecycle moment.
type SocketEvent struct {
	ConnID     string `json:"conn_id"`
	UserID     int    `json:"user_id,omitempty"`
	DeviceID   string `json:"device_id,omitempty"`
	IP         string `json:"ip,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Reason     string `json:"reason,omitempty"`
}

// EventEmitter publishes ws_events envelopes.
type EventEmitter struct {
	publisher  Publisher
	routingKey string
}

// NewEventEmitter constructs an EventEmitter.
func NewEventEmitter(publisher Publisher, routingKey string) *EventEmitter {
	return &EventEmitter{publisher: publisher, routingKey: routingKey}
}

// Emit publishes one socket lifecycle event. Nil-safe like the audit emitter.
func (e *EventEmitter) Emit(ctx context.Context, eventName string, event SocketEvent) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		EventType: "ws_events",
		EventName: eventName,
		Payload:   event,
	}
	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		log.Printf("socket event publish failed: %v", err)
	}
}

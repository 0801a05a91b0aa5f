package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func newBaseEvent(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

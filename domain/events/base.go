package events

import (
	"time"
)

// SourceCatalog is the EventBridge source for events raised by this service
const SourceCatalog = "productcatalog"

// Event types
const (
	EventTypeProductCreated = "product.created"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// ProductCreated is raised once a product has been stored
type ProductCreated struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewProductCreated creates a ProductCreated event
func NewProductCreated(productID, name, description string, timestamp time.Time) ProductCreated {
	return ProductCreated{
		BaseEvent: BaseEvent{
			AggregateID: productID,
			EventType:   EventTypeProductCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		ProductID:   productID,
		Name:        name,
		Description: description,
	}
}

package entities

import (
	"encoding/json"

	"productcatalog/domain/core/valueobjects"
	"productcatalog/domain/events"
	pkgerrors "productcatalog/pkg/errors"
)

// Product is a catalog entry. The name is unique across the catalog; that
// rule is enforced by the store at write time, not here.
type Product struct {
	id          valueobjects.ProductID
	name        string
	description string

	// Domain events raised since the entity was created in this process
	events []events.DomainEvent
}

// NewProduct builds a Product from already-known values
func NewProduct(id valueobjects.ProductID, name, description string) (*Product, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("product id cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("product name cannot be empty")
	}

	return &Product{
		id:          id,
		name:        name,
		description: description,
	}, nil
}

// ID returns the product ID
func (p *Product) ID() valueobjects.ProductID { return p.id }

// Name returns the product name
func (p *Product) Name() string { return p.name }

// Description returns the product description
func (p *Product) Description() string { return p.description }

// Equals compares the persisted attributes of two products
func (p *Product) Equals(other *Product) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.id.Equals(other.id) && p.name == other.name && p.description == other.description
}

// RecordEvent appends a domain event to the uncommitted list
func (p *Product) RecordEvent(event events.DomainEvent) {
	p.events = append(p.events, event)
}

// GetUncommittedEvents returns events raised but not yet published
func (p *Product) GetUncommittedEvents() []events.DomainEvent {
	return p.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (p *Product) MarkEventsAsCommitted() {
	p.events = nil
}

// productJSON is the wire shape {id, name, description}
type productJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarshalJSON implements json.Marshaler
func (p *Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{
		ID:          p.id.String(),
		Name:        p.name,
		Description: p.description,
	})
}

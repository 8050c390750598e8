package ports

import (
	"context"
	"time"

	"productcatalog/domain/core/entities"
	"productcatalog/domain/core/valueobjects"
	"productcatalog/domain/events"
)

// NewProduct carries the caller-supplied fields of a product about to be created
type NewProduct struct {
	Name        string
	Description string
}

// ProductRepository defines the interface for product persistence.
// Implementations enforce name uniqueness at write time.
type ProductRepository interface {
	// CreateProduct assigns a fresh id and stores the product.
	// Returns *errors.DuplicateNameError when the name is already taken.
	CreateProduct(ctx context.Context, product NewProduct) (*entities.Product, error)

	// GetProductByID returns the product with the given id.
	// Returns *errors.ProductNotFoundError when no product matches.
	GetProductByID(ctx context.Context, id valueobjects.ProductID) (*entities.Product, error)
}

// EventPublisher publishes domain events to external subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events []events.DomainEvent) error
}

// Cache is a small key/value cache used for read paths
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// Package mocks provides testify mocks of the application ports.
package mocks

import (
	"context"
	"sync"
	"time"

	"productcatalog/application/ports"
	"productcatalog/domain/core/entities"
	"productcatalog/domain/core/valueobjects"
	"productcatalog/domain/events"
	"productcatalog/pkg/observability"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock of ports.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product ports.NewProduct) (*entities.Product, error) {
	args := m.Called(ctx, product)
	p, _ := args.Get(0).(*entities.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id valueobjects.ProductID) (*entities.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entities.Product)
	return p, args.Error(1)
}

// MockEventPublisher is a mock of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, evts []events.DomainEvent) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

// MockRecorder is a mock of observability.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Count(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockRecorder) RecordError(ctx context.Context, operation, errorType string) {
	m.Called(ctx, operation, errorType)
}

func (m *MockRecorder) RecordLatency(ctx context.Context, operation string, latency time.Duration) {
	m.Called(ctx, operation, latency)
}

// MapCache is a ports.Cache without expiry, for tests
type MapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

// NewMapCache creates an empty MapCache
func NewMapCache() *MapCache {
	return &MapCache{items: make(map[string]interface{})}
}

func (c *MapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *MapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *MapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Len returns the number of cached entries
func (c *MapCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

var (
	_ ports.ProductRepository = (*MockProductRepository)(nil)
	_ ports.EventPublisher    = (*MockEventPublisher)(nil)
	_ ports.Cache             = (*MapCache)(nil)

	_ observability.Recorder = (*MockRecorder)(nil)
)

package queries

import (
	"context"
	"fmt"

	"productcatalog/application/ports"
	"productcatalog/application/queries/bus"
	"productcatalog/domain/core/valueobjects"
	pkgerrors "productcatalog/pkg/errors"
)

// GetProductQuery represents a query to get a single product by id
type GetProductQuery struct {
	ProductID string
}

// Validate implements bus.Query
func (q GetProductQuery) Validate() error {
	if q.ProductID == "" {
		return pkgerrors.NewValidationError("product ID is required")
	}
	return nil
}

// CacheKey implements bus.Cacheable. Products never change once created.
func (q GetProductQuery) CacheKey() string {
	return q.ProductID
}

// GetProductHandler handles the GetProductQuery
type GetProductHandler struct {
	repo ports.ProductRepository
}

// NewGetProductHandler creates a new handler instance
func NewGetProductHandler(repo ports.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle implements bus.QueryHandler
func (h *GetProductHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(GetProductQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	id, err := valueobjects.ProductIDFromString(q.ProductID)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	return h.repo.GetProductByID(ctx, id)
}

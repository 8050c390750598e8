package commands

import (
	"context"
	"fmt"
	"time"

	"productcatalog/application/commands/bus"
	"productcatalog/application/ports"
	"productcatalog/domain/events"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/utils"

	"go.uber.org/zap"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name        string `json:"name" validate:"required,max=256"`
	Description string `json:"description" validate:"max=4096"`
}

// Validate implements bus.Command
func (c CreateProductCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// CreateProductHandler handles the CreateProductCommand
type CreateProductHandler struct {
	repo      ports.ProductRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewCreateProductHandler creates a new handler instance. publisher may be nil.
func NewCreateProductHandler(repo ports.ProductRepository, publisher ports.EventPublisher, logger *zap.Logger) *CreateProductHandler {
	return &CreateProductHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle stores the product and announces it.
// A failed announcement is logged and never fails the create: the product is already stored.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c, ok := cmd.(CreateProductCommand)
	if !ok {
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}

	product, err := h.repo.CreateProduct(ctx, ports.NewProduct{
		Name:        c.Name,
		Description: c.Description,
	})
	if err != nil {
		return nil, err
	}

	if h.publisher == nil {
		return product, nil
	}

	product.RecordEvent(events.NewProductCreated(
		product.ID().String(),
		product.Name(),
		product.Description(),
		time.Now().UTC(),
	))

	if err := h.publisher.Publish(ctx, product.GetUncommittedEvents()); err != nil {
		h.logger.Warn("Failed to publish product events",
			zap.String("productID", product.ID().String()),
			zap.Error(err),
		)
		return product, nil
	}
	product.MarkEventsAsCommitted()

	return product, nil
}

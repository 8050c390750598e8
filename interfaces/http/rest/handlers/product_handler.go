package handlers

import (
	"errors"
	"net/http"

	"productcatalog/application/commands"
	"productcatalog/application/commands/bus"
	"productcatalog/application/queries"
	querybus "productcatalog/application/queries/bus"
	"productcatalog/domain/core/entities"
	"productcatalog/pkg/common"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	opCreateProduct = "createProduct"
	opGetProduct    = "getProduct"

	maxBodyBytes = 64 << 10
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	metrics      observability.Recorder
	logger       *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	metrics observability.Recorder,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.Count(ctx, opCreateProduct+"ApiCall")
	h.logger.Info("Create product request received",
		zap.String("requestID", common.ExtractRequestID(r)),
	)

	var req CreateProductRequest
	if err := common.ParseJSONBody(w, r, &req, maxBodyBytes); err != nil {
		h.fail(w, r, opCreateProduct, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	result, err := h.commandBus.Send(ctx, commands.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, opCreateProduct, err)
		return
	}

	product, ok := result.(*entities.Product)
	if !ok {
		h.fail(w, r, opCreateProduct, errors.New("create product returned no product"))
		return
	}

	h.logger.Info("Product created",
		zap.String("productID", product.ID().String()),
		zap.String("name", product.Name()),
	)

	common.RespondJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.metrics.Count(ctx, opGetProduct+"ApiCall")

	productID := chi.URLParam(r, "id")
	h.logger.Info("Get product request received",
		zap.String("productID", productID),
		zap.String("requestID", common.ExtractRequestID(r)),
	)

	if productID == "" {
		h.fail(w, r, opGetProduct, pkgerrors.NewValidationError("product ID is required"))
		return
	}

	result, err := h.queryBus.Ask(ctx, queries.GetProductQuery{ProductID: productID})
	if err != nil {
		h.fail(w, r, opGetProduct, err)
		return
	}

	product, ok := result.(*entities.Product)
	if !ok {
		h.fail(w, r, opGetProduct, errors.New("get product returned no product"))
		return
	}

	h.logger.Info("Product retrieved",
		zap.String("productID", product.ID().String()),
	)

	common.RespondJSON(w, http.StatusOK, product)
}

// fail counts the failure and writes the error response, which also logs it
func (h *ProductHandler) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	h.metrics.Count(r.Context(), operation+"ApiCallFailure")
	h.metrics.RecordError(r.Context(), operation, pkgerrors.Classify(err))
	h.errorHandler.Handle(w, r, err)
}

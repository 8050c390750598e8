package rest

import (
	"context"
	"net/http"
	"time"

	"productcatalog/application/commands/bus"
	"productcatalog/application/ports"
	querybus "productcatalog/application/queries/bus"
	"productcatalog/interfaces/http/rest/handlers"
	"productcatalog/interfaces/http/rest/middleware"
	"productcatalog/pkg/common"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Router creates and configures the HTTP router
type Router struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	metrics      observability.Recorder
	prometheus   *observability.PrometheusRecorder
	checks       []ports.HealthChecker
	enableCORS   bool
	logger       *zap.Logger
}

// NewRouter creates a new router instance. prometheus may be nil, in which case /metrics is not served.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	metrics observability.Recorder,
	prometheus *observability.PrometheusRecorder,
	checks []ports.HealthChecker,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		metrics:      metrics,
		prometheus:   prometheus,
		checks:       checks,
		enableCORS:   enableCORS,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestIDHeader)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.prometheus != nil {
		router.Use(rt.prometheus.Middleware)
	}

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.prometheus != nil {
		router.Handle("/metrics", rt.prometheus.Handler())
	}

	router.Route("/products", func(r chi.Router) {
		productHandler := handlers.NewProductHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.metrics, rt.logger)
		r.Post("/", productHandler.CreateProduct)
		r.Get("/{id}", productHandler.GetProduct)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready only when every dependency check passes
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	failures := make(map[string]string)
	for _, check := range rt.checks {
		if err := check.Check(ctx); err != nil {
			rt.logger.Warn("Readiness check failed",
				zap.String("check", check.Name()),
				zap.Error(err),
			)
			failures[check.Name()] = err.Error()
		}
	}

	if len(failures) > 0 {
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "not ready",
			"failures": failures,
		})
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

package di

import (
	"productcatalog/interfaces/http/rest"
	"productcatalog/pkg/observability"

	"go.uber.org/zap"
)

// Container holds what the entry points use; everything else is reached through Router
type Container struct {
	Logger  *zap.Logger
	Metrics observability.Recorder
	Router  *rest.Router
}

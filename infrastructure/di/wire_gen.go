// Injector for wire.go. Kept in step with SuperSet by hand; `go generate` rewrites it with wire.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"context"

	"productcatalog/infrastructure/config"
)

// InitializeContainer creates a fully wired container. The returned cleanup releases
// the cache sweeper and any embedded database.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	awsConfig, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cloudwatchClient := ProvideCloudWatchClient(awsConfig)
	prometheusRecorder := ProvidePrometheusRecorder(cfg)
	recorder := ProvideMetrics(cfg, cloudwatchClient, prometheusRecorder, logger)
	client := ProvideDynamoDBClient(awsConfig, cfg)
	productStore, cleanup, err := ProvideProductStore(cfg, client, recorder, logger)
	if err != nil {
		return nil, nil, err
	}
	productRepository := ProvideProductRepository(productStore)
	eventbridgeClient := ProvideEventBridgeClient(awsConfig)
	eventPublisher := ProvideEventPublisher(eventbridgeClient, cfg, logger)
	tracer := ProvideTracer(cfg)
	commandBus, err := ProvideCommandBus(productRepository, eventPublisher, recorder, tracer, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cache, cleanup2 := ProvideInMemoryCache()
	queryBus, err := ProvideQueryBus(productRepository, cache, cfg, recorder, logger)
	if err != nil {
		cleanup2()
		cleanup()
		return nil, nil, err
	}
	errorHandler := ProvideErrorHandler(cfg, logger)
	v := ProvideHealthCheckers(productStore)
	router := ProvideRouter(commandBus, queryBus, errorHandler, recorder, prometheusRecorder, v, cfg, logger)
	container := &Container{
		Logger:  logger,
		Metrics: recorder,
		Router:  router,
	}
	return container, func() {
		cleanup2()
		cleanup()
	}, nil
}

package di

import (
	"context"
	"fmt"

	"productcatalog/application/commands"
	"productcatalog/application/commands/bus"
	"productcatalog/application/ports"
	"productcatalog/application/queries"
	querybus "productcatalog/application/queries/bus"
	"productcatalog/infrastructure/config"
	"productcatalog/infrastructure/messaging/eventbridge"
	"productcatalog/infrastructure/persistence/badger"
	"productcatalog/infrastructure/persistence/dynamodb"
	"productcatalog/interfaces/http/rest"
	pkgerrors "productcatalog/pkg/errors"
	"productcatalog/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
)

// ProductStore is a product repository that can also report its own health
type ProductStore interface {
	ports.ProductRepository
	ports.HealthChecker
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", cfg.ServiceName)), nil
}

// ProvideAWSConfig creates AWS configuration. SDK calls are traced when tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithRetryMaxAttempts(cfg.DynamoDBMaxAttempts),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DYNAMODB_ENDPOINT when set
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideProductStore creates the repository for the configured storage backend.
// The cleanup closes the embedded database when one was opened.
func ProvideProductStore(
	cfg *config.Config,
	client *awsdynamodb.Client,
	metrics observability.Recorder,
	logger *zap.Logger,
) (ProductStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageBadger:
		db, err := badger.Open(badger.Options{Path: cfg.BadgerPath, Logger: logger})
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close badger database", zap.Error(err))
			}
		}
		return badger.NewProductRepository(db, cfg.TableName, cfg.IndexName, nil, metrics, logger), cleanup, nil
	case config.StorageDynamoDB:
		return dynamodb.NewProductRepository(client, cfg.TableName, cfg.IndexName, nil, metrics, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// ProvideProductRepository exposes the store as a repository
func ProvideProductRepository(store ProductStore) ports.ProductRepository {
	return store
}

// ProvideHealthCheckers lists the dependencies checked by the readiness endpoint
func ProvideHealthCheckers(store ProductStore) []ports.HealthChecker {
	return []ports.HealthChecker{store}
}

// ProvideEventPublisher creates the EventBridge publisher, or nil when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvidePrometheusRecorder creates the Prometheus recorder when it is the selected backend
func ProvidePrometheusRecorder(cfg *config.Config) *observability.PrometheusRecorder {
	if cfg.MetricsBackend != config.MetricsPrometheus {
		return nil
	}
	return observability.NewPrometheusRecorder(metricName(cfg.MetricsNamespace))
}

// ProvideMetrics selects the metrics recorder for the configured backend
func ProvideMetrics(
	cfg *config.Config,
	client *awscloudwatch.Client,
	prometheus *observability.PrometheusRecorder,
	logger *zap.Logger,
) observability.Recorder {
	switch cfg.MetricsBackend {
	case config.MetricsCloudWatch:
		namespace := fmt.Sprintf("%s/%s", cfg.MetricsNamespace, cfg.Environment)
		return observability.NewCloudWatchRecorder(namespace, cfg.ServiceName, client, logger).
			WithDefaultDimension("aws_account_id", valueOrNotApplicable(cfg.AWSAccountID)).
			WithDefaultDimension("aws_region", valueOrNotApplicable(cfg.AWSRegion))
	case config.MetricsPrometheus:
		if prometheus != nil {
			return prometheus
		}
	}
	return observability.NopRecorder{}
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(cfg.ServiceName, cfg.EnableTracing)
}

// ProvideInMemoryCache creates the in-process cache used by the query bus
func ProvideInMemoryCache() (ports.Cache, func()) {
	cache := NewInMemoryCache()
	return cache, cache.Close
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repo ports.ProductRepository,
	publisher ports.EventPublisher,
	metrics observability.Recorder,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
		bus.TracingMiddleware(tracer),
	)

	if err := commandBus.Register(commands.CreateProductCommand{}, commands.NewCreateProductHandler(repo, publisher, logger)); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repo ports.ProductRepository,
	cache ports.Cache,
	cfg *config.Config,
	metrics observability.Recorder,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.NewMetricsMiddleware(metrics),
		querybus.NewCachingMiddleware(cache, cfg.CacheTTL, metrics, logger),
	)

	if err := queryBus.Register(queries.GetProductQuery{}, queries.NewGetProductHandler(repo)); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error handler. Causes are exposed outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	metrics observability.Recorder,
	prometheus *observability.PrometheusRecorder,
	checks []ports.HealthChecker,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, errorHandler, metrics, prometheus, checks, cfg.EnableCORS, logger)
}

// notApplicable fills metric dimensions whose value is unknown
const notApplicable = "N/A"

func valueOrNotApplicable(v string) string {
	if v == "" {
		return notApplicable
	}
	return v
}

// metricName turns a CloudWatch-style namespace into a valid Prometheus prefix
func metricName(namespace string) string {
	out := make([]rune, 0, len(namespace))
	for i, r := range namespace {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			out = append(out, r)
		case r >= '0' && r <= '9' && i > 0:
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

package main

import (
	"context"
	"log"
	"sync"
	"time"

	"productcatalog/infrastructure/config"
	"productcatalog/infrastructure/di"
	"productcatalog/pkg/common"
	"productcatalog/pkg/observability"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"go.uber.org/zap"
)

// Global variables for Lambda lifecycle management
var (
	// chiLambda wraps the Chi router for AWS Lambda integration
	chiLambda *chiadapter.ChiLambdaV2

	// container holds the dependency injection container
	container *di.Container

	// coldStart is cleared after the first invocation
	coldStart   = true
	coldStartMu sync.Mutex

	// coldStartTime records when the cold start began
	coldStartTime time.Time
)

// setup builds the container once per execution environment
func setup() {
	coldStartTime = time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The container lives as long as the execution environment, so cleanup is never run.
	container, _, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	chiLambda = chiadapter.NewV2(container.Router.Setup())

	container.Logger.Info("Lambda cold start completed",
		zap.String("function", cfg.LambdaFunctionName),
		zap.Duration("duration", time.Since(coldStartTime)),
	)
}

// takeColdStart reports whether this is the first invocation and clears the flag
func takeColdStart() bool {
	coldStartMu.Lock()
	defer coldStartMu.Unlock()
	cold := coldStart
	coldStart = false
	return cold
}

// requestContext carries the invocation's request id, start time and cold-start flag.
// A cold invocation is also counted.
func requestContext(ctx context.Context, requestID string, cold bool, metrics observability.Recorder) context.Context {
	ctx = common.WithColdStart(ctx, cold)
	if cold {
		metrics.Count(ctx, observability.MetricColdStart)
	}
	ctx = common.WithStartTime(ctx, time.Now())
	if requestID != "" {
		ctx = common.WithRequestID(ctx, requestID)
	}
	return ctx
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	cold := takeColdStart()

	ctx = requestContext(ctx, req.RequestContext.RequestID, cold, container.Metrics)

	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}

	if cold {
		resp.Headers["X-Cold-Start"] = "true"
		resp.Headers["X-Cold-Start-Duration"] = time.Since(coldStartTime).String()
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}

	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Lambda-Request-ID"] = req.RequestContext.RequestID
	}

	container.Logger.Info("Lambda response",
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("request_id", req.RequestContext.RequestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Bool("cold_start", cold),
		zap.Duration("elapsed", common.GetElapsedTime(ctx)),
	)

	if err != nil {
		container.Logger.Error("Lambda proxy failed", zap.Error(err))
	}

	return resp, err
}

// main is the entry point for the Lambda function
func main() {
	setup()
	lambda.Start(Handler)
}

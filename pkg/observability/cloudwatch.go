package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchRecorder sends each metric to CloudWatch as it is recorded
type CloudWatchRecorder struct {
	namespace string
	service   string
	defaults  []types.Dimension
	client    CloudWatchAPI
	logger    *zap.Logger
}

// NewCloudWatchRecorder creates a new CloudWatch metrics recorder
func NewCloudWatchRecorder(namespace, service string, client CloudWatchAPI, logger *zap.Logger) *CloudWatchRecorder {
	return &CloudWatchRecorder{
		namespace: namespace,
		service:   service,
		client:    client,
		logger:    logger,
	}
}

var _ Recorder = (*CloudWatchRecorder)(nil)

// WithDefaultDimension adds a dimension attached to every datum after Service
func (m *CloudWatchRecorder) WithDefaultDimension(name, value string) *CloudWatchRecorder {
	m.defaults = append(m.defaults, types.Dimension{Name: aws.String(name), Value: aws.String(value)})
	return m
}

// Count implements Recorder
func (m *CloudWatchRecorder) Count(ctx context.Context, name string) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: m.dimensions(),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
		Timestamp:  aws.Time(time.Now()),
	})
}

// RecordError implements Recorder
func (m *CloudWatchRecorder) RecordError(ctx context.Context, operation, errorType string) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("Errors"),
		Dimensions: append(m.dimensions(),
			types.Dimension{Name: aws.String("Operation"), Value: aws.String(operation)},
			types.Dimension{Name: aws.String("ErrorType"), Value: aws.String(errorType)},
		),
		Value:     aws.Float64(1),
		Unit:      types.StandardUnitCount,
		Timestamp: aws.Time(time.Now()),
	})
}

// RecordLatency implements Recorder
func (m *CloudWatchRecorder) RecordLatency(ctx context.Context, operation string, latency time.Duration) {
	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("OperationLatency"),
		Dimensions: append(m.dimensions(),
			types.Dimension{Name: aws.String("Operation"), Value: aws.String(operation)},
		),
		Value:     aws.Float64(float64(latency.Milliseconds())),
		Unit:      types.StandardUnitMilliseconds,
		Timestamp: aws.Time(time.Now()),
	})
}

func (m *CloudWatchRecorder) dimensions() []types.Dimension {
	dims := make([]types.Dimension, 0, len(m.defaults)+3)
	dims = append(dims, types.Dimension{Name: aws.String("Service"), Value: aws.String(m.service)})
	return append(dims, m.defaults...)
}

func (m *CloudWatchRecorder) put(ctx context.Context, datum types.MetricDatum) {
	if m.client == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to send metric",
			zap.String("metric", aws.ToString(datum.MetricName)),
			zap.Error(err),
		)
	}
}

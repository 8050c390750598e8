package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

type mockCloudWatch struct {
	mock.Mock
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cloudwatch.PutMetricDataOutput)
	return out, args.Error(1)
}

func TestCloudWatchRecorder_Count(t *testing.T) {
	client := &mockCloudWatch{}
	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		return aws.ToString(in.Namespace) == "ProductCatalog" &&
			len(in.MetricData) == 1 &&
			aws.ToString(in.MetricData[0].MetricName) == "createProductApiCall" &&
			aws.ToFloat64(in.MetricData[0].Value) == 1
	})).Return(&cloudwatch.PutMetricDataOutput{}, nil)

	rec := NewCloudWatchRecorder("ProductCatalog", "createProduct", client, zap.NewNop())
	rec.Count(context.Background(), "createProductApiCall")

	client.AssertExpectations(t)
}

func TestCloudWatchRecorder_ErrorDimensions(t *testing.T) {
	client := &mockCloudWatch{}
	var captured *cloudwatch.PutMetricDataInput
	client.On("PutMetricData", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*cloudwatch.PutMetricDataInput) }).
		Return(&cloudwatch.PutMetricDataOutput{}, nil)

	rec := NewCloudWatchRecorder("ProductCatalog", "catalog", client, zap.NewNop())
	rec.RecordError(context.Background(), "createProduct", "DuplicateName")

	require.NotNil(t, captured)
	dims := map[string]string{}
	for _, d := range captured.MetricData[0].Dimensions {
		dims[aws.ToString(d.Name)] = aws.ToString(d.Value)
	}
	assert.Equal(t, map[string]string{
		"Service":   "catalog",
		"Operation": "createProduct",
		"ErrorType": "DuplicateName",
	}, dims)
}

func TestCloudWatchRecorder_DefaultDimensions(t *testing.T) {
	client := &mockCloudWatch{}
	var inputs []*cloudwatch.PutMetricDataInput
	client.On("PutMetricData", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inputs = append(inputs, args.Get(1).(*cloudwatch.PutMetricDataInput)) }).
		Return(&cloudwatch.PutMetricDataOutput{}, nil)

	rec := NewCloudWatchRecorder("ProductCatalog", "catalog", client, zap.NewNop()).
		WithDefaultDimension("aws_account_id", "123456789012").
		WithDefaultDimension("aws_region", "eu-west-1")
	rec.Count(context.Background(), MetricColdStart)
	rec.RecordError(context.Background(), "getProduct", "StorageRead")

	require.Len(t, inputs, 2)
	for _, in := range inputs {
		dims := map[string]string{}
		for _, d := range in.MetricData[0].Dimensions {
			dims[aws.ToString(d.Name)] = aws.ToString(d.Value)
		}
		assert.Equal(t, "catalog", dims["Service"])
		assert.Equal(t, "123456789012", dims["aws_account_id"])
		assert.Equal(t, "eu-west-1", dims["aws_region"])
	}
	assert.Len(t, inputs[1].MetricData[0].Dimensions, 5)
}

func TestCloudWatchRecorder_FailureIsSwallowed(t *testing.T) {
	client := &mockCloudWatch{}
	client.On("PutMetricData", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	rec := NewCloudWatchRecorder("ns", "svc", client, zap.NewNop())
	assert.NotPanics(t, func() {
		rec.RecordLatency(context.Background(), "getProduct", 15*time.Millisecond)
	})
	client.AssertNumberOfCalls(t, "PutMetricData", 1)
}

func TestCloudWatchRecorder_NilClient(t *testing.T) {
	rec := NewCloudWatchRecorder("ns", "svc", nil, zap.NewNop())
	assert.NotPanics(t, func() { rec.Count(context.Background(), "x") })
}

func TestPrometheusRecorder(t *testing.T) {
	rec := NewPrometheusRecorder("catalog")
	ctx := context.Background()

	rec.Count(ctx, "createProductApiCall")
	rec.Count(ctx, "createProductApiCall")
	rec.RecordError(ctx, "createProduct", "DuplicateName")
	rec.RecordLatency(ctx, "createProduct", 10*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, rec.Counters.WithLabelValues("createProductApiCall")))
	assert.Equal(t, 1.0, counterValue(t, rec.Errors.WithLabelValues("createProduct", "DuplicateName")))
	families, err := rec.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() == "catalog_operation_duration_seconds" {
			found = true
			assert.Equal(t, uint64(1), mf.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found)
}

func TestPrometheusRecorder_MiddlewareAndHandler(t *testing.T) {
	rec := NewPrometheusRecorder("catalog")

	r := chi.NewRouter()
	r.Use(rec.Middleware)
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", rec.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/abc", nil))
	assert.Equal(t, 1.0, counterValue(t, rec.HTTPRequests.WithLabelValues("GET", "/products/{id}", "404")))

	out := httptest.NewRecorder()
	r.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, out.Code)
	assert.True(t, strings.Contains(out.Body.String(), "catalog_http_requests_total"))
}

func TestNopRecorder(t *testing.T) {
	var rec Recorder = NopRecorder{}
	assert.NotPanics(t, func() {
		rec.Count(context.Background(), "x")
		rec.RecordError(context.Background(), "op", "type")
		rec.RecordLatency(context.Background(), "op", time.Second)
	})
}

func TestTracer_Disabled(t *testing.T) {
	tracer := NewTracer("catalog", false)
	called := false

	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return errors.New("fail")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "fail")
	assert.False(t, tracer.Enabled())
}

func TestTracer_EnabledWithoutSegment(t *testing.T) {
	tracer := NewTracer("catalog", true)
	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

const lambdaTraceHeader = "Root=1-5759e988-bd862e3fe1be46a994272793;Parent=53995c3f42cd8ad8;Sampled=1"

func TestTracer_OpensSubsegmentUnderLambda(t *testing.T) {
	t.Setenv("LAMBDA_TASK_ROOT", "/var/task")
	ctx := context.WithValue(context.Background(), xray.LambdaTraceHeaderKey, lambdaTraceHeader)

	var seg *xray.Segment
	err := NewTracer("catalog", true).TraceFunction(ctx, "CreateProductCommand", func(ctx context.Context) error {
		seg = xray.GetSegment(ctx)
		return nil
	})

	require.NoError(t, err)
	require.NotNil(t, seg)
	assert.Equal(t, "CreateProductCommand", seg.Name)
}

func TestTracer_DisabledUnderLambda(t *testing.T) {
	t.Setenv("LAMBDA_TASK_ROOT", "/var/task")
	ctx := context.WithValue(context.Background(), xray.LambdaTraceHeaderKey, lambdaTraceHeader)

	var seg *xray.Segment
	err := NewTracer("catalog", false).TraceFunction(ctx, "CreateProductCommand", func(ctx context.Context) error {
		seg = xray.GetSegment(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.Nil(t, seg)
}

package observability

import (
	"context"
	"time"
)

// Counters emitted by the product stores and the Lambda entry point
const (
	MetricSaveProduct        = "saveProduct"
	MetricSaveProductFailure = "saveProductFailure"
	MetricGetProduct         = "getProduct"
	MetricGetProductFailure  = "getProductFailure"
	MetricColdStart          = "ColdStart"
)

// Recorder records application metrics. Implementations must be safe for concurrent use
// and must never fail the operation being measured.
type Recorder interface {
	// Count increments the named counter by one
	Count(ctx context.Context, name string)
	// RecordError counts one failure of operation, labelled with the error class
	RecordError(ctx context.Context, operation, errorType string)
	// RecordLatency records how long operation took
	RecordLatency(ctx context.Context, operation string, latency time.Duration)
}

// NopRecorder discards all metrics
type NopRecorder struct{}

func (NopRecorder) Count(context.Context, string)                        {}
func (NopRecorder) RecordError(context.Context, string, string)          {}
func (NopRecorder) RecordLatency(context.Context, string, time.Duration) {}

var _ Recorder = NopRecorder{}

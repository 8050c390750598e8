package main

import (
	"context"
	"testing"

	"productcatalog/application/ports/mocks"
	"productcatalog/pkg/common"
	"productcatalog/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTakeColdStart(t *testing.T) {
	coldStart = true

	assert.True(t, takeColdStart())
	assert.False(t, takeColdStart())
}

func TestRequestContext_ColdStart(t *testing.T) {
	metrics := new(mocks.MockRecorder)
	metrics.On("Count", mock.Anything, observability.MetricColdStart).Once()

	ctx := requestContext(context.Background(), "req-1", true, metrics)

	assert.True(t, common.IsColdStart(ctx))
	id, ok := common.GetRequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)
	metrics.AssertExpectations(t)
}

func TestRequestContext_WarmStart(t *testing.T) {
	metrics := new(mocks.MockRecorder)

	ctx := requestContext(context.Background(), "", false, metrics)

	assert.False(t, common.IsColdStart(ctx))
	_, ok := common.GetRequestID(ctx)
	assert.False(t, ok)
	metrics.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

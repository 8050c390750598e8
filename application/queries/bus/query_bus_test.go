package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"productcatalog/application/ports/mocks"
	"productcatalog/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type lookupQuery struct {
	key string
}

func (q lookupQuery) Validate() error {
	if q.key == "" {
		return errors.New("key is required")
	}
	return nil
}

func (q lookupQuery) CacheKey() string { return q.key }

type plainQuery struct{}

func (plainQuery) Validate() error { return nil }

func countingHandler(calls *int) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		*calls++
		return *calls, nil
	})
}

func TestQueryBus_Ask(t *testing.T) {
	calls := 0
	b := NewQueryBus()
	require.NoError(t, b.Register(lookupQuery{}, countingHandler(&calls)))

	result, err := b.Ask(context.Background(), lookupQuery{key: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, result)

	_, err = b.Ask(context.Background(), lookupQuery{})
	assert.ErrorContains(t, err, "key is required")

	_, err = b.Ask(context.Background(), plainQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	assert.Error(t, b.Register(lookupQuery{}, countingHandler(&calls)))
}

func TestCachingMiddleware(t *testing.T) {
	calls := 0
	cache := mocks.NewMapCache()
	b := NewQueryBus(NewCachingMiddleware(cache, time.Minute, observability.NopRecorder{}, zap.NewNop()))
	require.NoError(t, b.Register(lookupQuery{}, countingHandler(&calls)))

	first, err := b.Ask(context.Background(), lookupQuery{key: "a"})
	require.NoError(t, err)
	second, err := b.Ask(context.Background(), lookupQuery{key: "a"})
	require.NoError(t, err)
	_, err = b.Ask(context.Background(), lookupQuery{key: "b"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, calls)
}

func TestCachingMiddleware_DisabledWithZeroTTL(t *testing.T) {
	calls := 0
	b := NewQueryBus(NewCachingMiddleware(mocks.NewMapCache(), 0, observability.NopRecorder{}, zap.NewNop()))
	require.NoError(t, b.Register(lookupQuery{}, countingHandler(&calls)))

	for i := 0; i < 3; i++ {
		_, err := b.Ask(context.Background(), lookupQuery{key: "a"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestCachingMiddleware_SkipsNonCacheable(t *testing.T) {
	calls := 0
	b := NewQueryBus(NewCachingMiddleware(mocks.NewMapCache(), time.Minute, observability.NopRecorder{}, zap.NewNop()))
	require.NoError(t, b.Register(plainQuery{}, countingHandler(&calls)))

	_, _ = b.Ask(context.Background(), plainQuery{})
	_, _ = b.Ask(context.Background(), plainQuery{})
	assert.Equal(t, 2, calls)
}

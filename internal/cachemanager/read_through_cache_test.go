package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type wrappedInput struct {
	Id int
}

// fakeManager is a minimal CacheManager for driving the read-through path.
type fakeManager[V any] struct {
	values   map[string]V
	getCalls int
	setCalls int
	lastKey  string
}

func newFakeManager[V any]() *fakeManager[V] {
	return &fakeManager[V]{values: make(map[string]V)}
}

func (f *fakeManager[V]) Get(ctx context.Context, key string) (V, bool) {
	f.getCalls++
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeManager[V]) GetMultiple(ctx context.Context, keys []string) (map[string]V, bool) {
	out := make(map[string]V)
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, len(out) > 0
}

func (f *fakeManager[V]) GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool) {
	return f.Get(ctx, key)
}

func (f *fakeManager[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	f.setCalls++
	f.lastKey = key
	f.values[key] = value
}

func (f *fakeManager[V]) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeManager[V]) Flush(ctx context.Context) error {
	f.values = make(map[string]V)
	return nil
}

func TestReadThroughCache_Get_WithCacheDisabled(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{
				{
					ID: input.Id,
				},
			}, nil
		},
		true,
	)

	examples, err := readThroughCache.Get(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{
		{
			ID: 1,
		},
	}, examples)
	require.Zero(t, manager.getCalls, "disabled cache should never be consulted")
	require.Zero(t, manager.setCalls, "disabled cache should never be populated")
}

func TestReadThroughCache_GetWithRefresh_WithCacheDisabled(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{
				{
					ID: input.Id,
				},
			}, nil
		},
		true,
	)

	examples, err := readThroughCache.GetWithRefresh(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{
		{
			ID: 1,
		},
	}, examples)
	require.Zero(t, manager.setCalls)
}

func TestReadThroughCache_Get_WithValueInCache(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()
	manager.values["key"] = []*ExampleStruct{
		{
			ID:   1,
			Name: "Example",
		},
	}

	loaderCalled := false
	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			loaderCalled = true
			return []*ExampleStruct{
				{
					ID: input.Id,
				},
			}, nil
		},
		false,
	)

	examples, err := readThroughCache.Get(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{
		{
			ID:   1,
			Name: "Example",
		},
	}, examples)
	require.False(t, loaderCalled, "cache hit should not invoke the loader")
}

func TestReadThroughCache_Get_EmptyCache(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{
				{
					ID: input.Id,
				},
			}, nil
		},
		false,
	)

	examples, err := readThroughCache.Get(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{
		{
			ID: 1,
		},
	}, examples)
	require.Equal(t, 1, manager.setCalls, "miss should populate the cache")
	require.Equal(t, "key", manager.lastKey)
}

func TestReadThroughCache_Get_DatabaseError(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.Get(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.Error(t, err)
	require.Zero(t, manager.setCalls, "loader failure should not populate the cache")
}

func TestReadThroughCache_GetWithRefresh_WithValueInCache(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()
	manager.values["key"] = []*ExampleStruct{
		{
			ID:   1,
			Name: "Example",
		},
	}

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{
				{
					ID: input.Id,
				},
			}, nil
		},
		false,
	)

	examples, err := readThroughCache.GetWithRefresh(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{
		{
			ID:   1,
			Name: "Example",
		},
	}, examples)
}

func TestReadThroughCache_GetWithRefresh_EmptyCache(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return []*ExampleStruct{
				{
					ID: input.Id,
				},
			}, nil
		},
		false,
	)

	examples, err := readThroughCache.GetWithRefresh(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.NoError(t, err)
	require.Equal(t, []*ExampleStruct{
		{
			ID: 1,
		},
	}, examples)
	require.Equal(t, 1, manager.setCalls)
}

func TestReadThroughCache_GetWithRefresh_DatabaseError(t *testing.T) {
	manager := newFakeManager[[]*ExampleStruct]()

	readThroughCache := NewReadThroughCache[string, []*ExampleStruct, wrappedInput](
		manager,
		func(ctx context.Context, input wrappedInput) ([]*ExampleStruct, error) {
			return nil, errors.New("failed to get data")
		},
		false,
	)

	_, err := readThroughCache.GetWithRefresh(
		context.Background(),
		"key",
		wrappedInput{
			Id: 1,
		},
		time.Minute)
	require.Error(t, err)
}

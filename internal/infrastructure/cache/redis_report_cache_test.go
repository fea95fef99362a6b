package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestReportCache(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
	c := NewReportCache(client, 24*time.Hour)

	_, ok, err := c.Get(ctx, "report:1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "report:1", []byte("%PDF-1.3")))
	assert.Equal(t, 24*time.Hour, client.ttls["report:1"])

	data, ok, err := c.Get(ctx, "report:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.3"), data)

	client.err = errors.New("connection refused")
	_, _, err = c.Get(ctx, "report:1")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "report:1", []byte("x")))
}

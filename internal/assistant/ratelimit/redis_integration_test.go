//go:build integration

package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/portfolio-assistant/server/internal/assistant/model"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	t.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "should start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	if host == "" || host == "null" {
		host = "localhost"
	}
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestRedisWindow(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := NewRedisWindow(rdb, "session-1", model.RateLimitConfig{MaxRequests: 2, Window: time.Minute})
	w.now = func() time.Time { return now }

	assert.True(t, w.TryAcquire(ctx))
	assert.True(t, w.TryAcquire(ctx))
	assert.False(t, w.TryAcquire(ctx))

	now = now.Add(time.Minute + time.Millisecond)
	assert.True(t, w.TryAcquire(ctx))

	count, err := rdb.HGet(ctx, windowKey("session-1"), "count").Int()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	other := NewRedisWindow(rdb, "session-2", model.RateLimitConfig{MaxRequests: 2, Window: time.Minute})
	assert.True(t, other.TryAcquire(ctx))
}

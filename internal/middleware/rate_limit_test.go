package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisRateLimiterStoreKey(t *testing.T) {
	logger := zerolog.Nop()
	store := NewRedisRateLimiterStore(nil, "login", 5, time.Minute, &logger)
	store.now = func() time.Time { return time.Unix(120, 0) }

	assert.Equal(t, "storefront:ratelimit:login:10.0.0.1:2", store.key("10.0.0.1"))
}

func TestRedisRateLimiterStoreFailsOpen(t *testing.T) {
	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	allowed, err := NewRedisRateLimiterStore(client, "login", 1, time.Minute, &logger).Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiterStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	store := NewRedisRateLimiterStore(client, "login", 2, time.Minute, &logger)
	fixed := time.Now()
	store.now = func() time.Time { return fixed }

	for i, want := range []bool{true, true, false} {
		allowed, err := store.Allow("10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, want, allowed, "attempt %d", i+1)
	}

	allowed, err := store.Allow("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "other clients have their own window")

	store.now = func() time.Time { return fixed.Add(time.Minute) }
	allowed, err = store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "a new window resets the count")
}

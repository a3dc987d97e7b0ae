package redis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	rediscontainer "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	testRedisURL string
	redContainer testcontainers.Container
)

func TestMain(m *testing.M) {
	flag.Parse()

	// Skip container setup if running in short mode
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	redContainer, err = rediscontainer.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	endpoint, err := redContainer.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	defer func() {
		if err := redContainer.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate redis container: %v\n", err)
		}
	}()
	os.Exit(m.Run())
}

func setupTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, testRedisURL)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})
	return client
}

func TestKVStore_GetMissingKey(t *testing.T) {
	store := NewKVStore(setupTestClient(t))

	_, ok, err := store.Get(context.Background(), "user:missing:gender")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_SetGetRoundTrip(t *testing.T) {
	store := NewKVStore(setupTestClient(t))
	ctx := context.Background()

	payload := `[{"item":{"id":"gid://shopify/Product/1"},"decision":"liked"}]`
	require.NoError(t, store.Set(ctx, "user:abc:likedItems", payload))

	got, ok, err := store.Get(ctx, "user:abc:likedItems")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestKVStore_SetOverwrites(t *testing.T) {
	store := NewKVStore(setupTestClient(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:abc:gender", "male"))
	require.NoError(t, store.Set(ctx, "user:abc:gender", "female"))

	got, ok, err := store.Get(ctx, "user:abc:gender")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "female", got)
}

func TestKVStore_Remove(t *testing.T) {
	store := NewKVStore(setupTestClient(t))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:abc:hasProfile", "true"))
	require.NoError(t, store.Remove(ctx, "user:abc:hasProfile"))

	_, ok, err := store.Get(ctx, "user:abc:hasProfile")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, store.Remove(ctx, "user:abc:hasProfile"))
}

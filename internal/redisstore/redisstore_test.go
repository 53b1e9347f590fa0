package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandermate/wandermate/internal/redisstore"
)

func TestConnect(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := redisstore.Connect(context.Background(), redisstore.Config{
		Addr: srv.Addr(),
	})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := redisstore.Connect(context.Background(), redisstore.Config{
		Addr: "localhost:1", // nothing listens here
	})
	assert.Error(t, err)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := redisstore.ConfigFromEnv()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 0, cfg.DB)
}

package redis

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_WritesToSelectedDB(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, fmt.Sprintf("redis://%s/3", srv.Addr()), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Set(ctx, "ttg_opening_balance", "1000", 0).Err())

	got, err := srv.DB(3).Get("ttg_opening_balance")
	require.NoError(t, err)
	assert.Equal(t, "1000", got)
	assert.False(t, srv.Exists("ttg_opening_balance"), "db 0 must stay empty")
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestNewClient_GivesUpWhenServerIsDown(t *testing.T) {
	srv := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", srv.Addr())
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(ctx, url, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
	assert.Less(t, time.Since(start), ConnectTimeout, "context deadline should cut retries short")
}

func TestNewClient_LogsConnectionOnce(t *testing.T) {
	srv := miniredis.RunT(t)
	var buf bytes.Buffer

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s/2", srv.Addr()), zerolog.New(&buf))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "connected to redis"))
	assert.Contains(t, out, `"addr":"`+srv.Addr()+`"`)
	assert.Contains(t, out, `"db":2`)
}

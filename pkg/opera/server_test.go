package opera

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operamock/operamock/internal/storage"
	"github.com/operamock/operamock/pkg/config"
)

func ephemeralConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Port = 0
	cfg.DBFile = filepath.Join(dir, "db.json")
	cfg.ValidationOutput = filepath.Join(dir, "validation-output.json")
	cfg.WebhookFile = filepath.Join(dir, "webhook_received.json")
	return cfg
}

func TestListenServeShutdown(t *testing.T) {
	srv, err := New(ephemeralConfig(t), WithStore(storage.NewInMemoryBookingStore()))
	require.NoError(t, err)

	require.NoError(t, srv.Listen())

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err, "Serve must return nil after Shutdown")
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}

func TestListenTwiceFails(t *testing.T) {
	srv, err := New(ephemeralConfig(t), WithStore(storage.NewInMemoryBookingStore()))
	require.NoError(t, err)

	require.NoError(t, srv.Listen())
	assert.Error(t, srv.Listen())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

func TestPortConflictSurfacesFromListen(t *testing.T) {
	first, err := New(ephemeralConfig(t), WithStore(storage.NewInMemoryBookingStore()))
	require.NoError(t, err)
	require.NoError(t, first.Listen())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = first.Shutdown(ctx)
	}()

	// Second server on the exact port the first one grabbed.
	cfg := ephemeralConfig(t)
	_, portStr, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	cfg.Port = port

	second, err := New(cfg, WithStore(storage.NewInMemoryBookingStore()))
	require.NoError(t, err)
	assert.Error(t, second.Listen())
}

func TestUptimeBeforeListen(t *testing.T) {
	srv, err := New(ephemeralConfig(t), WithStore(storage.NewInMemoryBookingStore()))
	require.NoError(t, err)
	assert.Equal(t, int64(0), srv.Uptime())
}

func TestNewDefaultsToFileStore(t *testing.T) {
	cfg := ephemeralConfig(t)
	srv, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, srv)

	// The booking database file is created eagerly.
	assert.FileExists(t, cfg.DBFile)
}

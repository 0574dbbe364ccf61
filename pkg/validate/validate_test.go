package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operamock/operamock/internal/storage"
	"github.com/operamock/operamock/pkg/config"
	"github.com/operamock/operamock/pkg/logging"
	"github.com/operamock/operamock/pkg/opera"
	"github.com/operamock/operamock/pkg/recording"
)

func newMockOpera(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBFile = filepath.Join(dir, "db.json")
	cfg.ValidationOutput = filepath.Join(dir, "validation-output.json")
	cfg.WebhookFile = filepath.Join(dir, "webhook_received.json")

	srv, err := opera.New(cfg, opera.WithStore(storage.NewInMemoryBookingStore()))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRunFlowAgainstLiveServer(t *testing.T) {
	ts := newMockOpera(t)
	client := NewClient(ts.URL)

	recPath := filepath.Join(t.TempDir(), "validation-output.json")
	rec := recording.New(recPath)

	err := RunFlow(context.Background(), client, rec, logging.Nop())
	require.NoError(t, err)

	// availability, create, update, check-in, check-out, delete
	assert.Len(t, rec.Exchanges(), 6)

	// The flow cleans up after itself.
	remaining, err := client.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRunFlowUnreachableServer(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	err := RunFlow(context.Background(), client, nil, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "availability")
}

func TestClientHealth(t *testing.T) {
	ts := newMockOpera(t)
	client := NewClient(ts.URL)
	assert.NoError(t, client.Health(context.Background()))
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	ts := newMockOpera(t)
	client := NewClient(ts.URL)

	err := client.DeleteBooking(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Booking not found")
}

func TestCheckMapping(t *testing.T) {
	assert.NoError(t, CheckMapping())
}

func TestCheckServed(t *testing.T) {
	ts := newMockOpera(t)
	assert.NoError(t, CheckServed(context.Background(), ts.URL))
}

func TestCheckServedMissingRoutes(t *testing.T) {
	// A server that routes nothing: every probe hits the mux's plain-text 404.
	ts := httptest.NewServer(http.NewServeMux())
	defer ts.Close()

	err := CheckServed(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unserved mock endpoints")
	assert.Contains(t, err.Error(), "GET /availability")
}

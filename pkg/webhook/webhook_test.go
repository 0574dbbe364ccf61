package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operamock/operamock/pkg/booking"
	"github.com/operamock/operamock/pkg/logging"
)

func testBooking(t *testing.T) *booking.Booking {
	t.Helper()
	return booking.New(booking.Request{
		GuestName: "Bob",
		RoomType:  "single",
		CheckIn:   "2025-12-05",
		CheckOut:  "2025-12-07",
	}, time.Now())
}

func TestBookingCreatedWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webhook_received.json")
	em := NewEmitter(path, "", logging.Nop())

	b := testBooking(t)
	require.NoError(t, em.BookingCreated(context.Background(), b))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventBookingCreated, ev.Event)
	require.NotNil(t, ev.Booking)
	assert.Equal(t, b.ID, ev.Booking.ID)
}

func TestBookingCreatedDeliversHTTP(t *testing.T) {
	received := make(chan Event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		received <- ev
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "webhook_received.json")
	em := NewEmitter(path, srv.URL, logging.Nop())

	require.NoError(t, em.BookingCreated(context.Background(), testBooking(t)))

	select {
	case ev := <-received:
		assert.Equal(t, EventBookingCreated, ev.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestHTTPFailureDoesNotFailEmit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webhook_received.json")
	// Nothing listens on this port; delivery fails, emit must still succeed.
	em := NewEmitter(path, "http://127.0.0.1:1/hook", logging.Nop())

	require.NoError(t, em.BookingCreated(context.Background(), testBooking(t)))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

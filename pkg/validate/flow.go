package validate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/operamock/operamock/pkg/booking"
	"github.com/operamock/operamock/pkg/mapping"
	"github.com/operamock/operamock/pkg/recording"
)

// flowRequest is the booking the lifecycle flow creates and walks through
// every state.
var flowRequest = booking.Request{
	GuestName: "Bob",
	RoomType:  "single",
	CheckIn:   "2025-12-05",
	CheckOut:  "2025-12-07",
}

// RunFlow exercises the full booking lifecycle against a live server:
// availability, create, update, check-in, check-out, delete. Every exchange
// is appended to the recorder. The first failure aborts the flow.
func RunFlow(ctx context.Context, client *Client, rec *recording.Recorder, log *slog.Logger) error {
	rooms, err := client.Availability(ctx)
	if err != nil {
		return fmt.Errorf("availability: %w", err)
	}
	record(rec, log, "/availability", map[string]any{"rooms_available": rooms})

	created, err := client.CreateBooking(ctx, flowRequest)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	record(rec, log, map[string]any{"endpoint": "/bookings", "body": flowRequest}, created)
	log.Info("flow booking created", "id", created.ID)

	updated := flowRequest
	updated.RoomType = "suite"
	after, err := client.UpdateBooking(ctx, created.ID, updated)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if after.RoomType != "suite" {
		return fmt.Errorf("update booking: room_type is %q, want suite", after.RoomType)
	}
	record(rec, log, map[string]any{"endpoint": "/bookings/" + created.ID, "body": updated}, after)

	checkedIn, err := client.CheckIn(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("check in: %w", err)
	}
	record(rec, log, "/checkin/"+created.ID, checkedIn)

	checkedOut, err := client.CheckOut(ctx, created.ID)
	if err != nil {
		return fmt.Errorf("check out: %w", err)
	}
	record(rec, log, "/checkout/"+created.ID, checkedOut)

	if err := client.DeleteBooking(ctx, created.ID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	record(rec, log, "/bookings/"+created.ID, map[string]string{"status": "deleted"})

	return nil
}

// CheckMapping runs the static endpoint mapping invariants and flattens the
// violations into a single error.
func CheckMapping() error {
	errs := mapping.Check()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("endpoint mapping violations:\n  %s", strings.Join(msgs, "\n  "))
}

// CheckServed verifies that every mock endpoint in the mapping table is
// actually routed by the server at baseURL. Placeholders are substituted
// with a probe value; a routed endpoint always answers with JSON (even for
// domain 404s), while an unrouted path falls through to the mux's plain-text
// 404 page.
func CheckServed(ctx context.Context, baseURL string) error {
	httpClient := &http.Client{Timeout: 5 * time.Second}

	var errs []string
	for _, e := range mapping.Entries() {
		path := strings.ReplaceAll(e.MockPath, "{id}", "mapping-probe")

		req, err := http.NewRequestWithContext(ctx, e.MockMethod, strings.TrimRight(baseURL, "/")+path, nil)
		if err != nil {
			return err
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("probe %s %s: %w", e.MockMethod, path, err)
		}
		_ = resp.Body.Close()

		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
			errs = append(errs, fmt.Sprintf("%s %s is not served (status %d)", e.MockMethod, e.MockPath, resp.StatusCode))
		}
	}
	if len(errs) > 0 {
		return errors.New("unserved mock endpoints:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

// record appends an exchange, logging rather than failing on a capture error
// so a full disk never masks a flow result.
func record(rec *recording.Recorder, log *slog.Logger, request, response any) {
	if rec == nil {
		return
	}
	if err := rec.Append(request, response); err != nil {
		log.Warn("failed to record exchange", "error", err)
	}
}

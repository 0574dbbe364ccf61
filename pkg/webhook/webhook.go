// Package webhook emits booking events to interested consumers.
//
// The mock environment has no real webhook receiver, so the primary sink is
// a JSON file (webhook_received.json) that downstream tooling polls. An HTTP
// sink can be enabled on top of it for setups that do run a receiver.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/operamock/operamock/pkg/booking"
)

// Event names.
const (
	EventBookingCreated = "booking_created"
)

// Event is the payload delivered for a booking event.
type Event struct {
	Event   string           `json:"event"`
	Booking *booking.Booking `json:"booking"`
}

// Emitter writes booking events to a file and optionally POSTs them to a URL.
type Emitter struct {
	filePath string
	url      string
	client   *http.Client
	log      *slog.Logger
}

// NewEmitter creates an Emitter. filePath is required; url is optional and
// enables HTTP delivery when non-empty.
func NewEmitter(filePath, url string, log *slog.Logger) *Emitter {
	return &Emitter{
		filePath: filePath,
		url:      url,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log,
	}
}

// BookingCreated emits a booking_created event. The file write is the
// contract; HTTP delivery failures are logged and do not fail the emit.
func (e *Emitter) BookingCreated(ctx context.Context, b *booking.Booking) error {
	ev := Event{Event: EventBookingCreated, Booking: b}

	if err := e.writeFile(ev); err != nil {
		return err
	}
	if e.url != "" {
		if err := e.deliver(ctx, ev); err != nil {
			e.log.Warn("webhook delivery failed", "url", e.url, "error", err)
		}
	}
	return nil
}

func (e *Emitter) writeFile(ev Event) error {
	data, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	dir := filepath.Dir(e.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(e.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write webhook file: %w", err)
	}
	return nil
}

func (e *Emitter) deliver(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook receiver returned status %d", resp.StatusCode)
	}
	return nil
}

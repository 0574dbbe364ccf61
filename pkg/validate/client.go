// Package validate checks a running mock OPERA server against the endpoint
// mapping contract by exercising the full booking lifecycle over HTTP.
package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/operamock/operamock/pkg/booking"
)

// Client is a typed HTTP client for the mock OPERA API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the server base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls GET /health and returns an error unless the server reports ok.
func (c *Client) Health(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("server reported status %q", health.Status)
	}
	return nil
}

// Availability calls GET /availability.
func (c *Client) Availability(ctx context.Context) (map[string]int, error) {
	var payload struct {
		RoomsAvailable map[string]int `json:"rooms_available"`
	}
	if err := c.call(ctx, http.MethodGet, "/availability", nil, &payload); err != nil {
		return nil, err
	}
	return payload.RoomsAvailable, nil
}

// ListBookings calls GET /bookings.
func (c *Client) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	var list []booking.Booking
	if err := c.call(ctx, http.MethodGet, "/bookings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateBooking calls POST /bookings.
func (c *Client) CreateBooking(ctx context.Context, req booking.Request) (*booking.Booking, error) {
	var b booking.Booking
	if err := c.call(ctx, http.MethodPost, "/bookings", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking calls PUT /bookings/{id}.
func (c *Client) UpdateBooking(ctx context.Context, id string, req booking.Request) (*booking.Booking, error) {
	var b booking.Booking
	if err := c.call(ctx, http.MethodPut, "/bookings/"+id, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBooking calls DELETE /bookings/{id}.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, http.MethodDelete, "/bookings/"+id, nil, &status); err != nil {
		return err
	}
	if status.Status != "deleted" {
		return fmt.Errorf("unexpected delete status %q", status.Status)
	}
	return nil
}

// CheckIn calls POST /checkin/{id} and returns the booking after the
// transition.
func (c *Client) CheckIn(ctx context.Context, id string) (*booking.Booking, error) {
	return c.statusChange(ctx, "/checkin/"+id, booking.StatusCheckedIn)
}

// CheckOut calls POST /checkout/{id} and returns the booking after the
// transition.
func (c *Client) CheckOut(ctx context.Context, id string) (*booking.Booking, error) {
	return c.statusChange(ctx, "/checkout/"+id, booking.StatusCheckedOut)
}

func (c *Client) statusChange(ctx context.Context, path string, want booking.Status) (*booking.Booking, error) {
	var change struct {
		Status  string           `json:"status"`
		Booking *booking.Booking `json:"booking"`
	}
	if err := c.call(ctx, http.MethodPost, path, nil, &change); err != nil {
		return nil, err
	}
	if change.Status != string(want) || change.Booking == nil || change.Booking.Status != want {
		return nil, fmt.Errorf("expected status %s after %s, got %q", want, path, change.Status)
	}
	return change.Booking, nil
}

// call issues one request and decodes the JSON response into out. Error
// responses are surfaced with the server's error code and message.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (%s)", method, path, apiErr.Message, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
		}
	}
	return nil
}

// Package booking defines the reservation domain types for the mock OPERA API.
//
// The mock API calls the domain object a "booking"; the real OPERA API calls
// the same object a "reservation". The wire format uses the mock API's
// snake_case field names.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a booking.
type Status string

// Booking lifecycle states. A booking moves strictly
// booked -> checked_in -> checked_out; deletion is allowed from any state.
const (
	StatusBooked     Status = "booked"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// Transition errors.
var (
	ErrNotFound         = errors.New("booking not found")
	ErrAlreadyCheckedIn = errors.New("booking is already checked in")
	ErrNotCheckedIn     = errors.New("booking is not checked in")
)

// Booking is a stored reservation.
type Booking struct {
	ID        string    `json:"id" yaml:"id"`
	GuestName string    `json:"guest_name" yaml:"guest_name"`
	RoomType  string    `json:"room_type" yaml:"room_type"`
	CheckIn   string    `json:"check_in" yaml:"check_in"`
	CheckOut  string    `json:"check_out" yaml:"check_out"`
	Status    Status    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Request is the client-supplied portion of a booking, used for both
// creation and update.
type Request struct {
	GuestName string `json:"guest_name"`
	RoomType  string `json:"room_type"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

// Validate checks that all required fields are present and that the stay
// dates parse as ISO dates with check_in before check_out.
func (r *Request) Validate() error {
	if r.GuestName == "" {
		return errors.New("guest_name is required")
	}
	if r.RoomType == "" {
		return errors.New("room_type is required")
	}
	in, err := parseDate("check_in", r.CheckIn)
	if err != nil {
		return err
	}
	out, err := parseDate("check_out", r.CheckOut)
	if err != nil {
		return err
	}
	if !in.Before(out) {
		return fmt.Errorf("check_in %s must be before check_out %s", r.CheckIn, r.CheckOut)
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a YYYY-MM-DD date: %q", field, value)
	}
	return t, nil
}

// New creates a Booking from a validated request with a fresh ID and
// status booked.
func New(req Request, now time.Time) *Booking {
	return &Booking{
		ID:        uuid.NewString(),
		GuestName: req.GuestName,
		RoomType:  req.RoomType,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Status:    StatusBooked,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites the client-supplied fields from req. Status and ID are
// never touched by an update.
func (b *Booking) Apply(req Request, now time.Time) {
	b.GuestName = req.GuestName
	b.RoomType = req.RoomType
	b.CheckIn = req.CheckIn
	b.CheckOut = req.CheckOut
	b.UpdatedAt = now
}

// CheckInGuest moves the booking from booked to checked_in.
func (b *Booking) CheckInGuest(now time.Time) error {
	switch b.Status {
	case StatusBooked:
		b.Status = StatusCheckedIn
		b.UpdatedAt = now
		return nil
	case StatusCheckedIn:
		return ErrAlreadyCheckedIn
	default:
		return fmt.Errorf("cannot check in a booking in status %q", b.Status)
	}
}

// CheckOutGuest moves the booking from checked_in to checked_out.
func (b *Booking) CheckOutGuest(now time.Time) error {
	if b.Status != StatusCheckedIn {
		return ErrNotCheckedIn
	}
	b.Status = StatusCheckedOut
	b.UpdatedAt = now
	return nil
}

// Clone returns a deep copy so callers can hand out bookings without
// exposing store-internal pointers.
func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}

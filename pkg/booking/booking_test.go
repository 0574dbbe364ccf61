package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validReq = Request{
	GuestName: "Alice",
	RoomType:  "single",
	CheckIn:   "2025-12-01",
	CheckOut:  "2025-12-03",
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr string
	}{
		{"valid", func(r *Request) {}, ""},
		{"missing guest name", func(r *Request) { r.GuestName = "" }, "guest_name is required"},
		{"missing room type", func(r *Request) { r.RoomType = "" }, "room_type is required"},
		{"missing check_in", func(r *Request) { r.CheckIn = "" }, "check_in is required"},
		{"missing check_out", func(r *Request) { r.CheckOut = "" }, "check_out is required"},
		{"malformed date", func(r *Request) { r.CheckIn = "01/12/2025" }, "YYYY-MM-DD"},
		{"stay reversed", func(r *Request) { r.CheckIn = "2025-12-07" }, "must be before"},
		{"zero-night stay", func(r *Request) { r.CheckOut = r.CheckIn }, "must be before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReq
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNew(t *testing.T) {
	now := time.Now()
	b := New(validReq, now)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, "Alice", b.GuestName)
	assert.Equal(t, now, b.CreatedAt)

	// IDs must be unique per booking.
	b2 := New(validReq, now)
	assert.NotEqual(t, b.ID, b2.ID)
}

func TestApplyPreservesIDAndStatus(t *testing.T) {
	now := time.Now()
	b := New(validReq, now)
	require.NoError(t, b.CheckInGuest(now))

	updated := validReq
	updated.RoomType = "suite"
	b.Apply(updated, now.Add(time.Minute))

	assert.Equal(t, "suite", b.RoomType)
	assert.Equal(t, StatusCheckedIn, b.Status)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, now.Add(time.Minute), b.UpdatedAt)
}

func TestLifecycleTransitions(t *testing.T) {
	now := time.Now()
	b := New(validReq, now)

	// checkout before checkin is rejected
	assert.ErrorIs(t, b.CheckOutGuest(now), ErrNotCheckedIn)

	require.NoError(t, b.CheckInGuest(now))
	assert.Equal(t, StatusCheckedIn, b.Status)

	// double checkin is rejected
	assert.ErrorIs(t, b.CheckInGuest(now), ErrAlreadyCheckedIn)

	require.NoError(t, b.CheckOutGuest(now))
	assert.Equal(t, StatusCheckedOut, b.Status)

	// checked_out is terminal for both transitions
	assert.Error(t, b.CheckInGuest(now))
	assert.ErrorIs(t, b.CheckOutGuest(now), ErrNotCheckedIn)
}

func TestClone(t *testing.T) {
	b := New(validReq, time.Now())
	c := b.Clone()
	c.GuestName = "Mallory"
	assert.Equal(t, "Alice", b.GuestName)
}

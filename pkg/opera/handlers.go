package opera

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/operamock/operamock/pkg/booking"
	"github.com/operamock/operamock/pkg/httputil"
)

// roomsAvailable is the fixed inventory the mock reports. The real OPERA
// availability endpoint computes this; the mock keeps it constant so test
// runs are deterministic.
var roomsAvailable = map[string]int{
	"single": 5,
	"double": 3,
	"suite":  2,
}

// handleHealth handles GET /health, the readiness probe target.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"status": "ok",
		"uptime": s.Uptime(),
	})
}

// handleAvailability handles GET /availability.
func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{"rooms_available": roomsAvailable}
	s.capture(map[string]string{"endpoint": "/availability"}, response)
	httputil.WriteOK(w, response)
}

// handleListBookings handles GET /bookings.
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, s.store.List())
}

// handleCreateBooking handles POST /bookings.
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeBookingRequest(w, r)
	if !ok {
		return
	}

	b := booking.New(req, time.Now().UTC())
	if err := s.store.Set(b); err != nil {
		s.log.Error("failed to persist booking", "id", b.ID, "error", err)
		httputil.WriteInternalError(w, "storage_error", "Failed to persist booking")
		return
	}

	s.capture(map[string]any{"endpoint": "/bookings", "body": req}, b)
	if err := s.webhooks.BookingCreated(r.Context(), b); err != nil {
		// The booking is already stored; a webhook write failure is not
		// surfaced to the API client.
		s.log.Error("failed to emit booking event", "id", b.ID, "error", err)
	}

	s.log.Info("booking created", "id", b.ID, "guest", b.GuestName, "room_type", b.RoomType)
	httputil.WriteCreated(w, b)
}

// handleUpdateBooking handles PUT /bookings/{id}.
func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, ok := s.decodeBookingRequest(w, r)
	if !ok {
		return
	}

	b := s.store.Get(id)
	if b == nil {
		httputil.WriteNotFound(w, "not_found", "Booking not found")
		return
	}

	b.Apply(req, time.Now().UTC())
	if err := s.store.Set(b); err != nil {
		s.log.Error("failed to persist booking", "id", id, "error", err)
		httputil.WriteInternalError(w, "storage_error", "Failed to persist booking")
		return
	}

	s.capture(map[string]any{"endpoint": "/bookings/" + id, "body": req}, b)
	s.log.Info("booking updated", "id", id)
	httputil.WriteOK(w, b)
}

// handleDeleteBooking handles DELETE /bookings/{id}.
func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	removed := s.store.Get(id)
	if removed == nil || !s.store.Delete(id) {
		httputil.WriteNotFound(w, "not_found", "Booking not found")
		return
	}

	s.capture(map[string]string{"endpoint": "/bookings/" + id}, removed)
	s.log.Info("booking deleted", "id", id)
	httputil.WriteOK(w, map[string]string{"status": "deleted"})
}

// handleCheckIn handles POST /checkin/{id}.
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "/checkin/", string(booking.StatusCheckedIn),
		func(b *booking.Booking, now time.Time) error { return b.CheckInGuest(now) })
}

// handleCheckOut handles POST /checkout/{id}.
func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, "/checkout/", string(booking.StatusCheckedOut),
		func(b *booking.Booking, now time.Time) error { return b.CheckOutGuest(now) })
}

// transition applies a status transition to the booking named in the path.
// Unknown bookings get 404; rejected transitions get 409.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, prefix, status string, apply func(*booking.Booking, time.Time) error) {
	id := r.PathValue("id")

	b := s.store.Get(id)
	if b == nil {
		httputil.WriteNotFound(w, "not_found", "Booking not found")
		return
	}

	if err := apply(b, time.Now().UTC()); err != nil {
		httputil.WriteConflict(w, "invalid_transition", err.Error())
		return
	}
	if err := s.store.Set(b); err != nil {
		s.log.Error("failed to persist booking", "id", id, "error", err)
		httputil.WriteInternalError(w, "storage_error", "Failed to persist booking")
		return
	}

	response := map[string]any{"status": status, "booking": b}
	s.capture(map[string]string{"endpoint": prefix + id}, response)
	s.log.Info("booking status changed", "id", id, "status", status)
	httputil.WriteOK(w, response)
}

// decodeBookingRequest reads and validates a booking request body, writing
// the error response itself when the body is unusable.
func (s *Server) decodeBookingRequest(w http.ResponseWriter, r *http.Request) (booking.Request, bool) {
	var req booking.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "invalid_json", "Invalid JSON in request body")
		return booking.Request{}, false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteBadRequest(w, "invalid_booking", err.Error())
		return booking.Request{}, false
	}
	return req, true
}

// capture appends an exchange to the validation log. Capture failures are
// logged and never affect the API response.
func (s *Server) capture(request, response any) {
	if err := s.recorder.Append(request, response); err != nil {
		s.log.Warn("failed to record exchange", "error", err)
	}
}

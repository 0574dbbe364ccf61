// Route registration for the mock OPERA API.

package opera

import (
	"net/http"
)

// registerRoutes sets up all API routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health and documentation
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPISpec)
	mux.HandleFunc("GET /docs", s.handleDocs)

	// Availability
	mux.HandleFunc("GET /availability", s.handleAvailability)

	// Booking lifecycle
	mux.HandleFunc("GET /bookings", s.handleListBookings)
	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("PUT /bookings/{id}", s.handleUpdateBooking)
	mux.HandleFunc("DELETE /bookings/{id}", s.handleDeleteBooking)
	mux.HandleFunc("POST /checkin/{id}", s.handleCheckIn)
	mux.HandleFunc("POST /checkout/{id}", s.handleCheckOut)
}

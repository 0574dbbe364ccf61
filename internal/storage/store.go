// Package storage provides booking storage abstractions and implementations.
package storage

import (
	"github.com/operamock/operamock/pkg/booking"
)

// BookingStore defines the interface for storing and retrieving bookings.
type BookingStore interface {
	// Get retrieves a booking by ID. Returns nil if not found.
	Get(id string) *booking.Booking

	// Set stores or updates a booking.
	Set(b *booking.Booking) error

	// Delete removes a booking by ID. Returns true if deleted, false if not found.
	Delete(id string) bool

	// List returns all stored bookings in creation order.
	List() []*booking.Booking

	// Count returns the number of stored bookings.
	Count() int

	// Clear removes all stored bookings.
	Clear() error
}

package storage

import (
	"sort"
	"sync"

	"github.com/operamock/operamock/pkg/booking"
)

// InMemoryBookingStore is a thread-safe in-memory implementation of BookingStore.
type InMemoryBookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*booking.Booking
}

// NewInMemoryBookingStore creates a new InMemoryBookingStore.
func NewInMemoryBookingStore() *InMemoryBookingStore {
	return &InMemoryBookingStore{
		bookings: make(map[string]*booking.Booking),
	}
}

// Get retrieves a booking by ID. Returns nil if not found.
func (s *InMemoryBookingStore) Get(id string) *booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	return b.Clone()
}

// Set stores or updates a booking.
func (s *InMemoryBookingStore) Set(b *booking.Booking) error {
	if b == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b.Clone()
	return nil
}

// Delete removes a booking by ID. Returns true if deleted, false if not found.
func (s *InMemoryBookingStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[id]; exists {
		delete(s.bookings, id)
		return true
	}
	return false
}

// List returns all stored bookings sorted by creation time, oldest first.
func (s *InMemoryBookingStore) List() []*booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		result = append(result, b.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Count returns the number of stored bookings.
func (s *InMemoryBookingStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// Clear removes all stored bookings.
func (s *InMemoryBookingStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[string]*booking.Booking)
	return nil
}

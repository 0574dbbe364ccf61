package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/operamock/operamock/pkg/booking"
)

// FileBookingStore persists bookings to a JSON file, keeping a full in-memory
// copy for reads. Every mutation rewrites the file with an atomic rename, so
// readers of the file never observe a partial write. A missing file is treated
// as an empty store and created on first save.
type FileBookingStore struct {
	mu   sync.Mutex
	path string
	mem  *InMemoryBookingStore
}

// NewFileBookingStore opens (or initializes) the booking database at path.
func NewFileBookingStore(path string) (*FileBookingStore, error) {
	s := &FileBookingStore{
		path: path,
		mem:  NewInMemoryBookingStore(),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read booking database %s: %w", path, err)
	}

	var bookings []*booking.Booking
	if len(data) > 0 {
		if err := json.Unmarshal(data, &bookings); err != nil {
			return nil, fmt.Errorf("corrupt booking database %s: %w", path, err)
		}
	}
	for _, b := range bookings {
		if err := s.mem.Set(b); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *FileBookingStore) Path() string {
	return s.path
}

// Get retrieves a booking by ID. Returns nil if not found.
func (s *FileBookingStore) Get(id string) *booking.Booking {
	return s.mem.Get(id)
}

// Set stores or updates a booking and persists the change.
func (s *FileBookingStore) Set(b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Set(b); err != nil {
		return err
	}
	return s.save()
}

// Delete removes a booking by ID and persists the change.
// Returns true if deleted, false if not found.
func (s *FileBookingStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mem.Delete(id) {
		return false
	}
	// The in-memory delete already happened; a failed save leaves the file
	// one mutation behind, which the next successful save repairs.
	_ = s.save()
	return true
}

// List returns all stored bookings in creation order.
func (s *FileBookingStore) List() []*booking.Booking {
	return s.mem.List()
}

// Count returns the number of stored bookings.
func (s *FileBookingStore) Count() int {
	return s.mem.Count()
}

// Clear removes all stored bookings and persists the change.
func (s *FileBookingStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mem.Clear(); err != nil {
		return err
	}
	return s.save()
}

// save writes the current booking list to disk using atomic rename.
// Callers must hold s.mu.
func (s *FileBookingStore) save() error {
	data, err := json.MarshalIndent(s.mem.List(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bookings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Package recording captures request/response exchanges to a JSON log file.
//
// The mock server and the flow validator both append every interesting
// exchange to validation-output.json so a reviewer can diff observed traffic
// against the endpoint mapping contract.
package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Exchange is one captured request/response pair.
type Exchange struct {
	Request  any `json:"request"`
	Response any `json:"response"`
}

// Recorder appends exchanges to a JSON file. Safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	path      string
	exchanges []Exchange
}

// New creates a Recorder backed by the file at path. An existing file is
// loaded so new exchanges append to previous runs, matching the behavior
// external tooling expects from validation-output.json. A corrupt or missing
// file starts a fresh log.
func New(path string) *Recorder {
	r := &Recorder{path: path}

	data, err := os.ReadFile(path)
	if err == nil {
		// Best effort: unreadable history is discarded, not fatal.
		_ = json.Unmarshal(data, &r.exchanges)
	}
	return r
}

// Path returns the location of the backing file.
func (r *Recorder) Path() string {
	return r.path
}

// Append records one exchange and flushes the log to disk.
func (r *Recorder) Append(request, response any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exchanges = append(r.exchanges, Exchange{Request: request, Response: response})
	return r.save()
}

// Exchanges returns a copy of the captured exchanges.
func (r *Recorder) Exchanges() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Exchange, len(r.exchanges))
	copy(out, r.exchanges)
	return out
}

// Reset drops all captured exchanges and truncates the file.
func (r *Recorder) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exchanges = nil
	return r.save()
}

// save writes the exchange list to disk using atomic rename.
// Callers must hold r.mu.
func (r *Recorder) save() error {
	list := r.exchanges
	if list == nil {
		list = []Exchange{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal validation log: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

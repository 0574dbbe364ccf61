// Package mapping declares the correspondence between mock API endpoints and
// the real OPERA API endpoints they stand in for.
//
// The table is static reference data: authored once, never mutated at
// runtime. It is consumed by the validate command, by the docs output, and by
// tests pinning the contract.
package mapping

import (
	"fmt"
	"strings"
)

// Entry pairs one mock endpoint with its real OPERA counterpart.
type Entry struct {
	// MockMethod is the HTTP verb of the mock endpoint (GET, POST, PUT, DELETE).
	MockMethod string `json:"mockMethod" yaml:"mockMethod"`
	// MockPath is the mock endpoint path, possibly with a {placeholder}.
	MockPath string `json:"mockPath" yaml:"mockPath"`
	// RealMethod is the HTTP verb of the real OPERA endpoint.
	RealMethod string `json:"realMethod" yaml:"realMethod"`
	// RealPath is the real OPERA endpoint path.
	RealPath string `json:"realPath" yaml:"realPath"`
	// Note is a human-readable description of the operation.
	Note string `json:"note" yaml:"note"`
}

// table is the authored endpoint mapping. Order is significant for display.
var table = []Entry{
	{MockMethod: "GET", MockPath: "/availability", RealMethod: "GET", RealPath: "/api/v1/availability", Note: "Returns room availability"},
	{MockMethod: "GET", MockPath: "/bookings", RealMethod: "GET", RealPath: "/api/v1/reservations", Note: "List reservations"},
	{MockMethod: "POST", MockPath: "/bookings", RealMethod: "POST", RealPath: "/api/v1/reservations", Note: "Create reservation"},
	{MockMethod: "PUT", MockPath: "/bookings/{id}", RealMethod: "PUT", RealPath: "/api/v1/reservations/{id}", Note: "Update reservation"},
	{MockMethod: "DELETE", MockPath: "/bookings/{id}", RealMethod: "DELETE", RealPath: "/api/v1/reservations/{id}", Note: "Cancel reservation"},
}

// Entries returns a copy of the mapping table in authored order.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Lookup returns the entry for the given mock method and path. The second
// return value reports whether a matching entry exists. Unknown pairs are
// not an error.
func Lookup(method, path string) (Entry, bool) {
	for _, e := range table {
		if e.MockMethod == method && e.MockPath == path {
			return e, true
		}
	}
	return Entry{}, false
}

// validMethods is the set of verbs an entry may use.
var validMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// Check verifies the table invariants:
//
//   - every method is one of GET, POST, PUT, DELETE
//   - no two entries share the same (mockMethod, mockPath)
//   - every {placeholder} in a mock path appears identically in the paired
//     real path, and vice versa
//
// It returns one error per violation, or nil when the table is sound.
func Check() []error {
	return CheckEntries(table)
}

// CheckEntries runs the table invariants against an arbitrary entry list.
func CheckEntries(entries []Entry) []error {
	var errs []error

	seen := make(map[string]int)
	for i, e := range entries {
		if !validMethods[e.MockMethod] {
			errs = append(errs, fmt.Errorf("entry %d: invalid mock method %q", i, e.MockMethod))
		}
		if !validMethods[e.RealMethod] {
			errs = append(errs, fmt.Errorf("entry %d: invalid real method %q", i, e.RealMethod))
		}

		key := e.MockMethod + " " + e.MockPath
		if prev, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("entry %d: duplicate mock endpoint %s (first declared by entry %d)", i, key, prev))
		} else {
			seen[key] = i
		}

		mockPH := placeholders(e.MockPath)
		realPH := placeholders(e.RealPath)
		for name := range mockPH {
			if !realPH[name] {
				errs = append(errs, fmt.Errorf("entry %d: placeholder {%s} in mock path %s has no counterpart in real path %s", i, name, e.MockPath, e.RealPath))
			}
		}
		for name := range realPH {
			if !mockPH[name] {
				errs = append(errs, fmt.Errorf("entry %d: placeholder {%s} in real path %s has no counterpart in mock path %s", i, name, e.RealPath, e.MockPath))
			}
		}
	}
	return errs
}

// placeholders extracts the {name} path-parameter names from a path.
func placeholders(path string) map[string]bool {
	out := make(map[string]bool)
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2 {
			out[seg[1:len(seg)-1]] = true
		}
	}
	return out
}

// Markdown renders the table as a GitHub-flavored markdown table, matching
// the layout of ENDPOINT_MAPPING.md.
func Markdown() string {
	var b strings.Builder
	b.WriteString("| Mock Endpoint | OPERA Endpoint | Notes |\n")
	b.WriteString("|---|---|---|\n")
	for _, e := range table {
		fmt.Fprintf(&b, "| %s %s | %s %s | %s |\n", e.MockMethod, e.MockPath, e.RealMethod, e.RealPath, e.Note)
	}
	return b.String()
}

// Package status holds the shared loading/error slots network operations
// report into. Callers poll these instead of handling errors at each call
// site; each operation overwrites whatever the previous one left behind,
// so only the most recent operation's outcome is observable.
package status

import "sync"

// Status is one pair of loading/error slots, scoped to a single user
// session rather than process-wide.
type Status struct {
	mu      sync.Mutex
	loading bool
	err     string
}

// New creates an idle Status.
func New() *Status {
	return &Status{}
}

// Begin marks a network operation as in flight and clears the error slot.
func (s *Status) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.err = ""
}

// Done marks the in-flight operation as finished.
func (s *Status) Done() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Fail records a human-readable failure message. The operation is still
// considered settled; callers poll Err rather than receiving an error.
func (s *Status) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

// Loading reports whether a network operation is in flight.
func (s *Status) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the most recent failure message, or "" when the last
// operation succeeded.
func (s *Status) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Clear resets both slots.
func (s *Status) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = ""
}

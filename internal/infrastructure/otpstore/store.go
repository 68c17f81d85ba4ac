// Package otpstore holds pending registration codes in process memory.
// Codes are lost on restart and are not shared across instances; the
// registration flow treats that as acceptable for short-lived codes.
package otpstore

import (
	"sync"
	"time"
)

// Entry is a pending code for one email address.
type Entry struct {
	Code      string
	ExpiresAt time.Time
}

// Store is a mutex-guarded map from email to pending code with a background
// sweep that removes expired entries. At most one code is pending per email;
// Put overwrites any prior one.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	done    chan struct{}
	once    sync.Once
}

// New creates a store and starts its sweep goroutine. Call Close on shutdown.
func New() *Store {
	s := &Store{
		entries: make(map[string]Entry),
		done:    make(chan struct{}),
	}
	go s.sweep(time.Minute)
	return s
}

// Put stores a code for email, replacing any existing one.
func (s *Store) Put(email, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = Entry{Code: code, ExpiresAt: time.Now().Add(ttl)}
}

// Get returns the pending entry for email. Expired entries are still
// returned — the caller owns the expiry check so it can distinguish an
// expired code from a missing one.
func (s *Store) Get(email string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[email]
	return e, ok
}

// Delete removes the pending entry for email, if any.
func (s *Store) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweepOnce(time.Now())
		}
	}
}

func (s *Store) sweepOnce(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, e := range s.entries {
		if now.After(e.ExpiresAt) {
			delete(s.entries, email)
		}
	}
}

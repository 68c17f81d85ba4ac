package otpstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	s := New()
	defer s.Close()

	s.Put("a@b.com", "123456", 5*time.Minute)
	e, ok := s.Get("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "123456", e.Code)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), e.ExpiresAt, time.Second)
}

func TestPut_OverwritesExisting(t *testing.T) {
	s := New()
	defer s.Close()

	s.Put("a@b.com", "111111", 5*time.Minute)
	s.Put("a@b.com", "222222", 5*time.Minute)
	e, ok := s.Get("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "222222", e.Code)
}

func TestGet_Missing(t *testing.T) {
	s := New()
	defer s.Close()

	_, ok := s.Get("nobody@b.com")
	assert.False(t, ok)
}

func TestGet_ReturnsExpiredEntry(t *testing.T) {
	// Expired entries stay visible until swept so the caller can report
	// "expired" instead of "not found".
	s := New()
	defer s.Close()

	s.Put("a@b.com", "123456", -time.Minute)
	e, ok := s.Get("a@b.com")
	require.True(t, ok)
	assert.True(t, time.Now().After(e.ExpiresAt))
}

func TestDelete(t *testing.T) {
	s := New()
	defer s.Close()

	s.Put("a@b.com", "123456", 5*time.Minute)
	s.Delete("a@b.com")
	_, ok := s.Get("a@b.com")
	assert.False(t, ok)
}

func TestSweepOnce_RemovesOnlyExpired(t *testing.T) {
	s := New()
	defer s.Close()

	s.Put("old@b.com", "111111", -time.Minute)
	s.Put("new@b.com", "222222", 5*time.Minute)
	s.sweepOnce(time.Now())

	_, ok := s.Get("old@b.com")
	assert.False(t, ok)
	_, ok = s.Get("new@b.com")
	assert.True(t, ok)
}

func TestClose_Idempotent(t *testing.T) {
	s := New()
	s.Close()
	s.Close()
}

package cache

import (
	"testing"
	"time"
)

func TestMemoryStore_Claim(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	if !s.Claim("a.mp4", time.Minute) {
		t.Fatalf("first claim should succeed")
	}
	if s.Claim("a.mp4", time.Minute) {
		t.Fatalf("second claim within ttl should fail")
	}

	s.Release("a.mp4")
	if !s.Claim("a.mp4", time.Minute) {
		t.Fatalf("claim after release should succeed")
	}
}

func TestMemoryStore_ExpiredClaims(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()

	s.Claim("old.mp4", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if !s.Claim("old.mp4", time.Millisecond) {
		t.Fatalf("expired key should be claimable")
	}

	s.evict(time.Now().Add(time.Second))
	if s.Len() != 0 {
		t.Fatalf("evict should drop expired keys, %d left", s.Len())
	}
}

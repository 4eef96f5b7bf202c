package ratelimiter

import (
	"testing"
	"time"
)

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *KeyedLimiter
	now := time.Now()
	for i := 0; i < 100; i++ {
		if !l.Allow("client", now) {
			t.Fatal("nil limiter must allow all requests")
		}
	}
	if New(0, 10, 0) != nil {
		t.Fatal("zero rps must disable limiting")
	}
	if New(5, 0, 0) != nil {
		t.Fatal("zero burst must disable limiting")
	}
}

func TestBurstThenRefill(t *testing.T) {
	l := New(1, 3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !l.Allow("a", now) {
			t.Fatalf("request %d within burst must pass", i)
		}
	}
	if l.Allow("a", now) {
		t.Fatal("request beyond burst must be rejected")
	}
	// One token refills after one second at 1 rps.
	if !l.Allow("a", now.Add(time.Second)) {
		t.Fatal("request after refill must pass")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()

	if !l.Allow("a", now) {
		t.Fatal("first request for a must pass")
	}
	if l.Allow("a", now) {
		t.Fatal("second request for a must be rejected")
	}
	if !l.Allow("b", now) {
		t.Fatal("a's exhaustion must not affect b")
	}
}

func TestIdleBucketsAreEvicted(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()

	l.Allow("old", now)
	l.Allow("fresh", now.Add(2*time.Minute))

	l.mu.Lock()
	_, oldAlive := l.byKey["old"]
	_, freshAlive := l.byKey["fresh"]
	l.mu.Unlock()

	if oldAlive {
		t.Fatal("idle bucket must be evicted")
	}
	if !freshAlive {
		t.Fatal("active bucket must survive eviction")
	}
}

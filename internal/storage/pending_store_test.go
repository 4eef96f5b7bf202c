package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/GNS-Foundation/gns-go/pkg/models"
)

func crumbAt(ts int64) models.Breadcrumb {
	return models.Breadcrumb{
		PublicKey: "aa",
		Latitude:  1,
		Longitude: 2,
		Timestamp: ts,
		Signature: "bb",
	}
}

func TestPendingAppendAndSnapshot(t *testing.T) {
	s := NewPendingStore(10)
	for i := int64(1); i <= 3; i++ {
		n, err := s.Append(crumbAt(i * 1000))
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if n != int(i) {
			t.Fatalf("append %d returned count %d", i, n)
		}
	}

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot has %d entries, want 3", len(snap))
	}
	if snap[0].Timestamp != 1000 || snap[2].Timestamp != 3000 {
		t.Fatal("snapshot must preserve append order")
	}

	// The snapshot is a copy; mutating it must not reach the buffer.
	snap[0].Timestamp = 9999
	if s.Snapshot()[0].Timestamp != 1000 {
		t.Fatal("snapshot mutation leaked into the store")
	}
}

func TestPendingRejectsOutOfOrder(t *testing.T) {
	s := NewPendingStore(10)
	if _, err := s.Append(crumbAt(2000)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(crumbAt(1000)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("backwards append: %v, want ErrOutOfOrder", err)
	}
	// Equal timestamps are allowed: two breadcrumbs can land in one tick.
	if _, err := s.Append(crumbAt(2000)); err != nil {
		t.Fatalf("equal-timestamp append: %v", err)
	}
}

func TestPendingBufferFull(t *testing.T) {
	s := NewPendingStore(2)
	if _, err := s.Append(crumbAt(1)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(crumbAt(2)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.Append(crumbAt(3)); !errors.Is(err, ErrBufferFull) {
		t.Fatalf("overflow append: %v, want ErrBufferFull", err)
	}
}

func TestPendingMarkPublishedRaisesFloor(t *testing.T) {
	s := NewPendingStore(10)
	for _, ts := range []int64{1000, 2000, 3000} {
		if _, err := s.Append(crumbAt(ts)); err != nil {
			t.Fatalf("append %d: %v", ts, err)
		}
	}
	if err := s.MarkPublished(2); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d after draining 2 of 3, want 1", s.Count())
	}

	// The floor is now 2000: older breadcrumbs may no longer enter.
	if _, err := s.Append(crumbAt(1500)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("append below floor: %v, want ErrOutOfOrder", err)
	}
	if _, err := s.Append(crumbAt(3000)); err != nil {
		t.Fatalf("append at tail: %v", err)
	}

	if err := s.MarkPublished(5); !errors.Is(err, ErrBadDrainLen) {
		t.Fatalf("overdrain: %v, want ErrBadDrainLen", err)
	}
	if err := s.MarkPublished(0); !errors.Is(err, ErrBadDrainLen) {
		t.Fatalf("zero drain: %v, want ErrBadDrainLen", err)
	}
}

func TestPendingPersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.enc")

	s, err := NewPersistentPendingStore(path, "pw", 10)
	if err != nil {
		t.Fatalf("open fresh store: %v", err)
	}
	for _, ts := range []int64{1000, 2000, 3000} {
		if _, err := s.Append(crumbAt(ts)); err != nil {
			t.Fatalf("append %d: %v", ts, err)
		}
	}
	if err := s.MarkPublished(1); err != nil {
		t.Fatalf("mark published: %v", err)
	}

	reopened, err := NewPersistentPendingStore(path, "pw", 10)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if reopened.Count() != 2 {
		t.Fatalf("reopened count = %d, want 2", reopened.Count())
	}
	// The floor survives the restart.
	if _, err := reopened.Append(crumbAt(500)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("append below persisted floor: %v, want ErrOutOfOrder", err)
	}

	if _, err := NewPersistentPendingStore(path, "wrong", 10); err == nil {
		t.Fatal("wrong passphrase must not open the store")
	}
}

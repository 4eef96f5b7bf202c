package storage

import (
	"errors"
	"os"
	"sync"

	"github.com/GNS-Foundation/gns-go/internal/securestore"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

var (
	ErrBufferFull  = errors.New("pending breadcrumb buffer is full")
	ErrOutOfOrder  = errors.New("breadcrumb timestamp precedes sealed trajectory")
	ErrBadDrainLen = errors.New("drain length exceeds pending count")
)

// PendingStore is the caller-owned buffer of breadcrumbs awaiting epoch
// publication. All writes go through one mutex (single-writer discipline), and
// appends must not move backwards in time relative to what previous epochs
// already sealed, which preserves the monotonic-trajectory invariant across
// epochs.
type PendingStore struct {
	mu     sync.Mutex
	crumbs []models.Breadcrumb
	floor  int64 // latest timestamp sealed in a published epoch
	max    int
	path   string
	secret string
}

type pendingState struct {
	Crumbs []models.Breadcrumb `json:"crumbs"`
	Floor  int64               `json:"floor"`
}

func NewPendingStore(max int) *PendingStore {
	return &PendingStore{max: max}
}

// NewPersistentPendingStore restores the buffer from an encrypted snapshot if
// one exists.
func NewPersistentPendingStore(path, passphrase string, max int) (*PendingStore, error) {
	s := &PendingStore{max: max, path: path, secret: passphrase}
	var state pendingState
	err := securestore.ReadDecryptedJSON(path, passphrase, &state)
	switch {
	case err == nil:
		s.crumbs = state.Crumbs
		s.floor = state.Floor
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	return s, nil
}

// Append adds a breadcrumb to the tail of the buffer.
func (s *PendingStore) Append(b models.Breadcrumb) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.crumbs) >= s.max {
		return len(s.crumbs), ErrBufferFull
	}
	if b.Timestamp < s.floor {
		return len(s.crumbs), ErrOutOfOrder
	}
	if n := len(s.crumbs); n > 0 && b.Timestamp < s.crumbs[n-1].Timestamp {
		return len(s.crumbs), ErrOutOfOrder
	}
	next := append(append([]models.Breadcrumb(nil), s.crumbs...), b)
	if err := s.persistLocked(next, s.floor); err != nil {
		return len(s.crumbs), err
	}
	s.crumbs = next
	return len(s.crumbs), nil
}

func (s *PendingStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.crumbs)
}

// Snapshot returns the pending breadcrumbs in append order. The slice is a
// copy; the buffer is untouched so a failed publish can be retried.
func (s *PendingStore) Snapshot() []models.Breadcrumb {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Breadcrumb(nil), s.crumbs...)
}

// MarkPublished drops the first n breadcrumbs after a successful publish and
// raises the sealed-timestamp floor to the last one dropped.
func (s *PendingStore) MarkPublished(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.crumbs) {
		return ErrBadDrainLen
	}
	floor := s.crumbs[n-1].Timestamp
	if floor < s.floor {
		floor = s.floor
	}
	next := append([]models.Breadcrumb(nil), s.crumbs[n:]...)
	if err := s.persistLocked(next, floor); err != nil {
		return err
	}
	s.crumbs = next
	s.floor = floor
	return nil
}

func (s *PendingStore) persistLocked(crumbs []models.Breadcrumb, floor int64) error {
	if s.path == "" {
		return nil
	}
	return securestore.WriteEncryptedJSON(s.path, s.secret, pendingState{Crumbs: crumbs, Floor: floor})
}

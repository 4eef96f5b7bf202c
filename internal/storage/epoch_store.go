package storage

import (
	"errors"
	"os"
	"sync"

	"github.com/GNS-Foundation/gns-go/internal/securestore"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

var ErrSequenceOrder = errors.New("epoch sequence number must strictly increase")

// EpochStore keeps the identity's published epochs. Epochs are immutable once
// appended; the store only enforces the strictly-increasing sequence rule.
type EpochStore struct {
	mu     sync.RWMutex
	epochs []models.Epoch
	path   string
	secret string
}

type epochState struct {
	Epochs []models.Epoch `json:"epochs"`
}

func NewEpochStore() *EpochStore {
	return &EpochStore{}
}

func NewPersistentEpochStore(path, passphrase string) (*EpochStore, error) {
	s := &EpochStore{path: path, secret: passphrase}
	var state epochState
	err := securestore.ReadDecryptedJSON(path, passphrase, &state)
	switch {
	case err == nil:
		s.epochs = state.Epochs
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	return s, nil
}

func (s *EpochStore) Append(ep models.Epoch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.epochs); n > 0 && ep.SequenceNumber <= s.epochs[n-1].SequenceNumber {
		return ErrSequenceOrder
	}
	next := append(append([]models.Epoch(nil), s.epochs...), ep)
	if s.path != "" {
		if err := securestore.WriteEncryptedJSON(s.path, s.secret, epochState{Epochs: next}); err != nil {
			return err
		}
	}
	s.epochs = next
	return nil
}

// LastSequence returns 0 when no epoch has been published yet, which is the
// previousSequenceNumber the first publish expects.
func (s *EpochStore) LastSequence() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.epochs) == 0 {
		return 0
	}
	return s.epochs[len(s.epochs)-1].SequenceNumber
}

func (s *EpochStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.epochs)
}

// TotalBreadcrumbs counts every breadcrumb sealed across all epochs.
func (s *EpochStore) TotalBreadcrumbs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, ep := range s.epochs {
		total += len(ep.Breadcrumbs)
	}
	return total
}

// LatestSealedAt is the timestamp of the newest sealed breadcrumb, 0 if none.
func (s *EpochStore) LatestSealedAt() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest int64
	for _, ep := range s.epochs {
		for _, b := range ep.Breadcrumbs {
			if b.Timestamp > latest {
				latest = b.Timestamp
			}
		}
	}
	return latest
}

func (s *EpochStore) All() []models.Epoch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Epoch(nil), s.epochs...)
}

package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/internal/metrics"
	"github.com/GNS-Foundation/gns-go/internal/storage"
	"github.com/GNS-Foundation/gns-go/internal/trust"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

var (
	ErrNoIdentity       = errors.New("no identity is loaded")
	ErrIdentityExists   = errors.New("an identity already exists")
	ErrNotEligible      = errors.New("identity does not meet handle claim requirements")
	ErrNothingToPublish = errors.New("no pending breadcrumbs to publish")
)

// minClaimBreadcrumbs gates handle claims on accumulated trajectory
// evidence, so handles cannot be squatted by freshly minted keys.
const minClaimBreadcrumbs = 100

// RegistryClient is the handle-registry contract the service consumes.
type RegistryClient interface {
	Claim(ctx context.Context, claim models.HandleClaim) error
	Resolve(ctx context.Context, handle string) (models.ResolvedHandle, error)
}

// Service owns one identity and its trajectory state. Every protocol
// operation takes the identity from the service instance; there is no
// process-wide implicit identity.
type Service struct {
	mu        sync.Mutex
	id        *identity.Identity
	createdAt time.Time

	idStore  *storage.IdentityStore
	pending  *storage.PendingStore
	epochs   *storage.EpochStore
	registry RegistryClient

	weights        trust.Weights
	flushThreshold int
	metrics        *metrics.Metrics
	log            *slog.Logger
}

type Options struct {
	IdentityStore  *storage.IdentityStore
	PendingStore   *storage.PendingStore
	EpochStore     *storage.EpochStore
	Registry       RegistryClient
	Weights        trust.Weights
	FlushThreshold int
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PendingStore == nil {
		opts.PendingStore = storage.NewPendingStore(0)
	}
	if opts.EpochStore == nil {
		opts.EpochStore = storage.NewEpochStore()
	}
	return &Service{
		idStore:        opts.IdentityStore,
		pending:        opts.PendingStore,
		epochs:         opts.EpochStore,
		registry:       opts.Registry,
		weights:        opts.Weights,
		flushThreshold: opts.FlushThreshold,
		metrics:        opts.Metrics,
		log:            opts.Logger,
	}
}

// IdentityInfo is the non-secret view of the loaded identity.
type IdentityInfo struct {
	PublicKey string `json:"publicKey"`
	Address   string `json:"address"`
	Handle    string `json:"handle,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// CreateIdentity generates a fresh identity, persists it under the
// passphrase and returns the backup mnemonic. The mnemonic is shown once and
// never stored.
func (s *Service) CreateIdentity(passphrase string) (IdentityInfo, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != nil {
		return IdentityInfo{}, "", ErrIdentityExists
	}
	id, err := identity.Generate()
	if err != nil {
		return IdentityInfo{}, "", err
	}
	mnemonic, err := id.BackupMnemonic()
	if err != nil {
		return IdentityInfo{}, "", err
	}
	now := time.Now()
	if s.idStore != nil {
		if err := s.idStore.Save(id, now, passphrase); err != nil {
			return IdentityInfo{}, "", err
		}
	}
	s.id = id
	s.createdAt = now
	s.log.Info("identity created", "address", id.Address())
	return s.infoLocked(), mnemonic, nil
}

// RestoreIdentity rebuilds the identity from a hex seed or a mnemonic and
// persists it. Restoring yields byte-identical key material every time.
func (s *Service) RestoreIdentity(secret, passphrase string) (IdentityInfo, error) {
	id, err := identity.Restore(secret)
	if err != nil {
		id, err = identity.RestoreFromMnemonic(secret)
	}
	if err != nil {
		return IdentityInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if s.idStore != nil {
		if err := s.idStore.Save(id, now, passphrase); err != nil {
			return IdentityInfo{}, err
		}
	}
	s.id = id
	s.createdAt = now
	s.log.Info("identity restored", "address", id.Address())
	return s.infoLocked(), nil
}

// LoadIdentity unlocks a previously persisted identity.
func (s *Service) LoadIdentity(passphrase string) (IdentityInfo, error) {
	if s.idStore == nil {
		return IdentityInfo{}, ErrNoIdentity
	}
	id, createdAt, err := s.idStore.Load(passphrase)
	if err != nil {
		return IdentityInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.createdAt = createdAt
	return s.infoLocked(), nil
}

func (s *Service) Identity() (IdentityInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return IdentityInfo{}, ErrNoIdentity
	}
	return s.infoLocked(), nil
}

// ExportIdentity returns the full key material for backup flows.
func (s *Service) ExportIdentity() (models.IdentityExport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return models.IdentityExport{}, ErrNoIdentity
	}
	return s.id.Export(), nil
}

func (s *Service) infoLocked() IdentityInfo {
	return IdentityInfo{
		PublicKey: s.id.PublicKeyHex(),
		Address:   s.id.Address(),
		Handle:    s.id.Handle,
		CreatedAt: s.createdAt.UnixMilli(),
	}
}

func (s *Service) loadedIdentity() (*identity.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return nil, ErrNoIdentity
	}
	return s.id, nil
}

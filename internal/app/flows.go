package app

import (
	"context"
	"errors"
	"time"

	"github.com/GNS-Foundation/gns-go/internal/crypto"
	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/internal/trajectory"
	"github.com/GNS-Foundation/gns-go/internal/trust"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

// SealMessage encrypts and signs a payload for a recipient.
func (s *Service) SealMessage(recipientEncryptionKey, recipientSigningKey, payloadType string, payload []byte) (models.Envelope, error) {
	id, err := s.loadedIdentity()
	if err != nil {
		return models.Envelope{}, err
	}
	env, err := crypto.Seal(id, recipientEncryptionKey, recipientSigningKey, payloadType, payload)
	if err != nil {
		return models.Envelope{}, err
	}
	s.metrics.SealInc()
	return env, nil
}

// OpenMessage verifies and decrypts an incoming envelope.
func (s *Service) OpenMessage(env models.Envelope) (models.OpenedEnvelope, error) {
	id, err := s.loadedIdentity()
	if err != nil {
		return models.OpenedEnvelope{}, err
	}
	opened, err := crypto.Open(id, env)
	switch {
	case err != nil:
		s.metrics.OpenInc("decrypt_failed")
	case !opened.SignatureValid:
		s.metrics.OpenInc("invalid_signature")
		s.log.Warn("envelope signature invalid", "from", shortKey(env.SenderPublicKey))
	default:
		s.metrics.OpenInc("ok")
	}
	return opened, err
}

// DropBreadcrumb signs a location attestation and appends it to the pending
// buffer. When the buffer reaches the flush threshold the pending batch is
// published as an epoch in the same call; there are no background timers.
func (s *Service) DropBreadcrumb(latitude, longitude float64) (pendingCount int, published *models.Epoch, err error) {
	id, err := s.loadedIdentity()
	if err != nil {
		return 0, nil, err
	}
	b, err := trajectory.Create(id, latitude, longitude)
	if err != nil {
		return 0, nil, err
	}
	count, err := s.pending.Append(b)
	if err != nil {
		return count, nil, err
	}
	s.metrics.BreadcrumbInc()

	if s.flushThreshold > 0 && count >= s.flushThreshold {
		ep, err := s.PublishEpoch()
		if err != nil {
			// The breadcrumb is safely buffered; publish can be retried.
			s.log.Error("auto publish failed", "error", err)
			return count, nil, nil
		}
		return 0, &ep, nil
	}
	return count, nil, nil
}

// PendingCount reports the size of the pending buffer.
func (s *Service) PendingCount() int {
	return s.pending.Count()
}

// PublishEpoch seals all pending breadcrumbs into the next epoch. The
// pending buffer is drained only after the epoch is durably stored, so a
// failed publish loses nothing.
func (s *Service) PublishEpoch() (models.Epoch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id
	if id == nil {
		return models.Epoch{}, ErrNoIdentity
	}
	batch := s.pending.Snapshot()
	if len(batch) == 0 {
		return models.Epoch{}, ErrNothingToPublish
	}
	ep, err := trajectory.PublishEpoch(id, batch, s.epochs.LastSequence())
	if err != nil {
		return models.Epoch{}, err
	}
	if err := s.epochs.Append(ep); err != nil {
		return models.Epoch{}, err
	}
	if err := s.pending.MarkPublished(len(batch)); err != nil {
		return models.Epoch{}, err
	}
	s.metrics.EpochInc()
	s.log.Info("epoch published", "sequence", ep.SequenceNumber, "breadcrumbs", len(ep.Breadcrumbs))
	return ep, nil
}

// VerifyEpoch checks a (possibly foreign) epoch's chain integrity.
func (s *Service) VerifyEpoch(ep models.Epoch) bool {
	ok := trajectory.VerifyChain(ep)
	s.metrics.VerifyInc(ok)
	return ok
}

// Epochs lists the identity's published epochs.
func (s *Service) Epochs() []models.Epoch {
	return s.epochs.All()
}

// TrustScore recomputes the local identity's score from stored evidence.
func (s *Service) TrustScore(now time.Time) (models.TrustScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return models.TrustScore{}, ErrNoIdentity
	}
	ev := trust.Evidence{
		BreadcrumbCount:   s.epochs.TotalBreadcrumbs() + s.pending.Count(),
		EpochCount:        s.epochs.Count(),
		HandleClaimed:     s.id.Handle != "",
		IdentityCreatedAt: s.createdAt,
	}
	if sealed := s.epochs.LatestSealedAt(); sealed > 0 {
		ev.LatestEpochAt = time.UnixMilli(sealed)
	}
	return trust.Score(ev, s.weights, now), nil
}

// ClaimHandle signs a handle claim and submits it to the registry. Claims
// are gated on accumulated trajectory evidence.
func (s *Service) ClaimHandle(ctx context.Context, handle string, passphrase string) (models.HandleClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return models.HandleClaim{}, ErrNoIdentity
	}
	evidenceCount := s.epochs.TotalBreadcrumbs() + s.pending.Count()
	if evidenceCount < minClaimBreadcrumbs {
		return models.HandleClaim{}, ErrNotEligible
	}
	claim, err := identity.SignHandleClaim(s.id, handle)
	if err != nil {
		return models.HandleClaim{}, err
	}
	if s.registry != nil {
		if err := s.registry.Claim(ctx, claim); err != nil {
			return models.HandleClaim{}, err
		}
	}
	s.id.Handle = claim.Handle
	if s.idStore != nil && passphrase != "" {
		if err := s.idStore.Save(s.id, s.createdAt, passphrase); err != nil {
			return models.HandleClaim{}, err
		}
	}
	s.log.Info("handle claimed", "handle", claim.Handle)
	return claim, nil
}

// ResolveHandle looks a handle up in the registry.
func (s *Service) ResolveHandle(ctx context.Context, handle string) (models.ResolvedHandle, error) {
	if s.registry == nil {
		return models.ResolvedHandle{}, errors.New("registry is not configured")
	}
	clean, err := identity.NormalizeHandle(handle)
	if err != nil {
		return models.ResolvedHandle{}, err
	}
	return s.registry.Resolve(ctx, clean)
}

func shortKey(k string) string {
	if len(k) <= 16 {
		return k
	}
	return k[:16]
}

package trajectory

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

var (
	ErrEmptyEpoch       = errors.New("epoch requires at least one breadcrumb")
	ErrIdentityMismatch = errors.New("breadcrumb public key does not match identity")
	ErrChainIntegrity   = errors.New("epoch chain integrity check failed")
)

// PublishEpoch seals an ordered batch of pending breadcrumbs into an
// immutable epoch. The chain root is order-sensitive: the breadcrumbs are
// folded exactly as supplied, and sequence numbers increase strictly per
// identity. Signing is deterministic over fixed inputs, so a publish may be
// retried or re-sent without producing a different epoch.
func PublishEpoch(id *identity.Identity, pending []models.Breadcrumb, previousSequenceNumber uint64) (models.Epoch, error) {
	if len(pending) == 0 {
		return models.Epoch{}, ErrEmptyEpoch
	}
	pubHex := id.PublicKeyHex()
	for _, b := range pending {
		if b.PublicKey != pubHex {
			return models.Epoch{}, ErrIdentityMismatch
		}
	}

	root, err := computeChainRoot(id.SigningPublicKey, pending)
	if err != nil {
		return models.Epoch{}, err
	}
	seq := previousSequenceNumber + 1
	sig := ed25519.Sign(id.SigningPrivateKey, epochSigningBytes(root, seq, id.SigningPublicKey))

	// Copy the batch so the caller's pending buffer can be reused.
	crumbs := append([]models.Breadcrumb(nil), pending...)

	return models.Epoch{
		PublicKey:      pubHex,
		SequenceNumber: seq,
		ChainRoot:      hex.EncodeToString(root),
		EpochSignature: hex.EncodeToString(sig),
		Breadcrumbs:    crumbs,
	}, nil
}

// VerifyChain checks an epoch end to end: the chain root must recompute from
// the contained breadcrumbs, the epoch signature must verify, and every
// breadcrumb must verify individually. A self-consistent root over forged
// breadcrumbs is still invalid, because the root only means something if its
// inputs are authentic.
func VerifyChain(epoch models.Epoch) bool {
	pub, err := identity.DecodePublicKey(epoch.PublicKey)
	if err != nil {
		return false
	}
	root, err := computeChainRoot(pub, epoch.Breadcrumbs)
	if err != nil {
		return false
	}
	if hex.EncodeToString(root) != epoch.ChainRoot {
		return false
	}
	sig, err := hex.DecodeString(epoch.EpochSignature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	if !ed25519.Verify(pub, epochSigningBytes(root, epoch.SequenceNumber, pub), sig) {
		return false
	}
	for _, b := range epoch.Breadcrumbs {
		if b.PublicKey != epoch.PublicKey || !VerifyBreadcrumb(b) {
			return false
		}
	}
	return true
}

// computeChainRoot folds SHA-256 over the breadcrumb signatures in order,
// seeded with the hash of the publisher's public key. Changing, reordering or
// dropping any breadcrumb changes the root.
func computeChainRoot(pub ed25519.PublicKey, crumbs []models.Breadcrumb) ([]byte, error) {
	if len(crumbs) == 0 {
		return nil, ErrEmptyEpoch
	}
	h := sha256.Sum256(pub)
	running := h[:]
	for _, b := range crumbs {
		sig, err := hex.DecodeString(b.Signature)
		if err != nil || len(sig) != ed25519.SignatureSize {
			return nil, ErrChainIntegrity
		}
		step := sha256.New()
		step.Write(running)
		step.Write(sig)
		running = step.Sum(nil)
	}
	return running, nil
}

func epochSigningBytes(root []byte, seq uint64, pub ed25519.PublicKey) []byte {
	out := make([]byte, 0, len(root)+len(pub)+10)
	out = append(out, root...)
	out = append(out, 0)
	out = appendUint64(out, seq)
	out = append(out, 0)
	out = append(out, pub...)
	return out
}

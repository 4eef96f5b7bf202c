package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"github.com/GNS-Foundation/gns-go/pkg/models"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// X25519 derivation constants are part of the wire format: two
// implementations must agree on them to derive the same encryption keys
// from the same signing seed.
const (
	hkdfSaltX25519 = "gns-x25519-derive"
	hkdfInfoX25519 = "x25519"

	addressPrefix = "gns1"
)

const (
	SeedSize          = 32
	EncryptionKeySize = 32
)

var ErrInvalidKeyFormat = errors.New("invalid key format")

// Identity is a participant's full key material. The encryption keypair is
// always recomputed from the signing seed; it is never generated or stored
// independently.
type Identity struct {
	SigningPrivateKey    ed25519.PrivateKey
	SigningPublicKey     ed25519.PublicKey
	EncryptionPrivateKey []byte
	EncryptionPublicKey  []byte
	Handle               string
}

// Generate creates a fresh identity. Entropy failure is fatal for the call;
// the caller may retry.
func Generate() (*Identity, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return FromSeed(seed)
}

// Restore recomputes the full identity from a hex-encoded signing seed.
func Restore(privateKeyHex string) (*Identity, error) {
	seed, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, ErrInvalidKeyFormat
	}
	return FromSeed(seed)
}

// FromSeed builds an identity from a raw 32-byte Ed25519 seed. The X25519
// encryption keypair is derived with HKDF-SHA256 so the two key types stay
// cryptographically independent while remaining a pure function of the seed.
func FromSeed(seed []byte) (*Identity, error) {
	if len(seed) != SeedSize {
		return nil, ErrInvalidKeyFormat
	}
	signingPriv := ed25519.NewKeyFromSeed(seed)
	signingPub := signingPriv.Public().(ed25519.PublicKey)

	encPriv, err := deriveEncryptionPrivate(seed)
	if err != nil {
		return nil, err
	}
	encPub, err := curve25519.X25519(encPriv, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}

	return &Identity{
		SigningPrivateKey:    signingPriv,
		SigningPublicKey:     signingPub,
		EncryptionPrivateKey: encPriv,
		EncryptionPublicKey:  encPub,
	}, nil
}

func deriveEncryptionPrivate(seed []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, seed, []byte(hkdfSaltX25519), []byte(hkdfInfoX25519))
	out := make([]byte, EncryptionKeySize)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Seed returns the 32-byte signing seed, the single secret that recovers the
// whole identity.
func (id *Identity) Seed() []byte {
	return id.SigningPrivateKey.Seed()
}

// PublicKeyHex is the identity's canonical wire address.
func (id *Identity) PublicKeyHex() string {
	return hex.EncodeToString(id.SigningPublicKey)
}

// Address is the printable short form shown to humans.
func (id *Identity) Address() string {
	return BuildAddress(id.SigningPublicKey)
}

// Export produces the backup record. EncryptionKey is redundant with
// PrivateKey but collaborators expect it.
func (id *Identity) Export() models.IdentityExport {
	return models.IdentityExport{
		PublicKey:     hex.EncodeToString(id.SigningPublicKey),
		PrivateKey:    hex.EncodeToString(id.Seed()),
		EncryptionKey: hex.EncodeToString(id.EncryptionPrivateKey),
	}
}

// BuildAddress derives the printable address from a signing public key.
func BuildAddress(signingPublicKey ed25519.PublicKey) string {
	h := blake2b.Sum256(signingPublicKey)
	return addressPrefix + base58.Encode(h[:])
}

// DecodePublicKey parses a hex-encoded Ed25519 public key.
func DecodePublicKey(publicKeyHex string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidKeyFormat
	}
	return ed25519.PublicKey(raw), nil
}

// DecodeEncryptionKey parses a hex-encoded X25519 key (public or private).
func DecodeEncryptionKey(keyHex string) ([]byte, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil || len(raw) != EncryptionKeySize {
		return nil, ErrInvalidKeyFormat
	}
	return raw, nil
}

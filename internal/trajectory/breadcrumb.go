package trajectory

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/pkg/models"
)

var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Create signs a location attestation at the current time. Latitude must be
// within [-90, 90] and longitude within [-180, 180].
func Create(id *identity.Identity, latitude, longitude float64) (models.Breadcrumb, error) {
	return createAt(id, latitude, longitude, time.Now().UnixMilli())
}

func createAt(id *identity.Identity, latitude, longitude float64, timestamp int64) (models.Breadcrumb, error) {
	if !(latitude >= -90 && latitude <= 90) || !(longitude >= -180 && longitude <= 180) {
		return models.Breadcrumb{}, ErrInvalidCoordinate
	}
	b := models.Breadcrumb{
		PublicKey: id.PublicKeyHex(),
		Latitude:  latitude,
		Longitude: longitude,
		Timestamp: timestamp,
	}
	sig := ed25519.Sign(id.SigningPrivateKey, breadcrumbSigningBytes(id.SigningPublicKey, b))
	b.Signature = hex.EncodeToString(sig)
	return b, nil
}

// VerifyBreadcrumb recomputes the signed tuple and checks it against the
// embedded signature and public key. Any tampered field fails.
func VerifyBreadcrumb(b models.Breadcrumb) bool {
	pub, err := identity.DecodePublicKey(b.PublicKey)
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(b.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, breadcrumbSigningBytes(pub, b), sig)
}

// breadcrumbSigningBytes fixes the signed field order: publicKey, latitude,
// longitude, timestamp. Coordinates are encoded as big-endian IEEE 754 bits
// so the byte representation is exact and canonical.
func breadcrumbSigningBytes(pub ed25519.PublicKey, b models.Breadcrumb) []byte {
	out := make([]byte, 0, len(pub)+3+24)
	out = append(out, pub...)
	out = append(out, 0)
	out = appendUint64(out, math.Float64bits(b.Latitude))
	out = append(out, 0)
	out = appendUint64(out, math.Float64bits(b.Longitude))
	out = append(out, 0)
	out = appendUint64(out, uint64(b.Timestamp))
	return out
}

func appendUint64(b []byte, v uint64) []byte {
	return append(b, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

package identity

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/GNS-Foundation/gns-go/pkg/models"
)

var (
	ErrHandleTooShort = errors.New("handle must be at least 3 characters")
	ErrHandleTooLong  = errors.New("handle must be at most 20 characters")
	ErrHandleCharset  = errors.New("handle must be lowercase letters, digits or underscore")
	ErrHandleReserved = errors.New("handle is reserved")
	ErrInvalidClaim   = errors.New("invalid handle claim")
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

var reservedHandles = map[string]struct{}{
	"admin": {}, "root": {}, "system": {}, "gns": {}, "layer": {}, "browser": {},
	"support": {}, "help": {}, "official": {}, "verified": {}, "echo": {}, "bot": {},
	"api": {}, "www": {}, "app": {}, "mail": {}, "ftp": {}, "ssh": {}, "localhost": {},
}

// NormalizeHandle lowercases, strips a leading @ and validates the handle.
func NormalizeHandle(handle string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(handle))
	clean = strings.TrimPrefix(clean, "@")
	if len(clean) < 3 {
		return "", ErrHandleTooShort
	}
	if len(clean) > 20 {
		return "", ErrHandleTooLong
	}
	if !handlePattern.MatchString(clean) {
		return "", ErrHandleCharset
	}
	if _, ok := reservedHandles[clean]; ok {
		return "", ErrHandleReserved
	}
	return clean, nil
}

// SignHandleClaim produces the claim object the registry consumes. At most
// one claim is active per identity; the registry enforces global uniqueness.
func SignHandleClaim(id *Identity, handle string) (models.HandleClaim, error) {
	clean, err := NormalizeHandle(handle)
	if err != nil {
		return models.HandleClaim{}, err
	}
	claim := models.HandleClaim{
		Handle:    clean,
		PublicKey: id.PublicKeyHex(),
		ClaimedAt: time.Now().UnixMilli(),
	}
	sig := ed25519.Sign(id.SigningPrivateKey, claimSigningBytes(claim))
	claim.Signature = hex.EncodeToString(sig)
	return claim, nil
}

// VerifyHandleClaim checks the claim signature against the claimed key.
func VerifyHandleClaim(claim models.HandleClaim) (bool, error) {
	pub, err := DecodePublicKey(claim.PublicKey)
	if err != nil {
		return false, err
	}
	sig, err := hex.DecodeString(claim.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(pub, claimSigningBytes(claim), sig), nil
}

func claimSigningBytes(claim models.HandleClaim) []byte {
	b := make([]byte, 0, len(claim.Handle)+len(claim.PublicKey)+10)
	b = append(b, []byte(claim.Handle)...)
	b = append(b, 0)
	b = append(b, []byte(claim.PublicKey)...)
	b = append(b, 0)
	ts := claim.ClaimedAt
	b = append(b, byte(ts>>56), byte(ts>>48), byte(ts>>40), byte(ts>>32), byte(ts>>24), byte(ts>>16), byte(ts>>8), byte(ts))
	return b
}

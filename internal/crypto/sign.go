package crypto

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/GNS-Foundation/gns-go/internal/identity"
)

// Sign produces an Ed25519 signature over exactly message. Ed25519 is
// deterministic: signing the same message with the same key always yields
// the same bytes, so retried callers can compare outputs.
func Sign(privateKey ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(privateKey, message)
}

// SignHex signs and returns the signature hex encoded for boundary records.
func SignHex(privateKey ed25519.PrivateKey, message []byte) string {
	return hex.EncodeToString(ed25519.Sign(privateKey, message))
}

// Verify checks an Ed25519 signature. Malformed or truncated signature bytes
// verify false; only a malformed public key is a hard error.
func Verify(publicKeyHex string, message []byte, signatureHex string) (bool, error) {
	pub, err := identity.DecodePublicKey(publicKeyHex)
	if err != nil {
		return false, err
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(pub, message, sig), nil
}

// VerifyRaw is Verify for callers already holding decoded keys.
func VerifyRaw(publicKey ed25519.PublicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey, message, signature)
}

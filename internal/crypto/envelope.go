package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/pkg/models"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// Envelope key-derivation constants are part of the wire format.
const (
	hkdfSaltMessage = "gns-message-key"
	hkdfInfoMessage = "gns-message"
)

var (
	ErrEncryption = errors.New("encryption failed")
	ErrDecryption = errors.New("decryption failed")
)

// Seal encrypts plaintext for the recipient and signs the result.
//
// A fresh ephemeral X25519 keypair is generated per envelope; the shared
// secret from the ephemeral private key and the recipient's encryption
// public key is run through HKDF-SHA256 before use as the symmetric key.
// The sender then signs (ephemeralPublicKey, nonce, ciphertext, payloadType)
// with the static signing key, binding authorship to a verifiable identity.
//
// The signature covers the ciphertext tuple, not the plaintext
// (encrypt-then-sign): a recipient can prove who sent the bytes without the
// signature itself leaking anything about the cleartext. The order is part of
// the wire format; peers verify before they decrypt.
func Seal(sender *identity.Identity, recipientEncryptionPublicKeyHex, recipientSigningPublicKeyHex, payloadType string, plaintext []byte) (models.Envelope, error) {
	recipientEncPub, err := identity.DecodeEncryptionKey(recipientEncryptionPublicKeyHex)
	if err != nil {
		return models.Envelope{}, ErrEncryption
	}
	if _, err := identity.DecodePublicKey(recipientSigningPublicKeyHex); err != nil {
		return models.Envelope{}, ErrEncryption
	}

	ephPriv := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(ephPriv); err != nil {
		return models.Envelope{}, err
	}
	ephPub, err := curve25519.X25519(ephPriv, curve25519.Basepoint)
	if err != nil {
		return models.Envelope{}, ErrEncryption
	}

	shared, err := curve25519.X25519(ephPriv, recipientEncPub)
	if err != nil {
		return models.Envelope{}, ErrEncryption
	}
	key, err := deriveMessageKey(shared)
	if err != nil {
		return models.Envelope{}, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return models.Envelope{}, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return models.Envelope{}, err
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	sig := ed25519.Sign(sender.SigningPrivateKey, envelopeSigningBytes(ephPub, nonce, ciphertext, payloadType))

	return models.Envelope{
		SenderPublicKey:    sender.PublicKeyHex(),
		EphemeralPublicKey: hex.EncodeToString(ephPub),
		Nonce:              hex.EncodeToString(nonce),
		Ciphertext:         base64.StdEncoding.EncodeToString(ciphertext),
		PayloadType:        payloadType,
		Signature:          hex.EncodeToString(sig),
	}, nil
}

// Open verifies and decrypts an envelope addressed to the recipient.
//
// The sender signature is checked before any decryption is attempted; an
// envelope that fails authenticity is returned with SignatureValid false and
// no payload, and never reaches the cipher. Opening is idempotent: the same
// envelope bytes always yield the same result.
func Open(recipient *identity.Identity, env models.Envelope) (models.OpenedEnvelope, error) {
	senderPub, err := identity.DecodePublicKey(env.SenderPublicKey)
	if err != nil {
		return models.OpenedEnvelope{}, err
	}

	invalid := models.OpenedEnvelope{
		FromPublicKey:  env.SenderPublicKey,
		PayloadType:    env.PayloadType,
		SignatureValid: false,
	}

	ephPub, err := hex.DecodeString(env.EphemeralPublicKey)
	if err != nil || len(ephPub) != curve25519.PointSize {
		return invalid, nil
	}
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSize {
		return invalid, nil
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return invalid, nil
	}
	sig, err := hex.DecodeString(env.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return invalid, nil
	}
	if !ed25519.Verify(senderPub, envelopeSigningBytes(ephPub, nonce, ciphertext, env.PayloadType), sig) {
		return invalid, nil
	}

	shared, err := curve25519.X25519(recipient.EncryptionPrivateKey, ephPub)
	if err != nil {
		return models.OpenedEnvelope{}, ErrDecryption
	}
	key, err := deriveMessageKey(shared)
	if err != nil {
		return models.OpenedEnvelope{}, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return models.OpenedEnvelope{}, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Single failure kind on purpose: wrong key and tampered
		// ciphertext must be indistinguishable to the caller.
		return models.OpenedEnvelope{}, ErrDecryption
	}

	return models.OpenedEnvelope{
		FromPublicKey:  env.SenderPublicKey,
		PayloadType:    env.PayloadType,
		Payload:        plaintext,
		SignatureValid: true,
	}, nil
}

func deriveMessageKey(shared []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, shared, []byte(hkdfSaltMessage), []byte(hkdfInfoMessage))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

func envelopeSigningBytes(ephPub, nonce, ciphertext []byte, payloadType string) []byte {
	b := make([]byte, 0, len(ephPub)+len(nonce)+len(ciphertext)+len(payloadType)+3)
	b = append(b, ephPub...)
	b = append(b, 0)
	b = append(b, nonce...)
	b = append(b, 0)
	b = append(b, ciphertext...)
	b = append(b, 0)
	b = append(b, []byte(payloadType)...)
	return b
}

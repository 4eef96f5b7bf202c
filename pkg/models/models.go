package models

// Boundary records exchanged with the UI, storage, and network collaborators.
// Binary fields are hex encoded except envelope ciphertext, which is base64
// (the smaller encoding matters for message payloads). Field names are part
// of the wire format and must not change.

// IdentityExport is the full key material of an identity, produced only for
// backup flows. PrivateKey is the Ed25519 seed; EncryptionKey is the derived
// X25519 private key and is included for collaborator convenience even though
// it can always be recomputed from PrivateKey.
type IdentityExport struct {
	PublicKey     string `json:"publicKey"`
	PrivateKey    string `json:"privateKey"`
	EncryptionKey string `json:"encryptionKey"`
}

// Breadcrumb is a signed location-and-time attestation. Timestamp is unix
// milliseconds. The signature covers publicKey, latitude, longitude and
// timestamp in that order.
type Breadcrumb struct {
	PublicKey string  `json:"publicKey"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
	Signature string  `json:"signature"`
}

// Envelope is a sealed message between two identities. The signature is the
// sender's Ed25519 signature over (ephemeralPublicKey, nonce, ciphertext,
// payloadType), binding authorship to the ciphertext.
type Envelope struct {
	SenderPublicKey    string `json:"senderPublicKey"`
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
	Nonce              string `json:"nonce"`
	Ciphertext         string `json:"ciphertext"`
	PayloadType        string `json:"payloadType"`
	Signature          string `json:"signature"`
}

// OpenedEnvelope is the result of opening an Envelope. Payload is the raw
// plaintext bytes; SignatureValid is always true on a successful open, and
// failed opens never carry a payload.
type OpenedEnvelope struct {
	FromPublicKey  string `json:"fromPublicKey"`
	PayloadType    string `json:"payloadType"`
	Payload        []byte `json:"payload"`
	SignatureValid bool   `json:"signatureValid"`
}

// Epoch is a hash-chained, singly-signed batch of breadcrumbs. ChainRoot is
// the left fold of SHA-256 over the breadcrumb signatures in order, seeded
// with the hash of the publisher's public key. EpochSignature covers
// (chainRoot, sequenceNumber, publicKey).
type Epoch struct {
	PublicKey      string       `json:"publicKey"`
	SequenceNumber uint64       `json:"sequenceNumber"`
	ChainRoot      string       `json:"chainRoot"`
	EpochSignature string       `json:"epochSignature"`
	Breadcrumbs    []Breadcrumb `json:"breadcrumbs"`
}

// HandleClaim binds a human-readable handle to a public key. Global
// uniqueness is enforced by the external registry; the claim object only
// proves the key holder requested the binding.
type HandleClaim struct {
	Handle    string `json:"handle"`
	PublicKey string `json:"publicKey"`
	ClaimedAt int64  `json:"claimedAt"`
	Signature string `json:"signature"`
}

// ResolvedHandle is the registry's answer to a handle lookup.
type ResolvedHandle struct {
	Handle        string `json:"handle"`
	PublicKey     string `json:"publicKey"`
	EncryptionKey string `json:"encryptionKey,omitempty"`
	TrustScore    int    `json:"trustScore"`
	ResolvedAt    int64  `json:"resolvedAt"`
}

// TrustScore is derived, never stored as ground truth.
type TrustScore struct {
	Score int    `json:"score"`
	Tier  string `json:"tier"`
}

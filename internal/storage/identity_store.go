package storage

import (
	"encoding/hex"
	"os"
	"time"

	"github.com/GNS-Foundation/gns-go/internal/identity"
	"github.com/GNS-Foundation/gns-go/internal/securestore"
)

// IdentityStore persists the signing seed inside a passphrase envelope. Only
// the seed and a little metadata are stored; the encryption keypair is
// rederived on load. Plaintext key material never touches disk.
type IdentityStore struct {
	path string
}

type identityRecord struct {
	PrivateKey string `json:"privateKey"`
	Handle     string `json:"handle,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

func NewIdentityStore(path string) *IdentityStore {
	return &IdentityStore{path: path}
}

func (s *IdentityStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *IdentityStore) Save(id *identity.Identity, createdAt time.Time, passphrase string) error {
	rec := identityRecord{
		PrivateKey: hex.EncodeToString(id.Seed()),
		Handle:     id.Handle,
		CreatedAt:  createdAt.UnixMilli(),
	}
	return securestore.WriteEncryptedJSON(s.path, passphrase, rec)
}

func (s *IdentityStore) Load(passphrase string) (*identity.Identity, time.Time, error) {
	var rec identityRecord
	if err := securestore.ReadDecryptedJSON(s.path, passphrase, &rec); err != nil {
		return nil, time.Time{}, err
	}
	id, err := identity.Restore(rec.PrivateKey)
	if err != nil {
		return nil, time.Time{}, err
	}
	id.Handle = rec.Handle
	return id, time.UnixMilli(rec.CreatedAt), nil
}

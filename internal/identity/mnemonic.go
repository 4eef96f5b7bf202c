package identity

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// BackupMnemonic encodes the signing seed as a 24-word BIP-39 phrase. The
// phrase alone restores both keypairs.
func (id *Identity) BackupMnemonic() (string, error) {
	return bip39.NewMnemonic(id.Seed())
}

// RestoreFromMnemonic rebuilds the identity from a backup phrase.
func RestoreFromMnemonic(mnemonic string) (*Identity, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	return FromSeed(seed)
}

package identity

import (
	"bytes"
	"strings"
	"testing"
)

func TestMnemonicRoundtrip(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	phrase, err := id.BackupMnemonic()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if got := len(strings.Fields(phrase)); got != 24 {
		t.Fatalf("expected 24-word phrase, got %d words", got)
	}

	restored, err := RestoreFromMnemonic(phrase)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !bytes.Equal(restored.SigningPublicKey, id.SigningPublicKey) {
		t.Fatal("restored identity has a different signing key")
	}
	if !bytes.Equal(restored.EncryptionPrivateKey, id.EncryptionPrivateKey) {
		t.Fatal("restored identity has a different encryption key")
	}
}

func TestRestoreFromMnemonicTrimsWhitespace(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	phrase, err := id.BackupMnemonic()
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	restored, err := RestoreFromMnemonic("  " + phrase + "\n")
	if err != nil {
		t.Fatalf("restore with padding failed: %v", err)
	}
	if !bytes.Equal(restored.SigningPublicKey, id.SigningPublicKey) {
		t.Fatal("restored identity differs")
	}
}

func TestRestoreFromMnemonicRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"abandon",
		"definitely not a bip39 phrase at all one two three four five six",
	}
	for _, c := range cases {
		if _, err := RestoreFromMnemonic(c); err != ErrInvalidMnemonic {
			t.Fatalf("RestoreFromMnemonic(%q) = %v, want ErrInvalidMnemonic", c, err)
		}
	}
}

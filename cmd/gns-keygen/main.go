package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/GNS-Foundation/gns-go/internal/identity"
)

// gns-keygen generates or restores an identity offline and prints the export
// record. Intended for provisioning and recovery; nothing is written to disk.
func main() {
	restore := flag.String("restore", "", "hex seed or mnemonic to restore instead of generating")
	withMnemonic := flag.Bool("mnemonic", true, "print the backup mnemonic")
	flag.Parse()

	var (
		id  *identity.Identity
		err error
	)
	switch {
	case *restore == "":
		id, err = identity.Generate()
	default:
		id, err = identity.Restore(*restore)
		if err != nil {
			id, err = identity.RestoreFromMnemonic(*restore)
		}
	}
	if err != nil {
		log.Fatalf("gns-keygen: %v", err)
	}

	export := id.Export()
	out := map[string]any{
		"address":       id.Address(),
		"publicKey":     export.PublicKey,
		"privateKey":    export.PrivateKey,
		"encryptionKey": export.EncryptionKey,
	}
	if *withMnemonic {
		mnemonic, err := id.BackupMnemonic()
		if err != nil {
			log.Fatalf("gns-keygen: %v", err)
		}
		out["mnemonic"] = mnemonic
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("gns-keygen: %v", err)
	}
	fmt.Fprintln(os.Stderr, "keep the private key and mnemonic secret")
}

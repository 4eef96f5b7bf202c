package identity

import (
	"testing"
)

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"alice", "alice", nil},
		{"@alice", "alice", nil},
		{"  Alice_99 ", "alice_99", nil},
		{"ab", "", ErrHandleTooShort},
		{"a_very_long_handle_over_limit", "", ErrHandleTooLong},
		{"bad-handle", "", ErrHandleCharset},
		{"has space", "", ErrHandleCharset},
		{"admin", "", ErrHandleReserved},
		{"VERIFIED", "", ErrHandleReserved},
	}
	for _, c := range cases {
		got, err := NormalizeHandle(c.in)
		if err != c.wantErr {
			t.Fatalf("NormalizeHandle(%q) error = %v, want %v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Fatalf("NormalizeHandle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHandleClaimSignAndVerify(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claim, err := SignHandleClaim(id, "@Wanderer_01")
	if err != nil {
		t.Fatalf("sign claim failed: %v", err)
	}
	if claim.Handle != "wanderer_01" {
		t.Fatalf("claim handle = %q, want normalized form", claim.Handle)
	}
	ok, err := VerifyHandleClaim(claim)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("freshly signed claim must verify")
	}
}

func TestHandleClaimTamperFails(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claim, err := SignHandleClaim(id, "wanderer")
	if err != nil {
		t.Fatalf("sign claim failed: %v", err)
	}

	renamed := claim
	renamed.Handle = "impostor"
	if ok, err := VerifyHandleClaim(renamed); err != nil || ok {
		t.Fatalf("renamed claim: ok=%v err=%v, want false nil", ok, err)
	}

	shifted := claim
	shifted.ClaimedAt++
	if ok, err := VerifyHandleClaim(shifted); err != nil || ok {
		t.Fatalf("timestamp-shifted claim: ok=%v err=%v, want false nil", ok, err)
	}

	garbled := claim
	garbled.Signature = "zz" + garbled.Signature[2:]
	if ok, err := VerifyHandleClaim(garbled); err != nil || ok {
		t.Fatalf("garbled signature: ok=%v err=%v, want false nil", ok, err)
	}
}

func TestHandleClaimRejectsInvalidHandle(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := SignHandleClaim(id, "no"); err != ErrHandleTooShort {
		t.Fatalf("short handle: %v, want ErrHandleTooShort", err)
	}
}

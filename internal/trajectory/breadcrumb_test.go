package trajectory

import (
	"math"
	"testing"

	"github.com/GNS-Foundation/gns-go/internal/identity"
)

func testIdentity(t *testing.T) *identity.Identity {
	t.Helper()
	id, err := identity.Generate()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	return id
}

func TestCreateAndVerifyBreadcrumb(t *testing.T) {
	id := testIdentity(t)
	b, err := Create(id, 59.3293, 18.0686)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.PublicKey != id.PublicKeyHex() {
		t.Fatal("breadcrumb must carry the creator's public key")
	}
	if b.Timestamp == 0 {
		t.Fatal("breadcrumb must be timestamped")
	}
	if !VerifyBreadcrumb(b) {
		t.Fatal("freshly created breadcrumb must verify")
	}
}

func TestCreateRejectsOutOfRangeCoordinates(t *testing.T) {
	id := testIdentity(t)
	bad := []struct{ lat, lon float64 }{
		{91, 0},
		{-91, 0},
		{0, 181},
		{0, -181},
		{math.NaN(), 0},
		{0, math.NaN()},
	}
	for _, c := range bad {
		if _, err := Create(id, c.lat, c.lon); err != ErrInvalidCoordinate {
			t.Fatalf("Create(%v, %v) = %v, want ErrInvalidCoordinate", c.lat, c.lon, err)
		}
	}

	// Boundary values are legal.
	for _, c := range []struct{ lat, lon float64 }{{90, 180}, {-90, -180}, {0, 0}} {
		if _, err := Create(id, c.lat, c.lon); err != nil {
			t.Fatalf("Create(%v, %v) rejected boundary: %v", c.lat, c.lon, err)
		}
	}
}

func TestVerifyBreadcrumbRejectsTampering(t *testing.T) {
	id := testIdentity(t)
	b, err := Create(id, 40.0, -73.9)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	moved := b
	moved.Latitude += 0.0001
	if VerifyBreadcrumb(moved) {
		t.Fatal("moved breadcrumb must fail verification")
	}

	shifted := b
	shifted.Timestamp++
	if VerifyBreadcrumb(shifted) {
		t.Fatal("time-shifted breadcrumb must fail verification")
	}

	other := testIdentity(t)
	relabeled := b
	relabeled.PublicKey = other.PublicKeyHex()
	if VerifyBreadcrumb(relabeled) {
		t.Fatal("relabeled breadcrumb must fail verification")
	}

	garbled := b
	garbled.Signature = "abcd"
	if VerifyBreadcrumb(garbled) {
		t.Fatal("garbled signature must fail verification")
	}
}

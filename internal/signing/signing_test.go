package signing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	e, err := openpgp.NewEntity("release-bot", "", "release@example.com", nil)
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	return e
}

func armorPublicKey(t *testing.T, e *openpgp.Entity) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("armor.Encode: %v", err)
	}
	if err := e.Serialize(w); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close armor writer: %v", err)
	}
	return buf.String()
}

func TestSignAndVerify(t *testing.T) {
	e := newTestEntity(t)
	s := NewSigner(e)

	manifest := []byte("deadbeef  unity-guid-rewriter\ncafebabe  LICENSE\n")
	sig, err := s.Sign(manifest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !strings.Contains(sig, "BEGIN PGP SIGNATURE") {
		t.Fatalf("expected armored signature, got: %q", sig)
	}

	v, err := NewVerifier(strings.NewReader(armorPublicKey(t, e)))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if err := v.Verify(manifest, sig); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	e := newTestEntity(t)
	s := NewSigner(e)

	manifest := []byte("deadbeef  unity-guid-rewriter\n")
	sig, err := s.Sign(manifest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	v, err := NewVerifier(strings.NewReader(armorPublicKey(t, e)))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if err := v.Verify([]byte("tampered"), sig); err == nil {
		t.Fatalf("expected verification failure for tampered data")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signerEntity := newTestEntity(t)
	otherEntity := newTestEntity(t)

	sig, err := NewSigner(signerEntity).Sign([]byte("data"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	v, err := NewVerifier(strings.NewReader(armorPublicKey(t, otherEntity)))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if err := v.Verify([]byte("data"), sig); err == nil {
		t.Fatalf("expected verification failure with wrong key")
	}
}

// Package signing signs and verifies release checksum manifests with
// armored OpenPGP detached signatures.
package signing

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Signer produces armored detached signatures with a single private key.
type Signer struct {
	entity *openpgp.Entity
}

// LoadSigner reads an armored private keyring from path and returns a Signer
// using its first entity.
func LoadSigner(path string) (*Signer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open signing key: %w", err)
	}
	defer func() { _ = f.Close() }()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	for _, e := range entities {
		if e.PrivateKey != nil {
			return &Signer{entity: e}, nil
		}
	}
	return nil, fmt.Errorf("no private key in %s", path)
}

// NewSigner wraps an in-memory entity. Used by tests and key generation.
func NewSigner(e *openpgp.Entity) *Signer {
	return &Signer{entity: e}
}

// Sign returns an armored detached signature over data.
func (s *Signer) Sign(data []byte) (string, error) {
	var out bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&out, s.entity, bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("detach sign: %w", err)
	}
	return out.String(), nil
}

// Verifier checks armored detached signatures against a public keyring.
type Verifier struct {
	keyring openpgp.EntityList
}

// LoadVerifier reads an armored public keyring from path.
func LoadVerifier(path string) (*Verifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer func() { _ = f.Close() }()
	return NewVerifier(f)
}

// NewVerifier reads an armored keyring from r.
func NewVerifier(r io.Reader) (*Verifier, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("empty keyring")
	}
	return &Verifier{keyring: entities}, nil
}

// Verify checks the armored detached signature sig over data.
func (v *Verifier) Verify(data []byte, sig string) error {
	_, err := openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader([]byte(sig)), nil)
	if err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

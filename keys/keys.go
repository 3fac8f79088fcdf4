// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package keys loads, generates and serves the election authority's
// OpenPGP key material.
package keys

import (
	"bytes"
	"crypto"
	_ "crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"
)

var (
	ErrUnavailable   = errors.New("public key unavailable")
	ErrNoPrivateKeys = errors.New("key ring holds no private keys")
	ErrBadPassphrase = errors.New("private key passphrase is incorrect")
)

// Source serves the authority's public key material.
type Source interface {
	PublicKey() (string, error)
}

// FileSource reads the public key file on every call and returns it
// verbatim, so a rotated file is picked up without a restart.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// PublicKey implements Source.
func (s *FileSource) PublicKey() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return string(data), nil
}

// ReadPublicKeyRing parses an armored public key block.
func ReadPublicKeyRing(armored string) (openpgp.EntityList, error) {
	ring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(armored))
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return ring, nil
}

// LoadPrivateKeyRing reads an armored secret key ring from path and unlocks
// every protected private key with passphrase.
func LoadPrivateKeyRing(path, passphrase string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open private key: %w", err)
	}
	defer f.Close()

	ring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	if len(ring.DecryptionKeys()) == 0 {
		return nil, ErrNoPrivateKeys
	}

	for _, e := range ring {
		if err := unlock(e, []byte(passphrase)); err != nil {
			return nil, err
		}
	}

	return ring, nil
}

func unlock(e *openpgp.Entity, passphrase []byte) error {
	if e.PrivateKey != nil && e.PrivateKey.Encrypted {
		if err := e.PrivateKey.Decrypt(passphrase); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPassphrase, err)
		}
	}
	for _, sub := range e.Subkeys {
		if sub.PrivateKey != nil && sub.PrivateKey.Encrypted {
			if err := sub.PrivateKey.Decrypt(passphrase); err != nil {
				return fmt.Errorf("%w: %v", ErrBadPassphrase, err)
			}
		}
	}
	return nil
}

// Authority is a freshly generated decryption authority key pair in
// armored form.
type Authority struct {
	PublicKey  string
	PrivateKey string
}

// EntityConfig is the configuration keys are generated with. Its
// DefaultHash and DefaultCipher become the key's preference subpackets;
// without them openpgp.Encrypt falls back to RIPEMD160 and CAST5.
func EntityConfig() *packet.Config {
	return &packet.Config{
		DefaultHash:   crypto.SHA256,
		DefaultCipher: packet.CipherAES256,
	}
}

// GenerateAuthority creates a new key pair for the decryption authority.
func GenerateAuthority(name, email string) (Authority, error) {
	cfg := EntityConfig()
	e, err := openpgp.NewEntity(name, "ballot decryption authority", email, cfg)
	if err != nil {
		return Authority{}, fmt.Errorf("failed to generate key: %w", err)
	}

	// SerializePrivate re-signs identities, so it runs before the public export.
	var priv bytes.Buffer
	w, err := armor.Encode(&priv, openpgp.PrivateKeyType, nil)
	if err != nil {
		return Authority{}, err
	}
	if err := e.SerializePrivate(w, cfg); err != nil {
		return Authority{}, fmt.Errorf("failed to serialize private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return Authority{}, err
	}

	var pub bytes.Buffer
	w, err = armor.Encode(&pub, openpgp.PublicKeyType, nil)
	if err != nil {
		return Authority{}, err
	}
	if err := e.Serialize(w); err != nil {
		return Authority{}, fmt.Errorf("failed to serialize public key: %w", err)
	}
	if err := w.Close(); err != nil {
		return Authority{}, err
	}

	// armor.Encode leaves the closing line unterminated
	return Authority{
		PublicKey:  pub.String() + "\n",
		PrivateKey: priv.String() + "\n",
	}, nil
}

// WriteFiles stores the key pair as public_key.asc and private_key.asc in dir.
func (a Authority) WriteFiles(dir string) (pubPath, privPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	pubPath = filepath.Join(dir, "public_key.asc")
	privPath = filepath.Join(dir, "private_key.asc")
	if err := os.WriteFile(pubPath, []byte(a.PublicKey), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write public key: %w", err)
	}
	if err := os.WriteFile(privPath, []byte(a.PrivateKey), 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write private key: %w", err)
	}
	return pubPath, privPath, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
)

// MaxPlaintextBytes caps how much decrypted data is read from one ballot.
const MaxPlaintextBytes = 16 << 10

var (
	errNotEncrypted      = errors.New("message is not encrypted")
	errPlaintextTooLarge = errors.New("plaintext exceeds size limit")
)

// PGPDecryptor decrypts ASCII-armored OpenPGP messages with an in-process
// key ring. The ring's private keys must already be unlocked.
type PGPDecryptor struct {
	keyring openpgp.EntityList
}

func NewPGPDecryptor(keyring openpgp.EntityList) *PGPDecryptor {
	return &PGPDecryptor{keyring: keyring}
}

// Decrypt implements Decryptor.
func (d *PGPDecryptor) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	block, err := armor.Decode(bytes.NewReader(ciphertext))
	if err != nil {
		return nil, fmt.Errorf("failed to decode armor: %w", err)
	}
	if block.Type != "PGP MESSAGE" {
		return nil, fmt.Errorf("unexpected armor block %q", block.Type)
	}

	// nil prompt: locked keys fail with ErrKeyIncorrect instead of blocking.
	md, err := openpgp.ReadMessage(block.Body, d.keyring, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	if !md.IsEncrypted {
		return nil, errNotEncrypted
	}

	// Reading to EOF also checks the integrity code.
	plain, err := io.ReadAll(io.LimitReader(md.UnverifiedBody, MaxPlaintextBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read plaintext: %w", err)
	}
	if len(plain) > MaxPlaintextBytes {
		return nil, errPlaintextTooLarge
	}

	return plain, nil
}

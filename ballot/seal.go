// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"bytes"
	_ "crypto/sha256"
	"fmt"
	"net/url"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
)

// Seal encrypts b to recipients and returns the armored message in
// percent-encoded wire form, ready for Gateway.Open.
func Seal(recipients openpgp.EntityList, b Ballot) (string, error) {
	plain, err := b.Plaintext()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	aw, err := armor.Encode(&buf, "PGP MESSAGE", nil)
	if err != nil {
		return "", err
	}
	pw, err := openpgp.Encrypt(aw, recipients, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt ballot: %w", err)
	}
	if _, err := pw.Write(plain); err != nil {
		return "", fmt.Errorf("failed to encrypt ballot: %w", err)
	}
	if err := pw.Close(); err != nil {
		return "", fmt.Errorf("failed to encrypt ballot: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", err
	}

	return url.PathEscape(buf.String()), nil
}

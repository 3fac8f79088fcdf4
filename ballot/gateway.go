// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"
)

// Decryptor turns a ciphertext into plaintext using the authority's private
// key. Implementations should honor ctx but are not required to; the Gateway
// stops waiting once ctx is done.
type Decryptor interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// Gateway decodes, decrypts and parses wire ballots. It holds no mutable
// state and is safe for concurrent use.
type Gateway struct {
	decryptor Decryptor
	timeout   time.Duration
}

// NewGateway returns a Gateway that bounds each decryption by timeout.
// A zero timeout leaves the bound to the caller's context. On timeout Open
// returns at once; a decryptor that ignores ctx keeps running in its own
// goroutine until it returns.
func NewGateway(d Decryptor, timeout time.Duration) *Gateway {
	return &Gateway{decryptor: d, timeout: timeout}
}

// Open percent-decodes raw, decrypts it and parses the plaintext.
// Errors wrap ErrEncoding, ErrDecryptionFailed or ErrMalformedPayload.
func (g *Gateway) Open(ctx context.Context, raw string) (Ballot, error) {
	// Path semantics: '+' in armored base64 must survive decoding.
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return Ballot{}, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if !utf8.ValidString(decoded) {
		return Ballot{}, fmt.Errorf("%w: invalid UTF-8", ErrEncoding)
	}

	plain, err := g.decrypt(ctx, []byte(decoded))
	if err != nil {
		return Ballot{}, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return Parse(plain)
}

type decryptResult struct {
	plain []byte
	err   error
}

func (g *Gateway) decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	done := make(chan decryptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- decryptResult{err: fmt.Errorf("decryptor panicked: %v", r)}
			}
		}()
		plain, err := g.decryptor.Decrypt(ctx, ciphertext)
		done <- decryptResult{plain: plain, err: err}
	}()

	select {
	case res := <-done:
		return res.plain, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

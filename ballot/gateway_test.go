// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"

	"github.com/danielhkuo/ballotbox/keys"
)

type stubDecryptor struct {
	plain []byte
	err   error
	got   []byte
}

func (s *stubDecryptor) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	s.got = ciphertext
	return s.plain, s.err
}

// stuckDecryptor ignores ctx and never returns until released
type stuckDecryptor struct {
	release chan struct{}
}

func (s *stuckDecryptor) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	<-s.release
	return nil, errors.New("released")
}

type panickyDecryptor struct{}

func (panickyDecryptor) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	panic("boom")
}

func TestGatewayOpen_Stub(t *testing.T) {
	valid := []byte(`{"nonce":42,"vote":{"name":"A. Smith","party":"Reform"}}`)

	tests := []struct {
		name    string
		raw     string
		dec     *stubDecryptor
		wantErr error
	}{
		{"valid", "cipher", &stubDecryptor{plain: valid}, nil},
		{"bad percent escape", "abc%zz", &stubDecryptor{plain: valid}, ErrEncoding},
		{"invalid utf-8", "%ff%fe", &stubDecryptor{plain: valid}, ErrEncoding},
		{"decryptor error", "cipher", &stubDecryptor{err: errors.New("wrong key")}, ErrDecryptionFailed},
		{"malformed plaintext", "cipher", &stubDecryptor{plain: []byte(`{"nonce":1}`)}, ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(tt.dec, time.Second)
			b, err := g.Open(context.Background(), tt.raw)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantErr == ErrEncoding && tt.dec.got != nil {
					t.Error("decryptor should not run for undecodable input")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if b != (Ballot{Nonce: 42, Candidate: "A. Smith", Party: "Reform"}) {
				t.Errorf("Open() = %+v", b)
			}
		})
	}
}

func TestGatewayOpen_PlusSurvivesDecoding(t *testing.T) {
	dec := &stubDecryptor{plain: []byte(`{"nonce":1,"vote":{"name":"B","party":"P"}}`)}
	g := NewGateway(dec, time.Second)

	if _, err := g.Open(context.Background(), "ab+c%2Bd%0A"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(dec.got) != "ab+c+d\n" {
		t.Errorf("decryptor got %q, want %q", dec.got, "ab+c+d\n")
	}
}

func TestGatewayOpen_Timeout(t *testing.T) {
	dec := &stuckDecryptor{release: make(chan struct{})}
	defer close(dec.release)

	g := NewGateway(dec, 20*time.Millisecond)

	start := time.Now()
	_, err := g.Open(context.Background(), "cipher")
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Open() error = %v, want ErrDecryptionFailed", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Open() took %v, timeout not enforced", elapsed)
	}
}

func TestGatewayOpen_CallerCancel(t *testing.T) {
	dec := &stuckDecryptor{release: make(chan struct{})}
	defer close(dec.release)

	g := NewGateway(dec, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Open(ctx, "cipher"); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Open() error = %v, want ErrDecryptionFailed", err)
	}
}

func TestGatewayOpen_DecryptorPanic(t *testing.T) {
	g := NewGateway(panickyDecryptor{}, time.Second)

	if _, err := g.Open(context.Background(), "cipher"); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Open() error = %v, want ErrDecryptionFailed", err)
	}
}

var (
	entityOnce sync.Once
	entities   [2]*openpgp.Entity
	entityErr  error
)

// testEntities returns two independent key pairs, generated once
func testEntities(t *testing.T) (authority, stranger *openpgp.Entity) {
	t.Helper()
	entityOnce.Do(func() {
		for i := range entities {
			entities[i], entityErr = openpgp.NewEntity("test", "", "test@example.test", keys.EntityConfig())
			if entityErr != nil {
				return
			}
		}
	})
	if entityErr != nil {
		t.Fatalf("Failed to generate key: %v", entityErr)
	}
	return entities[0], entities[1]
}

func TestPGPRoundTrip(t *testing.T) {
	authority, _ := testEntities(t)
	ring := openpgp.EntityList{authority}

	want := Ballot{Nonce: 42, Candidate: "A. Smith", Party: "Reform"}
	sealed, err := Seal(ring, want)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	g := NewGateway(NewPGPDecryptor(ring), 5*time.Second)
	got, err := g.Open(context.Background(), sealed)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got != want {
		t.Errorf("Open() = %+v, want %+v", got, want)
	}

	// Raw armored text without percent-encoding is accepted too
	armored, _ := url.PathUnescape(sealed)
	if _, err := g.Open(context.Background(), armored); err != nil {
		t.Errorf("Open(armored) error = %v", err)
	}
}

func TestPGPDecryptor_Rejects(t *testing.T) {
	authority, stranger := testEntities(t)
	d := NewPGPDecryptor(openpgp.EntityList{authority})
	ctx := context.Background()

	t.Run("encrypted to another key", func(t *testing.T) {
		sealed, err := Seal(openpgp.EntityList{stranger}, Ballot{Nonce: 1, Candidate: "B", Party: "P"})
		if err != nil {
			t.Fatal(err)
		}
		armored, _ := url.PathUnescape(sealed)
		if _, err := d.Decrypt(ctx, []byte(armored)); err == nil {
			t.Error("expected error for foreign recipient")
		}
	})

	t.Run("signed but not encrypted", func(t *testing.T) {
		var buf bytes.Buffer
		aw, _ := armor.Encode(&buf, "PGP MESSAGE", nil)
		w, err := openpgp.Sign(aw, authority, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(`{"nonce":1,"vote":{"name":"B","party":"P"}}`))
		w.Close()
		aw.Close()

		if _, err := d.Decrypt(ctx, buf.Bytes()); !errors.Is(err, errNotEncrypted) {
			t.Errorf("Decrypt() error = %v, want errNotEncrypted", err)
		}
	})

	t.Run("wrong armor type", func(t *testing.T) {
		var buf bytes.Buffer
		aw, _ := armor.Encode(&buf, openpgp.PublicKeyType, nil)
		authority.Serialize(aw)
		aw.Close()

		if _, err := d.Decrypt(ctx, buf.Bytes()); err == nil {
			t.Error("expected error for public key block")
		}
	})

	t.Run("binary message", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := openpgp.Encrypt(&buf, openpgp.EntityList{authority}, nil, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(`{"nonce":1,"vote":{"name":"B","party":"P"}}`))
		w.Close()

		if _, err := d.Decrypt(ctx, buf.Bytes()); err == nil {
			t.Error("expected error for unarmored message")
		}

		g := NewGateway(d, time.Second)
		if _, err := g.Open(ctx, url.PathEscape(buf.String())); err == nil {
			t.Error("Open() accepted an unarmored message")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := d.Decrypt(ctx, []byte("not a pgp message")); err == nil {
			t.Error("expected error for garbage")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := d.Decrypt(cctx, []byte("x")); !errors.Is(err, context.Canceled) {
			t.Errorf("Decrypt() error = %v, want context.Canceled", err)
		}
	})
}

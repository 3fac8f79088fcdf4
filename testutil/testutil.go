// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/openpgp"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/keys"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard voting server test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           7879,
		PublicKeyFile:  "public_key.asc",
		PrivateKeyFile: "private_key.asc",
		DecryptTimeout: 5 * time.Second,
		MaxInFlight:    8,
		MaxBallotBytes: 64 << 10,
		ExposeTally:    true,
		IPHashSalt:     "test-ip-salt",
	}
}

// TestAuthority is a decryption authority shared by all tests in a package
type TestAuthority struct {
	keys.Authority
	Private openpgp.EntityList
	Public  openpgp.EntityList
}

var (
	authorityOnce sync.Once
	authority     TestAuthority
	authorityErr  error
)

// Authority returns a key pair generated once per test binary; RSA key
// generation is too slow to repeat per test.
func Authority(t testing.TB) TestAuthority {
	t.Helper()

	authorityOnce.Do(func() {
		a, err := keys.GenerateAuthority("Test Authority", "authority@example.test")
		if err != nil {
			authorityErr = err
			return
		}
		priv, err := openpgp.ReadArmoredKeyRing(bytes.NewBufferString(a.PrivateKey))
		if err != nil {
			authorityErr = err
			return
		}
		pub, err := keys.ReadPublicKeyRing(a.PublicKey)
		if err != nil {
			authorityErr = err
			return
		}
		authority = TestAuthority{Authority: a, Private: priv, Public: pub}
	})

	if authorityErr != nil {
		t.Fatalf("Failed to generate test authority: %v", authorityErr)
	}
	return authority
}

// WriteKeyFiles stores the authority's key pair in a temp dir and returns
// the public and private key paths
func (a TestAuthority) WriteKeyFiles(t *testing.T) (pubPath, privPath string) {
	t.Helper()

	pubPath, privPath, err := a.WriteFiles(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to write key files: %v", err)
	}
	return pubPath, privPath
}

// Gateway returns a ballot gateway that decrypts with the authority's key
func (a TestAuthority) Gateway(timeout time.Duration) *ballot.Gateway {
	return ballot.NewGateway(ballot.NewPGPDecryptor(a.Private), timeout)
}

// SealBallot encrypts a ballot to the authority in wire form
func SealBallot(t testing.TB, a TestAuthority, nonce uint64, party, candidate string) string {
	t.Helper()

	sealed, err := ballot.Seal(a.Public, ballot.Ballot{Nonce: nonce, Party: party, Candidate: candidate})
	if err != nil {
		t.Fatalf("Failed to seal ballot: %v", err)
	}
	return sealed
}

// WriteFile writes content to name inside a temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

package models

import (
	"encoding/json"
	"strings"
)

// Login portal messages
const (
	MessageRegistered        = "Successfully registered"
	MessageAlreadyRegistered = "eID already registered"
)

// validate_voter verdicts
const (
	ValidVoter   = "ValidVoter"
	InvalidVoter = "InvalidVoter"
)

// Request types

// Percent-encoded OpenPGP message
type VoteRequest struct {
	EncryptedVote string `json:"encrypted_vote"`
}

// EID is the legacy name for Identity; it may be a JSON string or number.
type LoginRequest struct {
	Identity  string          `json:"identity"`
	EID       json.RawMessage `json:"e_id,omitempty"`
	PublicKey string          `json:"public_key"`
}

// ResolvedIdentity returns Identity, falling back to e_id.
func (r LoginRequest) ResolvedIdentity() string {
	if r.Identity != "" {
		return r.Identity
	}
	if len(r.EID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.EID, &s); err == nil {
		return s
	}
	raw := strings.TrimSpace(string(r.EID))
	if raw == "null" {
		return ""
	}
	return raw
}

// PublicKey is optional: when absent the registered key is returned.
type ValidateVoterRequest struct {
	VoterID   *int64  `json:"voter_id"`
	PublicKey *string `json:"public_key,omitempty"`
}

// Response types

type PublicKeyResponse struct {
	PublicKey string `json:"public_key"`
}

// VoterID is null when registration failed
type LoginResponse struct {
	VoterID *int64 `json:"voter_id"`
	Message string `json:"message"`
}

// Message is either ValidVoter/InvalidVoter or a RegisteredKey
type ValidateVoterResponse struct {
	Message interface{} `json:"message"`
}

type RegisteredKey struct {
	PublicKey string `json:"PublicKey"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

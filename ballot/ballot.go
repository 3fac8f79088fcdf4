// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Ballot is a decrypted vote. Values are only produced by Parse or by a
// submitter building a ballot to seal.
type Ballot struct {
	Nonce     uint64
	Candidate string
	Party     string
}

// plaintext is the JSON document carried inside the ciphertext:
//
//	{"nonce": 42, "vote": {"name": "A. Smith", "party": "Reform"}}
//
// Pointers distinguish a missing field from a zero value.
type plaintext struct {
	Nonce *uint64 `json:"nonce"`
	Vote  *struct {
		Name  *string `json:"name"`
		Party *string `json:"party"`
	} `json:"vote"`
}

// Parse decodes a decrypted plaintext into a Ballot. Missing fields and
// wrong types are reported as ErrMalformedPayload. Invalid UTF-8 is
// rejected rather than replaced, so a corrupt name never becomes a tally key.
func Parse(data []byte) (Ballot, error) {
	if !utf8.Valid(data) {
		return Ballot{}, fmt.Errorf("%w: invalid UTF-8", ErrMalformedPayload)
	}

	var p plaintext
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return Ballot{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.More() {
		return Ballot{}, fmt.Errorf("%w: trailing data after ballot", ErrMalformedPayload)
	}

	switch {
	case p.Nonce == nil:
		return Ballot{}, fmt.Errorf("%w: missing nonce", ErrMalformedPayload)
	case p.Vote == nil:
		return Ballot{}, fmt.Errorf("%w: missing vote", ErrMalformedPayload)
	case p.Vote.Name == nil:
		return Ballot{}, fmt.Errorf("%w: missing candidate name", ErrMalformedPayload)
	case p.Vote.Party == nil:
		return Ballot{}, fmt.Errorf("%w: missing party", ErrMalformedPayload)
	}

	return Ballot{
		Nonce:     *p.Nonce,
		Candidate: *p.Vote.Name,
		Party:     *p.Vote.Party,
	}, nil
}

// Plaintext returns the JSON document a submitter encrypts for this ballot.
func (b Ballot) Plaintext() ([]byte, error) {
	var p plaintext
	p.Nonce = &b.Nonce
	p.Vote = &struct {
		Name  *string `json:"name"`
		Party *string `json:"party"`
	}{Name: &b.Candidate, Party: &b.Party}
	return json.Marshal(p)
}

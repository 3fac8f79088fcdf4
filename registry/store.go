// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package registry records voter identities and the public keys they
// claimed at registration.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("voter not found")
	// ErrAlreadyRegistered is returned together with the existing Voter.
	ErrAlreadyRegistered = errors.New("identity already registered")
)

type Voter struct {
	ID        int64
	Identity  string
	PublicKey string
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Register creates a voter for identity. Registering an identity twice
// returns the first registration and ErrAlreadyRegistered; the stored
// public key is not replaced.
func (s *Store) Register(ctx context.Context, identity, publicKey string) (Voter, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO voter (identity, public_key)
		VALUES ($1, $2)
		ON CONFLICT (identity) DO NOTHING
		RETURNING voter_id
	`, identity, publicKey).Scan(&id)

	if err == nil {
		return Voter{ID: id, Identity: identity, PublicKey: publicKey}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Voter{}, fmt.Errorf("failed to insert voter: %w", err)
	}

	// Conflict: someone registered this identity first.
	existing, err := s.byIdentity(ctx, identity)
	if err != nil {
		return Voter{}, err
	}
	return existing, ErrAlreadyRegistered
}

func (s *Store) byIdentity(ctx context.Context, identity string) (Voter, error) {
	v := Voter{Identity: identity}
	err := s.db.QueryRowContext(ctx, `
		SELECT voter_id, public_key FROM voter WHERE identity = $1
	`, identity).Scan(&v.ID, &v.PublicKey)

	if errors.Is(err, sql.ErrNoRows) {
		return Voter{}, ErrNotFound
	}
	if err != nil {
		return Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// Lookup returns the voter registered under id.
func (s *Store) Lookup(ctx context.Context, id int64) (Voter, error) {
	v := Voter{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT identity, public_key FROM voter WHERE voter_id = $1
	`, id).Scan(&v.Identity, &v.PublicKey)

	if errors.Is(err, sql.ErrNoRows) {
		return Voter{}, ErrNotFound
	}
	if err != nil {
		return Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

// Validate reports whether id is registered with exactly publicKey.
func (s *Store) Validate(ctx context.Context, id int64, publicKey string) (bool, error) {
	v, err := s.Lookup(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v.PublicKey == publicKey, nil
}

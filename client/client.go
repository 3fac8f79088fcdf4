// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client talks to the voting server and the login portal on behalf
// of a voter.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/keys"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/tally"
)

// StatusError is returned when a server answers with an unexpected status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Seal encrypts b to the armored public key and returns it in wire form.
func Seal(publicKeyArmored string, b ballot.Ballot) (string, error) {
	ring, err := keys.ReadPublicKeyRing(publicKeyArmored)
	if err != nil {
		return "", err
	}
	return ballot.Seal(ring, b)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// PublicKey fetches the authority's armored public key.
func (c *Client) PublicKey(ctx context.Context) (string, error) {
	var resp models.PublicKeyResponse
	if err := c.do(ctx, http.MethodGet, "/public_key", nil, &resp, http.StatusOK); err != nil {
		return "", err
	}
	return resp.PublicKey, nil
}

// Vote submits a sealed ballot. A nil error only means the server accepted
// the request; it does not say whether the ballot was counted.
func (c *Client) Vote(ctx context.Context, sealed string) error {
	return c.do(ctx, http.MethodPost, "/vote", models.VoteRequest{EncryptedVote: sealed}, nil, http.StatusOK)
}

// Tally fetches the running tally.
func (c *Client) Tally(ctx context.Context) (tally.Tally, error) {
	var t tally.Tally
	if err := c.do(ctx, http.MethodGet, "/votes", nil, &t, http.StatusOK); err != nil {
		return nil, err
	}
	return t, nil
}

// Register logs in to the portal and returns the voter id. existing is true
// when the identity was already registered.
func (c *Client) Register(ctx context.Context, identity, publicKey string) (id int64, existing bool, err error) {
	req := models.LoginRequest{Identity: identity, PublicKey: publicKey}

	var resp models.LoginResponse
	status, err := c.doStatus(ctx, http.MethodPost, "/login", req, &resp, http.StatusOK, http.StatusCreated)
	if err != nil {
		return 0, false, err
	}
	if resp.VoterID == nil {
		return 0, false, fmt.Errorf("portal returned no voter_id: %s", resp.Message)
	}
	return *resp.VoterID, status == http.StatusOK, nil
}

// Validate asks the portal whether voterID is registered with publicKey.
func (c *Client) Validate(ctx context.Context, voterID int64, publicKey string) (bool, error) {
	req := models.ValidateVoterRequest{VoterID: &voterID, PublicKey: &publicKey}

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/validate_voter", req, &resp, http.StatusOK); err != nil {
		return false, err
	}
	return resp.Message == models.ValidVoter, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, want ...int) error {
	_, err := c.doStatus(ctx, method, path, body, out, want...)
	return err
}

func (c *Client) doStatus(ctx context.Context, method, path string, body, out interface{}, want ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if !slices.Contains(want, resp.StatusCode) {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

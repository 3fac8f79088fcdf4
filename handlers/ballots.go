// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/intake"
	"github.com/danielhkuo/ballotbox/keys"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type BallotHandler struct {
	pipeline *intake.Pipeline
	keys     keys.Source
	cfg      cliparse.Config
}

func NewBallotHandler(pipeline *intake.Pipeline, src keys.Source, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{pipeline: pipeline, keys: src, cfg: cfg}
}

// PublicKey handles GET /public_key
// Serves the authority's key file verbatim
func (h *BallotHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.keys.PublicKey()
	if err != nil {
		slog.Error("failed to read public key",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		if errors.Is(err, keys.ErrUnavailable) {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Public key unavailable")
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Public key unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PublicKeyResponse{
		PublicKey: key,
	})
}

// Vote handles POST /vote
// Counted, duplicate and undecryptable ballots all get the same empty 200,
// so the endpoint cannot be used to probe which nonces were consumed.
func (h *BallotHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseLimitedJSONBody(w, r, h.cfg.MaxBallotBytes, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		}
		return
	}

	if req.EncryptedVote == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "encrypted_vote is required")
		return
	}

	outcome := h.pipeline.Submit(r.Context(), req.EncryptedVote)

	slog.Info("ballot processed",
		"request_id", middleware.RequestID(r.Context()),
		"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
		"outcome", outcome.Status.String(),
		"reason", outcome.Reason,
	)

	w.WriteHeader(http.StatusOK)
}

// Votes handles GET /votes
// Returns the running tally as {party: {candidate: count}}
func (h *BallotHandler) Votes(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.ExposeTally {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tally is not published")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.pipeline.Tally())
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/registry"
)

type VoterHandler struct {
	store *registry.Store
}

func NewVoterHandler(store *registry.Store) *VoterHandler {
	return &VoterHandler{store: store}
}

// Login handles POST /login
// Registers an identity with its public key, or returns the existing voter_id
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.LoginResponse{Message: "Invalid JSON"})
		return
	}

	identity := req.ResolvedIdentity()
	if identity == "" || req.PublicKey == "" {
		middleware.JSONResponse(w, http.StatusBadRequest, models.LoginResponse{
			Message: "identity and public_key are required",
		})
		return
	}

	voter, err := h.store.Register(r.Context(), identity, req.PublicKey)
	if errors.Is(err, registry.ErrAlreadyRegistered) {
		slog.Info("voter registered (existing)",
			"request_id", middleware.RequestID(r.Context()),
			"voter_id", voter.ID,
		)
		middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
			VoterID: &voter.ID,
			Message: models.MessageAlreadyRegistered,
		})
		return
	}
	if err != nil {
		slog.Error("failed to register voter", "error", err)
		middleware.JSONResponse(w, http.StatusInternalServerError, models.LoginResponse{Message: "Database error"})
		return
	}

	slog.Info("voter registered (new)",
		"request_id", middleware.RequestID(r.Context()),
		"voter_id", voter.ID,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.LoginResponse{
		VoterID: &voter.ID,
		Message: models.MessageRegistered,
	})
}

// ValidateVoter handles GET /validate_voter
// With public_key: checks the pair. Without: returns the registered key.
func (h *VoterHandler) ValidateVoter(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	if req.PublicKey != nil {
		ok, err := h.store.Validate(r.Context(), *req.VoterID, *req.PublicKey)
		if err != nil {
			slog.Error("failed to validate voter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		verdict := models.InvalidVoter
		if ok {
			verdict = models.ValidVoter
		}
		middleware.JSONResponse(w, http.StatusOK, models.ValidateVoterResponse{Message: verdict})
		return
	}

	voter, err := h.store.Lookup(r.Context(), *req.VoterID)
	if errors.Is(err, registry.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.ValidateVoterResponse{Message: models.InvalidVoter})
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ValidateVoterResponse{
		Message: models.RegisteredKey{PublicKey: voter.PublicKey},
	})
}

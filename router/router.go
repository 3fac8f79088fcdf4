// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/intake"
	"github.com/danielhkuo/ballotbox/keys"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/registry"
)

// NewRouter builds the voting server routes
func NewRouter(pipeline *intake.Pipeline, src keys.Source, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	ballotHandler := handlers.NewBallotHandler(pipeline, src, cfg)

	addHealth(mux)

	mux.HandleFunc("GET /public_key", middleware.WithLogging(ballotHandler.PublicKey))
	mux.HandleFunc("POST /vote", middleware.WithLogging(ballotHandler.Vote))
	mux.HandleFunc("GET /votes", middleware.WithLogging(ballotHandler.Votes))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox voting server v1"))
	})

	return mux
}

// NewPortalRouter builds the login portal routes
func NewPortalRouter(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()

	voterHandler := handlers.NewVoterHandler(registry.NewStore(db))

	addHealth(mux)

	mux.HandleFunc("POST /login", middleware.WithLogging(voterHandler.Login))
	mux.HandleFunc("GET /validate_voter", middleware.WithLogging(voterHandler.ValidateVoter))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox login portal v1"))
	})

	return mux
}

func addHealth(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

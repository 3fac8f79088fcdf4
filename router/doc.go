// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting server and the login
portal.

# Route Registration

NewRouter creates the voting server mux; NewPortalRouter creates the login
portal mux:

	mux := router.NewRouter(pipeline, keys.NewFileSource(cfg.PublicKeyFile), cfg)
	portal := router.NewPortalRouter(db)

# Endpoints

Voting server:

	GET  /health     - Liveness
	GET  /public_key - Authority public key, verbatim
	POST /vote       - Submit an encrypted ballot
	GET  /votes      - Running tally (when enabled)

Login portal:

	GET  /health         - Liveness
	POST /login          - Register an identity and its public key
	GET  /validate_voter - Check or fetch a voter's registered key

Every API route is wrapped in middleware.WithLogging, which assigns the
request ID used in all log lines for that request.
*/
package router

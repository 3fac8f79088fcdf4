// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting server and
the login portal.

# Handler Types

  - BallotHandler: public key distribution, ballot intake, running tally
  - VoterHandler: voter registration and validation

	ballotHandler := handlers.NewBallotHandler(pipeline, keys.NewFileSource(path), cfg)
	voterHandler := handlers.NewVoterHandler(registry.NewStore(db))

# Voting Flow

	GET  /public_key → PublicKey (armored key, verbatim)
	POST /vote       → Vote (decrypt, replay check, count)
	GET  /votes      → Votes (only when cfg.ExposeTally)

POST /vote answers 200 with an empty body whether the ballot was counted,
was a replay, or could not be decrypted. Only a request body that is not
JSON, is missing encrypted_vote, or exceeds MaxBallotBytes is refused.

# Registration Flow

	POST /login          → Login (idempotent per identity)
	GET  /validate_voter → ValidateVoter
*/
package handlers

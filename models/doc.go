// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for both services.

# Voting Server

  - VoteRequest: encrypted_vote (percent-encoded OpenPGP message)
  - PublicKeyResponse: public_key (armored block, verbatim)

GET /votes responds with a tally.Tally directly:

	{"Reform": {"A. Smith": 1}}

# Login Portal

  - LoginRequest: identity (or legacy e_id), public_key
  - LoginResponse: voter_id (null on failure), message
  - ValidateVoterRequest: voter_id, optional public_key
  - ValidateVoterResponse: message

The validate_voter message is a verdict string when a public key is sent,
or the registered key when it is not:

	{"message": "ValidVoter"}
	{"message": {"PublicKey": "-----BEGIN PGP PUBLIC KEY BLOCK-----..."}}

# Errors

  - ErrorResponse: error, message
*/
package models

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides small cryptographic helpers shared by the services.

# Ballot Nonces

Submitters pick a random nonce per ballot so the server can reject replays:

	nonce, err := auth.GenerateNonce()

# IP Hashing

Request logs never carry raw client addresses:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth

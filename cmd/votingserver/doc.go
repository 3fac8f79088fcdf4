// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Votingserver accepts encrypted ballots, rejects replays and keeps a running
tally.

# Starting the Server

The server needs the authority's key pair and an IP hashing secret:

	IP_HASH_SALT=... votingserver -priv private_key.asc

Or with flags:

	votingserver -p 7879 -pub public_key.asc -priv private_key.asc -ip-salt ...

A .env file in the working directory is loaded first; real environment
variables take precedence over it.

# Configuration

Required settings:

  - PRIVATE_KEY_FILE (-priv): armored secret key ring
  - IP_HASH_SALT (-ip-salt): secret for hashing client IPs in logs

Optional settings:

  - PORT (-p): server port (default: 7879)
  - PUBLIC_KEY_FILE (-pub): served verbatim at /public_key (default: public_key.asc)
  - PRIVATE_KEY_PASSPHRASE (-passphrase): unlocks a protected private key
  - DECRYPT_TIMEOUT (-decrypt-timeout): per-ballot decryption limit (default: 5s)
  - MAX_INFLIGHT_DECRYPTIONS (-max-inflight): concurrent decryptions (default: 64)
  - MAX_BALLOT_BYTES (-max-ballot-bytes): /vote body limit (default: 64 KiB)
  - EXPOSE_TALLY (-expose-tally): serve GET /votes (default: true)

Startup fails if either key file is unreadable. The nonce set and the tally
live in memory and are lost on exit.
*/
package main

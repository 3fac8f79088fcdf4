// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

Each binary parses its own config:

	cfg, err := cliparse.ParseFlags(os.Args[1:])        // votingserver
	cfg, err := cliparse.ParsePortalFlags(os.Args[1:])  // loginportal

A .env file in the working directory is loaded first with LoadEnvFile;
variables already present in the environment win over the file.

# Voting Server

	-p                 PORT                      (default: 7879)
	-pub               PUBLIC_KEY_FILE           (default: public_key.asc)
	-priv              PRIVATE_KEY_FILE          (required)
	-passphrase        PRIVATE_KEY_PASSPHRASE
	-decrypt-timeout   DECRYPT_TIMEOUT           (default: 5s)
	-max-inflight      MAX_INFLIGHT_DECRYPTIONS  (default: 64)
	-max-ballot-bytes  MAX_BALLOT_BYTES          (default: 65536)
	-expose-tally      EXPOSE_TALLY              (default: true)
	-ip-salt           IP_HASH_SALT              (required)

# Login Portal

	-p  PORT           (default: 7878)
	-d  DATABASE_URL   (default: file:voters.db for sqlite)
	-t  DATABASE_TYPE  (sqlite or postgres, default: sqlite)

CLI flags take precedence over environment variables.
*/
package cliparse

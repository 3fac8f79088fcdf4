// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the login portal's database connection and schema.

# Connecting

Open accepts the configured database type and URL:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

The driver must be linked in by the binary:

	import _ "modernc.org/sqlite" // DATABASE_TYPE=sqlite
	import _ "github.com/lib/pq"   // DATABASE_TYPE=postgres

# Schema Creation

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Tables

  - voter: one row per registered identity (identity is UNIQUE)

Ballots and tallies are never stored here; the voting server keeps them in
memory only.
*/
package db

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Loginportal registers voters and answers whether a voter's public key
matches the one on record.

# Starting the Server

SQLite is the default store:

	loginportal -p 7878 -d file:voters.db

PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... loginportal

# Configuration

  - PORT (-p): server port (default: 7878)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string; required for postgres
    (default for sqlite: file:voters.db)
*/
package main

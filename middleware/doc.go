// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each request gets a UUID, returned in the X-Request-ID header and available
to handlers through RequestID(r.Context()). Start and completion are logged
with method, path, status and duration_ms. Client addresses are not logged.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with the Content-Type header.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies, optionally with a size cap (413 is written for
oversized bodies):

	var req models.VoteRequest
	if err := middleware.ParseLimitedJSONBody(w, r, maxBytes, &req); err != nil {
		...
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Only ever logged after auth.HashIP.
*/
package middleware

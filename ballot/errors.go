// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import "errors"

var (
	ErrEncoding         = errors.New("ballot is not valid percent-encoded UTF-8")
	ErrDecryptionFailed = errors.New("ballot could not be decrypted")
	ErrMalformedPayload = errors.New("decrypted ballot is malformed")
)

// Rejection reasons, stable for logs and outcomes.
const (
	ReasonEncoding         = "encoding"
	ReasonDecryptionFailed = "decryption_failed"
	ReasonMalformedPayload = "malformed_payload"
)

// Reason maps an error returned by Gateway.Open to its rejection reason.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrEncoding):
		return ReasonEncoding
	case errors.Is(err, ErrMalformedPayload):
		return ReasonMalformedPayload
	default:
		return ReasonDecryptionFailed
	}
}

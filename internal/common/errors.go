// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Credential errors. Each of them resolves a session check to
	// Unauthorized; none of them is surfaced to the protected content.
	ErrNoCredential        = errors.New("no stored credential")
	ErrMalformedCredential = errors.New("malformed credential")

	// Refresh errors.
	ErrRefreshRejected  = errors.New("refresh rejected")
	ErrRefreshTransport = errors.New("refresh transport error")

	// ErrSuperseded is returned when a refreshed credential could not be
	// stored because the slot changed while the refresh was in flight.
	ErrSuperseded = errors.New("credential superseded")

	// API errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")
	ErrConflict     = errors.New("already exists")
	ErrBadRequest   = errors.New("bad request")

	// Validation errors raised before any request is sent.
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidPage      = errors.New("invalid page")
)

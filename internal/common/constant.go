// Package common contains shared constants and sentinel errors used across
// the client components.
package common

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// CredentialKey is the slot name under which the access token is stored.
const CredentialKey = "access_token"

// RefreshCookieName is the HTTP-only cookie set by the backend on login.
const RefreshCookieName = "refresh_token"

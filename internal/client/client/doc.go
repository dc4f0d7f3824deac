// Package client contains client-side building blocks for sessionguard.
//
// # Overview
//
// The package provides:
//  1. An API contract (see the Client interface) for the external user
//     backend: Register, Login, Refresh, Logout, ListUsers and Ping.
//  2. A concrete HTTP implementation (see HTTPClient) that keeps the
//     backend's refresh cookie in a cookie jar, tags every request with an
//     X-Request-ID and maps HTTP statuses to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are reported with the sentinels from internal/common and can be
// matched with errors.Is: ErrUnauthorized, ErrUnavailable, ErrConflict and
// ErrBadRequest. Refresh reports ErrRefreshRejected when the backend answered
// without a usable token and ErrRefreshTransport when no answer arrived.
//
// HTTPClient is safe for concurrent use. All operations honor the context.
package client

// Package session decides whether the client holds a valid session.
//
// # Overview
//
// A Guard reads the stored bearer credential, decodes its expiry and
// resolves one of three states:
//
//	Pending ──(no credential / malformed)──────────────> Unauthorized
//	Pending ──(credential not expired)─────────────────> Authorized
//	Pending ──(expired, refresh succeeds)──────────────> Authorized
//	Pending ──(expired, refresh fails or times out)────> Unauthorized
//
// Pending is a placeholder only; protected content must never be shown
// while a check is in progress.
//
// The resolved state lives in a Cell owned by the Guard. Consumers read it
// with Snapshot or observe it with Subscribe; there is no package-level
// state.
//
// # Refresh
//
// Refresh attempts are serialized: concurrent checks of an expired
// credential share one request. The refreshed token is written with a
// compare-and-swap, so a credential stored meanwhile (a new login) wins.
// A refresh is bounded by a timeout and runs detached from the caller's
// cancellation; a caller that goes away simply has its result discarded.
//
// # Gate
//
// Gate binds a consumer to the Guard: the check runs once on Mount and again
// only when the stored credential changes. Unmount cancels the gate and
// discards any result still in flight.
package session

// Package credentials owns the client's persistent credential slot.
//
// A Credential is the bearer access token issued by the backend together
// with the expiry decoded from its JWT payload. The slot itself is a Store;
// three backends are provided:
//
//   - SQLiteStore: the local metadata table (default for the CLI).
//   - RedisStore: a key in Redis, for clients sharing one session.
//   - MemoryStore: process-local, used by tests and the "memory" mode.
//
// All stores implement Swap as a compare-and-swap so a refreshed token
// never overwrites a credential written after the refresh began.
package credentials

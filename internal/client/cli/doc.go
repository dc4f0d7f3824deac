// Package cli provides the interactive sessionguard command-line client.
//
// It wires configuration, the credential store, the API client, the session
// guard and an interactive REPL. Typical flow: mount the prompt's session
// gate, start a background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - A protected user list (users [page]) with expandable rows (details <n>)
//   - Connectivity and session status in the prompt (status)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Gate runs the guard for one consumer of protected content: once on
// mount, then only when the stored credential changes.
type Gate struct {
	guard  *Guard
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	key     string
	checked bool
}

// Mount creates a gate bound to ctx and runs the first check.
func (g *Guard) Mount(ctx context.Context) *Gate {
	ctx, cancel := context.WithCancel(ctx)
	gate := &Gate{guard: g, ctx: ctx, cancel: cancel}
	gate.Sync()
	return gate
}

// Sync re-runs the check if the stored credential differs from the one seen
// by the previous check. It reports whether a check ran. A failing store
// read always triggers a check.
func (gt *Gate) Sync() bool {
	if gt.ctx.Err() != nil {
		return false
	}

	token, err := gt.guard.store.Load(gt.ctx)
	key := credentialKey(token)

	gt.mu.Lock()
	if err == nil && gt.checked && key == gt.key {
		gt.mu.Unlock()
		return false
	}
	gt.key = key
	gt.checked = true
	gt.mu.Unlock()

	gt.guard.Evaluate(gt.ctx)

	// A refresh replaces the credential; that change was made by this check
	// and must not trigger another one.
	if after, err := gt.guard.store.Load(gt.ctx); err == nil {
		gt.mu.Lock()
		gt.key = credentialKey(after)
		gt.mu.Unlock()
	}
	return true
}

// State returns the guard's current state.
func (gt *Gate) State() State {
	return gt.guard.State()
}

// Snapshot returns the guard's current snapshot.
func (gt *Gate) Snapshot() Snapshot {
	return gt.guard.Snapshot()
}

// Unmount cancels the gate. A check still in flight has its result
// discarded; later Sync calls do nothing.
func (gt *Gate) Unmount() {
	gt.cancel()
}

// Done is closed once the gate is unmounted or its parent context ends.
func (gt *Gate) Done() <-chan struct{} {
	return gt.ctx.Done()
}

func credentialKey(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/common"
	"github.com/dmitrijs2005/sessionguard/internal/logging"
	"github.com/dmitrijs2005/sessionguard/internal/timex"
)

// DefaultRefreshTimeout bounds a refresh when no timeout is configured.
const DefaultRefreshTimeout = 10 * time.Second

// refreshKey prefixes the single-flight key; refreshes are shared only by
// checks that loaded the same stale token.
const refreshKey = common.CredentialKey

// Refresher exchanges the current (expired) token for a new one.
type Refresher interface {
	Refresh(ctx context.Context, token string) (string, error)
}

// Option configures a Guard.
type Option func(*Guard)

func WithClock(c timex.Clock) Option {
	return func(g *Guard) { g.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Guard) { g.log = l }
}

// WithRefreshTimeout bounds each refresh; non-positive values keep the default.
func WithRefreshTimeout(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// Guard checks the stored credential and resolves the session state.
// It is safe for concurrent use.
type Guard struct {
	store     credentials.Store
	refresher Refresher
	clock     timex.Clock
	log       logging.Logger
	timeout   time.Duration

	cell  *Cell
	group singleflight.Group
}

func NewGuard(store credentials.Store, refresher Refresher, opts ...Option) *Guard {
	g := &Guard{
		store:     store,
		refresher: refresher,
		clock:     timex.SystemClock{},
		log:       logging.Nop(),
		timeout:   DefaultRefreshTimeout,
		cell:      NewCell(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "session_guard")
	return g
}

// State returns the current session state.
func (g *Guard) State() State {
	return g.cell.Get().State
}

// Snapshot returns the current state with its cause and check time.
func (g *Guard) Snapshot() Snapshot {
	return g.cell.Get()
}

// Subscribe registers fn for state changes. See Cell.Subscribe.
func (g *Guard) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return g.cell.Subscribe(fn)
}

// Evaluate checks the stored credential, refreshing it when expired, and
// resolves the session state. The resolved state is also returned.
//
// If ctx is cancelled before the check completes, the result is discarded,
// the state falls back to the last resolved one and StatePending is returned.
func (g *Guard) Evaluate(ctx context.Context) State {
	if ctx.Err() != nil {
		return StatePending
	}
	gen := g.cell.begin(Snapshot{State: StatePending, CheckedAt: g.clock.Now()})
	snap, live := g.evaluate(ctx)
	return g.resolve(ctx, gen, snap, live)
}

// Refresh exchanges the stored credential for a new one regardless of its
// expiry and resolves the session state from the outcome. Failures are
// absorbed: they resolve StateUnauthorized and leave the store unmodified.
func (g *Guard) Refresh(ctx context.Context) State {
	if ctx.Err() != nil {
		return StatePending
	}
	gen := g.cell.begin(Snapshot{State: StatePending, CheckedAt: g.clock.Now()})

	token, err := g.store.Load(ctx)
	if err != nil {
		return g.resolve(ctx, gen, g.unauthorized(err), true)
	}
	if token == "" {
		return g.resolve(ctx, gen, g.unauthorized(common.ErrNoCredential), true)
	}

	snap, live := g.refresh(ctx, token)
	return g.resolve(ctx, gen, snap, live)
}

func (g *Guard) evaluate(ctx context.Context) (Snapshot, bool) {
	token, err := g.store.Load(ctx)
	if err != nil {
		return g.unauthorized(err), true
	}
	if token == "" {
		return g.unauthorized(common.ErrNoCredential), true
	}

	cred, err := credentials.Decode(token)
	if err != nil {
		return g.unauthorized(err), true
	}

	if !cred.ExpiredAt(g.clock.Now()) {
		return g.authorized(), true
	}

	g.log.Debug(ctx, "credential expired, refreshing", "expired_at", cred.ExpiresAt, "subject", cred.Subject)
	return g.refresh(ctx, token)
}

// refresh runs at most one refresh per stale token. The boolean is false when ctx
// ended before the shared refresh finished.
func (g *Guard) refresh(ctx context.Context, stale string) (Snapshot, bool) {
	ch := g.group.DoChan(refreshKey+":"+stale, func() (any, error) {
		return g.doRefresh(ctx, stale)
	})

	select {
	case res := <-ch:
		if res.Err == nil {
			return g.authorized(), true
		}
		if errors.Is(res.Err, common.ErrSuperseded) {
			g.log.Info(ctx, "credential replaced during refresh, re-checking stored credential")
			return g.recheck(ctx), true
		}
		g.log.Warn(ctx, "credential refresh failed", "error", res.Err, "shared", res.Shared)
		return g.unauthorized(res.Err), true
	case <-ctx.Done():
		return Snapshot{}, false
	}
}

func (g *Guard) doRefresh(ctx context.Context, stale string) (string, error) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	fresh, err := g.refresher.Refresh(rctx, stale)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, common.ErrRefreshTransport) {
			err = fmt.Errorf("%w: %w", common.ErrRefreshTransport, err)
		}
		return "", err
	}
	if fresh == "" {
		return "", fmt.Errorf("%w: response carried no token", common.ErrRefreshRejected)
	}

	swapped, err := g.store.Swap(rctx, stale, fresh)
	if err != nil {
		return "", err
	}
	if !swapped {
		return "", common.ErrSuperseded
	}
	return fresh, nil
}

// recheck evaluates whatever credential is stored now, without refreshing.
func (g *Guard) recheck(ctx context.Context) Snapshot {
	token, err := g.store.Load(ctx)
	if err != nil {
		return g.unauthorized(err)
	}
	if token == "" {
		return g.unauthorized(common.ErrNoCredential)
	}
	cred, err := credentials.Decode(token)
	if err != nil {
		return g.unauthorized(err)
	}
	if cred.ExpiredAt(g.clock.Now()) {
		return g.unauthorized(common.ErrSuperseded)
	}
	return g.authorized()
}

func (g *Guard) resolve(ctx context.Context, gen uint64, snap Snapshot, live bool) State {
	if !live || ctx.Err() != nil {
		g.cell.abandon(gen)
		g.log.Debug(ctx, "session check abandoned, result discarded")
		return StatePending
	}
	if !g.cell.commit(gen, snap) {
		g.log.Debug(ctx, "session check superseded by a newer one", "state", snap.State)
		return snap.State
	}

	if snap.Cause != nil {
		g.log.Info(ctx, "session resolved", "state", snap.State, "cause", snap.Cause)
	} else {
		g.log.Debug(ctx, "session resolved", "state", snap.State)
	}
	return snap.State
}

func (g *Guard) authorized() Snapshot {
	return Snapshot{State: StateAuthorized, CheckedAt: g.clock.Now()}
}

func (g *Guard) unauthorized(cause error) Snapshot {
	return Snapshot{State: StateUnauthorized, Cause: cause, CheckedAt: g.clock.Now()}
}

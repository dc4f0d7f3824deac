package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/timex"
)

var testNow = time.Unix(1_700_000_000, 0)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// fakeRefresher records calls and returns Token/Err. When Block is set, each
// call waits for it to be closed (or for its context to end).
type fakeRefresher struct {
	mu        sync.Mutex
	calls     int
	lastToken string

	Token   string
	Err     error
	Block   chan struct{}
	Started chan struct{}
	// Before runs at the start of every call.
	Before func()
}

func (f *fakeRefresher) Refresh(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastToken = token
	f.mu.Unlock()

	if f.Before != nil {
		f.Before()
	}
	if f.Started != nil {
		select {
		case f.Started <- struct{}{}:
		default:
		}
	}
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.Token, f.Err
}

func (f *fakeRefresher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRefresher) LastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToken
}

// countingStore wraps a MemoryStore and counts writes.
type countingStore struct {
	*credentials.MemoryStore
	mu      sync.Mutex
	writes  int
	LoadErr error
}

func newCountingStore(token string) *countingStore {
	return &countingStore{MemoryStore: credentials.NewMemoryStore(token)}
}

func (s *countingStore) Load(ctx context.Context) (string, error) {
	if s.LoadErr != nil {
		return "", s.LoadErr
	}
	return s.MemoryStore.Load(ctx)
}

func (s *countingStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.MemoryStore.Save(ctx, token)
}

func (s *countingStore) Swap(ctx context.Context, prev, next string) (bool, error) {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.MemoryStore.Swap(ctx, prev, next)
}

func (s *countingStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *countingStore) current(t *testing.T) string {
	t.Helper()
	v, err := s.MemoryStore.Load(context.Background())
	require.NoError(t, err)
	return v
}

func newTestGuard(store credentials.Store, r Refresher, opts ...Option) *Guard {
	opts = append([]Option{WithClock(timex.NewFixedClock(testNow))}, opts...)
	return NewGuard(store, r, opts...)
}

var errBoom = errors.New("boom")

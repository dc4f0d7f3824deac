package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_MountChecksOnce(t *testing.T) {
	store := newCountingStore(mintToken(t, testNow.Add(time.Hour)))
	g := newTestGuard(store, &fakeRefresher{})

	gate := g.Mount(context.Background())
	defer gate.Unmount()

	assert.Equal(t, StateAuthorized, gate.State())
	for i := 0; i < 5; i++ {
		assert.False(t, gate.Sync(), "unchanged credential must not be re-checked")
	}
	assert.Equal(t, StateAuthorized, gate.State())
}

func TestGate_CredentialChangeTriggersCheck(t *testing.T) {
	store := newCountingStore(mintToken(t, testNow.Add(time.Hour)))
	g := newTestGuard(store, &fakeRefresher{})

	gate := g.Mount(context.Background())
	defer gate.Unmount()
	require.Equal(t, StateAuthorized, gate.State())

	require.NoError(t, store.Delete(context.Background()))
	assert.True(t, gate.Sync())
	assert.Equal(t, StateUnauthorized, gate.State())

	require.NoError(t, store.Save(context.Background(), mintToken(t, testNow.Add(2*time.Hour))))
	assert.True(t, gate.Sync())
	assert.Equal(t, StateAuthorized, gate.State())
	assert.False(t, gate.Sync())
}

func TestGate_RefreshDoesNotRetrigger(t *testing.T) {
	store := newCountingStore(mintToken(t, testNow.Add(-time.Minute)))
	ref := &fakeRefresher{Token: mintToken(t, testNow.Add(time.Hour))}
	g := newTestGuard(store, ref)

	gate := g.Mount(context.Background())
	defer gate.Unmount()

	require.Equal(t, StateAuthorized, gate.State())
	assert.False(t, gate.Sync(), "the credential written by the refresh is already accounted for")
	assert.Equal(t, 1, ref.Calls())
}

func TestGate_StoreFailureAlwaysChecks(t *testing.T) {
	store := newCountingStore("")
	g := newTestGuard(store, &fakeRefresher{})

	gate := g.Mount(context.Background())
	defer gate.Unmount()
	require.Equal(t, StateUnauthorized, gate.State())

	store.LoadErr = errBoom
	assert.True(t, gate.Sync())
	assert.True(t, gate.Sync())
	assert.ErrorIs(t, gate.Snapshot().Cause, errBoom)
}

func TestGate_UnmountStopsChecks(t *testing.T) {
	store := newCountingStore(mintToken(t, testNow.Add(time.Hour)))
	g := newTestGuard(store, &fakeRefresher{})

	gate := g.Mount(context.Background())
	require.Equal(t, StateAuthorized, gate.State())
	gate.Unmount()

	select {
	case <-gate.Done():
	default:
		t.Fatal("gate must be done after Unmount")
	}

	require.NoError(t, store.Delete(context.Background()))
	assert.False(t, gate.Sync(), "an unmounted gate must not check")
	assert.Equal(t, StateAuthorized, gate.State())
}

func TestGate_ParentCancelledDuringRefresh(t *testing.T) {
	store := newCountingStore(mintToken(t, testNow.Add(-time.Minute)))
	ref := &fakeRefresher{Token: "T2", Block: make(chan struct{}), Started: make(chan struct{}, 1)}
	g := newTestGuard(store, ref)

	parent, cancel := context.WithCancel(context.Background())
	mounted := make(chan *Gate, 1)
	go func() { mounted <- g.Mount(parent) }()

	<-ref.Started
	cancel()
	gate := <-mounted

	close(ref.Block)
	require.Eventually(t, func() bool { return store.current(t) == "T2" }, time.Second, 5*time.Millisecond)

	assert.Equal(t, StatePending, gate.State(), "result of an unmounted consumer must be discarded")
	assert.False(t, gate.Sync())
}

func TestGate_UnmountedCheckKeepsOtherGatesResolved(t *testing.T) {
	store := newCountingStore(mintToken(t, testNow.Add(-time.Minute)))
	ref := &fakeRefresher{Err: errBoom}
	g := newTestGuard(store, ref)

	prompt := g.Mount(context.Background())
	defer prompt.Unmount()
	require.Equal(t, StateUnauthorized, prompt.State())

	ref.Block = make(chan struct{})
	ref.Started = make(chan struct{}, 1)

	parent, cancel := context.WithCancel(context.Background())
	mounted := make(chan *Gate, 1)
	go func() { mounted <- g.Mount(parent) }()

	<-ref.Started
	require.Equal(t, StatePending, prompt.State())
	cancel()
	<-mounted
	close(ref.Block)

	assert.False(t, prompt.Sync(), "credential is unchanged")
	assert.Equal(t, StateUnauthorized, prompt.State(), "abandoned check must not leave the state pending")
	assert.ErrorIs(t, prompt.Snapshot().Cause, errBoom)
}

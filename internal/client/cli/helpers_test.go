package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sessionguard/internal/client/config"
	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/client/models"
	"github.com/dmitrijs2005/sessionguard/internal/client/session"
	"github.com/dmitrijs2005/sessionguard/internal/logging"
)

var errBoom = errors.New("boom")

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ada@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// captureOutput records printlnFn lines and rendered tables.
type captured struct {
	mu    sync.Mutex
	lines []string
	table strings.Builder
}

func (c *captured) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table.Write(p)
}

func (c *captured) text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "") + c.table.String()
}

func (c *captured) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.table.Reset()
}

func captureOutput(t *testing.T) *captured {
	t.Helper()
	c := &captured{}

	origPrint, origOut := printlnFn, output
	printlnFn = func(a ...any) (int, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.lines = append(c.lines, fmt.Sprintln(a...))
		return 0, nil
	}
	output = c
	t.Cleanup(func() {
		printlnFn = origPrint
		output = origOut
	})
	return c
}

func stubInputs(t *testing.T, text string, passwords ...[]byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	var mu sync.Mutex
	getPassword = func(_ io.Writer) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		pw := append([]byte(nil), passwords[0]...)
		passwords = passwords[1:]
		return pw, nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// ---- fakes ----

type stubRefresher struct {
	mu    sync.Mutex
	token string
	err   error
	delay time.Duration
	calls int
}

func (r *stubRefresher) Refresh(ctx context.Context, _ string) (string, error) {
	r.mu.Lock()
	r.calls++
	d := r.delay
	r.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return r.token, r.err
}

type fakeAuth struct {
	store credentials.Store

	// Login
	loginToken string
	loginErr   error
	loginCalls int
	loginEmail string

	// Register
	regName, regEmail string
	regPass, regConf  []byte
	regErr            error

	// Logout
	logoutCalls int
	logoutErr   error

	pingErr  error
	pingMu   sync.Mutex
	pingHits int
}

func (f *fakeAuth) Login(ctx context.Context, email string, _ []byte) error {
	f.loginCalls++
	f.loginEmail = email
	if f.loginErr != nil {
		return f.loginErr
	}
	return f.store.Save(ctx, f.loginToken)
}

func (f *fakeAuth) Register(_ context.Context, name, email string, password, confirm []byte) error {
	f.regName, f.regEmail = name, email
	f.regPass = append([]byte(nil), password...)
	f.regConf = append([]byte(nil), confirm...)
	return f.regErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	if f.logoutErr != nil {
		return f.logoutErr
	}
	return f.store.Delete(ctx)
}

func (f *fakeAuth) Ping(context.Context) error {
	f.pingMu.Lock()
	defer f.pingMu.Unlock()
	f.pingHits++
	return f.pingErr
}

func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeUsers struct {
	page  *models.UserPage
	err   error
	calls int
	last  int
}

func (f *fakeUsers) List(_ context.Context, page, _ int) (*models.UserPage, error) {
	f.calls++
	f.last = page
	if f.err != nil {
		return nil, f.err
	}
	p := *f.page
	p.Page = page
	return &p, nil
}

func samplePage() *models.UserPage {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 2, 11, 30, 0, 0, time.UTC)
	return &models.UserPage{
		Users: []models.User{
			{Name: "Ada", Email: "ada@example.com", CreatedAt: created, UpdatedAt: updated},
			{Name: "Linus", Email: "linus@example.com", CreatedAt: created, UpdatedAt: updated},
		},
		Results: 2,
		Limit:   10,
	}
}

type testApp struct {
	*App
	store     *credentials.MemoryStore
	auth      *fakeAuth
	users     *fakeUsers
	refresher *stubRefresher
}

func newTestApp(t *testing.T, token string) *testApp {
	t.Helper()

	store := credentials.NewMemoryStore(token)
	refresher := &stubRefresher{token: "T2"}
	auth := &fakeAuth{store: store}
	users := &fakeUsers{page: samplePage()}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CredentialStore = config.StoreMemory

	app := &App{
		config:      cfg,
		log:         logging.Nop(),
		authService: auth,
		userService: users,
		guard:       session.NewGuard(store, refresher, session.WithRefreshTimeout(time.Second)),
		reader:      bufio.NewReader(strings.NewReader("")),
	}
	return &testApp{App: app, store: store, auth: auth, users: users, refresher: refresher}
}

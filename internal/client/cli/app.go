package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionguard/internal/client/client"
	"github.com/dmitrijs2005/sessionguard/internal/client/config"
	"github.com/dmitrijs2005/sessionguard/internal/client/models"
	"github.com/dmitrijs2005/sessionguard/internal/client/services"
	"github.com/dmitrijs2005/sessionguard/internal/client/session"
	"github.com/dmitrijs2005/sessionguard/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single liveness probe of the watcher.
const pingTimeout = 3 * time.Second

type App struct {
	config      *config.Config
	log         logging.Logger
	authService services.AuthService
	userService services.UserService
	guard       *session.Guard
	reader      *bufio.Reader
	closers     []func() error

	mu       sync.Mutex
	mode     Mode
	status   *session.Gate
	lastPage *models.UserPage
	expanded map[int]bool
}

// NewApp wires the credential store, API client, session guard and services
// described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, c)
	if err != nil {
		log.Error(ctx, "error opening credential store", "store", c.CredentialStore, "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerBaseURL, client.WithLogger(log))
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	guard := session.NewGuard(store, apiClient,
		session.WithLogger(log),
		session.WithRefreshTimeout(c.RefreshTimeout),
	)

	a := &App{
		config:      c,
		log:         log,
		authService: services.NewAuthService(apiClient, store, log),
		userService: services.NewUserService(apiClient, store),
		guard:       guard,
		reader:      bufio.NewReader(os.Stdin),
		closers:     []func() error{closeStore},
	}

	unsubscribe := guard.Subscribe(func(s session.Snapshot) {
		a.log.Debug(ctx, "session state changed", "state", s.State, "cause", s.Cause)
	})
	a.closers = append(a.closers, func() error { unsubscribe(); return nil })

	return a, nil
}

// Close releases the API client and the credential store.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.status != nil {
		a.status.Unmount()
		a.status = nil
	}
	a.mu.Unlock()

	var errs []error
	if a.authService != nil {
		errs = append(errs, a.authService.Close(ctx))
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(ctx); err != nil {
			a.log.Warn(ctx, "error closing app", "error", err)
		}
	}()
	a.Root(ctx)
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.guard.State() == session.StateAuthorized
}

// syncStatus re-checks the prompt's session gate. The gate only re-runs the
// guard when the stored credential changed since its last check.
func (a *App) syncStatus() {
	a.mu.Lock()
	g := a.status
	a.mu.Unlock()

	if g != nil {
		g.Sync()
	}
}

// StartOnlineStatusWatcher probes the backend every interval and keeps the
// prompt's session status in step with the credential store until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}
			a.syncStatus()

		case <-ctx.Done():
			return
		}
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sessionguard/internal/client/session"
)

func (a *App) getStatus() string {
	s := ""
	if a.guard != nil {
		s = a.guard.State().String()
	}
	if m := a.currentMode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Status prints connectivity and the last session check.
func (a *App) Status(ctx context.Context) error {
	snap := a.guard.Snapshot()

	mode := a.currentMode()
	if mode == "" {
		mode = "unknown"
	}
	printlnFn("server:", a.config.ServerBaseURL, "("+string(mode)+")")

	line := "session: " + snap.State.String()
	if !snap.CheckedAt.IsZero() {
		line += ", checked " + snap.CheckedAt.Format("15:04:05")
	}
	if snap.Cause != nil {
		line += ", reason: " + snap.Cause.Error()
	}
	printlnFn(line)
	return nil
}

// Root mounts the prompt's session gate, starts the connectivity watcher
// and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to sessionguard CLI (type 'help' for commands)")

	gate := a.guard.Mount(ctx)
	a.mu.Lock()
	a.status = gate
	a.mu.Unlock()

	if gate.State() == session.StateUnauthorized {
		printlnFn("You are not logged in. Use 'login' or 'register'.")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/sessionguard/internal/client/models"
	"github.com/dmitrijs2005/sessionguard/internal/client/session"
	"github.com/dmitrijs2005/sessionguard/internal/common"
)

// loadingDelay is how long a session check may take before a loading line
// is shown.
var loadingDelay = 150 * time.Millisecond

// output is where tables are rendered. Tests swap it for a buffer.
var output io.Writer = os.Stdout

// mountGate runs the session check for a protected view. A check that is
// still pending after loadingDelay prints a loading line first.
func (a *App) mountGate(ctx context.Context) *session.Gate {
	done := make(chan *session.Gate, 1)
	go func() { done <- a.guard.Mount(ctx) }()

	select {
	case g := <-done:
		return g
	case <-time.After(loadingDelay):
		printlnFn("Loading...")
		return <-done
	}
}

// Users shows one page of the user list. It is a protected view: the list is
// fetched only when the session is authorized, and an unauthorized session is
// sent to the login prompt.
func (a *App) Users(ctx context.Context, page int) error {
	gate := a.mountGate(ctx)
	defer gate.Unmount()

	switch snap := gate.Snapshot(); snap.State {
	case session.StatePending:
		printlnFn("Loading...")
		return nil
	case session.StateUnauthorized:
		a.log.Debug(ctx, "redirecting to login", "cause", snap.Cause)
		printlnFn("Please log in to see users.")
		if err := a.Login(ctx); err != nil {
			return err
		}
		if a.guard.Evaluate(ctx) != session.StateAuthorized {
			return nil
		}
	}

	p, err := a.userService.List(ctx, page, 0)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Session rejected by the server, please log in again.")
		case errors.Is(err, common.ErrInvalidPage):
			printlnFn("Invalid page:", page)
		default:
			printlnFn("Could not load users:", err)
		}
		return err
	}

	a.mu.Lock()
	a.lastPage = p
	a.expanded = make(map[int]bool)
	a.mu.Unlock()

	a.renderUsers()
	return nil
}

// Details toggles the detail row of the n-th user (1-based) on the last
// page shown.
func (a *App) Details(ctx context.Context, n int) error {
	if a.guard.State() != session.StateAuthorized {
		printlnFn("Please log in to see users.")
		return nil
	}

	a.mu.Lock()
	p := a.lastPage
	if p == nil {
		a.mu.Unlock()
		printlnFn("Run 'users' first.")
		return nil
	}
	if n < 1 || n > len(p.Users) {
		a.mu.Unlock()
		printlnFn(fmt.Sprintf("No user #%d on this page.", n))
		return nil
	}
	a.expanded[n] = !a.expanded[n]
	a.mu.Unlock()

	a.renderUsers()
	return nil
}

func (a *App) renderUsers() {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.lastPage
	if p == nil {
		return
	}
	if len(p.Users) == 0 {
		printlnFn(fmt.Sprintf("No users on page %d.", p.Page))
		return
	}

	tw := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL")
	for i, u := range p.Users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, u.Name, u.Email)
		if a.expanded[i+1] {
			writeDetails(tw, u)
		}
	}
	_ = tw.Flush()

	fmt.Fprintf(output, "page %d, %d result(s). 'details <n>' expands a row, 'users %d' shows the next page.\n",
		p.Page, p.Results, p.Page+1)
}

func writeDetails(w io.Writer, u models.User) {
	rows := []string{
		"created " + formatTime(u.CreatedAt),
		"updated " + formatTime(u.UpdatedAt),
	}
	fmt.Fprintf(w, "\t\t  %s\n", strings.Join(rows, ", "))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}

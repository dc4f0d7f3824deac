package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/sessionguard/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email, password and its confirmation, then
// creates the account. A mismatched confirmation is reported without
// contacting the backend. Password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	printlnFn("Confirm password")
	confirm, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.authService.Register(ctx, name, email, password, confirm); err != nil {
		switch {
		case errors.Is(err, common.ErrPasswordMismatch):
			printlnFn("Passwords do not match.")
		case errors.Is(err, common.ErrConflict):
			printlnFn("An account with this email already exists.")
		default:
			printlnFn("Registration failed:", err)
		}
		return err
	}

	printlnFn("Registered. You can now log in.")
	return nil
}

// Login prompts for credentials and stores the returned token. The prompt's
// session status is re-checked afterwards.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			printlnFn("Wrong email or password.")
		case errors.Is(err, common.ErrUnavailable):
			printlnFn("Server unavailable, try again later.")
		default:
			printlnFn("Login failed:", err)
		}
		return err
	}

	a.syncStatus()
	printlnFn("Logged in.")
	return nil
}

// Logout drops the stored credential and forgets the cached user list.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}

	a.mu.Lock()
	a.lastPage = nil
	a.expanded = nil
	a.mu.Unlock()

	a.syncStatus()
	printlnFn("Logged out.")
	return nil
}

// Package services contains application services for the sessionguard client.
// This file defines the authentication service: login, register, logout and
// the liveness probe.
package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sessionguard/internal/client/client"
	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/client/models"
	"github.com/dmitrijs2005/sessionguard/internal/common"
	"github.com/dmitrijs2005/sessionguard/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the backend and store the access token.
//   - Register: create a new user; the confirmation must match the password.
//   - Logout: tell the backend (best effort) and drop the stored token.
//   - Ping: check backend liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Register(ctx context.Context, name, email string, password, confirm []byte) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  credentials.Store
	log    logging.Logger
}

func NewAuthService(c client.Client, store credentials.Store, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, store: store, log: log.With("service", "auth")}
}

// Login signs in and overwrites the stored credential with the new token.
func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return fmt.Errorf("%w: email and password are required", common.ErrBadRequest)
	}

	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.store.Save(ctx, token); err != nil {
		return fmt.Errorf("credential saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "email", email)
	return nil
}

// Register creates an account. A confirmation that differs from the
// password is rejected before any request is sent.
func (a *authService) Register(ctx context.Context, name, email string, password, confirm []byte) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || len(password) == 0 {
		return fmt.Errorf("%w: name, email and password are required", common.ErrBadRequest)
	}
	if len(password) != len(confirm) || subtle.ConstantTimeCompare(password, confirm) == 0 {
		return common.ErrPasswordMismatch
	}

	req := models.RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        string(password),
		PasswordConfirm: string(confirm),
	}
	if err := a.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Logout notifies the backend and then removes the local credential. A
// backend failure is logged and does not keep the credential alive.
func (a *authService) Logout(ctx context.Context) error {
	token, err := a.store.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "credential load failed before logout", "error", err)
	}

	if token != "" {
		if err := a.client.Logout(ctx, token); err != nil {
			a.log.Warn(ctx, "backend logout failed", "error", err)
		}
	}

	if err := a.store.Delete(ctx); err != nil {
		return fmt.Errorf("credential removal error: %w", err)
	}
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

package client

import (
	"context"

	"github.com/dmitrijs2005/sessionguard/internal/client/models"
)

// Paging limits accepted by the user listing.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

type Client interface {
	Close() error
	Register(ctx context.Context, req models.RegisterRequest) error
	Login(ctx context.Context, email string, password []byte) (string, error)
	Refresh(ctx context.Context, token string) (string, error)
	Logout(ctx context.Context, token string) error
	ListUsers(ctx context.Context, token string, page, limit int) (*models.UserPage, error)
	Ping(ctx context.Context) error
}

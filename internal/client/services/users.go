package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sessionguard/internal/client/client"
	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/client/models"
)

// UserService reads the protected user listing with the stored credential.
type UserService interface {
	List(ctx context.Context, page, limit int) (*models.UserPage, error)
}

type userService struct {
	client client.Client
	store  credentials.Store
}

func NewUserService(c client.Client, store credentials.Store) UserService {
	return &userService{client: c, store: store}
}

// List fetches one page of users. A zero limit means client.DefaultPageLimit.
func (s *userService) List(ctx context.Context, page, limit int) (*models.UserPage, error) {
	if limit == 0 {
		limit = client.DefaultPageLimit
	}

	token, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("credential load error: %w", err)
	}

	p, err := s.client.ListUsers(ctx, token, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list users error: %w", err)
	}
	return p, nil
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sessionguard/internal/client/client"
	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/client/models"
	"github.com/dmitrijs2005/sessionguard/internal/common"
)

func TestUserService_List_UsesStoredToken(t *testing.T) {
	want := &models.UserPage{Users: []models.User{{Name: "Ada"}}, Results: 1, Page: 3, Limit: 7}
	fc := &fakeClient{ListRet: want}
	svc := NewUserService(fc, credentials.NewMemoryStore("T1"))

	got, err := svc.List(context.Background(), 3, 7)
	require.NoError(t, err)
	require.Same(t, want, got)
	require.Equal(t, "T1", fc.LastListToken)
	require.Equal(t, 3, fc.LastListPage)
	require.Equal(t, 7, fc.LastListLimit)
}

func TestUserService_List_DefaultLimit(t *testing.T) {
	fc := &fakeClient{ListRet: &models.UserPage{}}
	svc := NewUserService(fc, credentials.NewMemoryStore("T1"))

	_, err := svc.List(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Equal(t, client.DefaultPageLimit, fc.LastListLimit)
}

func TestUserService_List_Errors(t *testing.T) {
	ctx := context.Background()

	store := &failingStore{MemoryStore: credentials.NewMemoryStore("T1"), LoadErr: errBoom}
	_, err := NewUserService(&fakeClient{}, store).List(ctx, 1, 10)
	require.ErrorIs(t, err, errBoom)

	_, err = NewUserService(&fakeClient{ListErr: common.ErrUnauthorized}, credentials.NewMemoryStore("T1")).List(ctx, 1, 10)
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

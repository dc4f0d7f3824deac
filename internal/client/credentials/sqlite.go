package credentials

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sessionguard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sessionguard/internal/common"
	"github.com/dmitrijs2005/sessionguard/internal/dbx"
)

// SQLiteStore keeps the credential in the local metadata table under
// common.CredentialKey.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo(s.db).Get(ctx, common.CredentialKey)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return string(v), nil
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	if err := s.repo(s.db).Set(ctx, common.CredentialKey, []byte(token)); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Swap reads and conditionally replaces the slot inside one transaction.
func (s *SQLiteStore) Swap(ctx context.Context, prev, next string) (bool, error) {
	var swapped bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		current, err := repo.Get(ctx, common.CredentialKey)
		if err != nil {
			return err
		}
		if current == nil || string(current) != prev {
			return nil
		}

		swapped, err = repo.Swap(ctx, common.CredentialKey, current, []byte(next))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("swap credential: %w", err)
	}
	return swapped, nil
}

func (s *SQLiteStore) Delete(ctx context.Context) error {
	if err := s.repo(s.db).Delete(ctx, common.CredentialKey); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

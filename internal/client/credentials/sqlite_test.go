package credentials

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContract(t, NewSQLiteStore(setupDB(t)))
}

func TestSQLiteStore_ClosedDBErrors(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := s.Load(ctx)
	require.ErrorContains(t, err, "load credential")

	require.ErrorContains(t, s.Save(ctx, "x"), "save credential")

	_, err = s.Swap(ctx, "a", "b")
	require.ErrorContains(t, err, "swap credential")

	require.ErrorContains(t, s.Delete(ctx), "delete credential")
}

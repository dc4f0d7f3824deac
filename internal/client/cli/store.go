package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/sessionguard/internal/client/client"
	"github.com/dmitrijs2005/sessionguard/internal/client/config"
	"github.com/dmitrijs2005/sessionguard/internal/client/credentials"
	"github.com/dmitrijs2005/sessionguard/internal/filex"
)

// openStore builds the credential store selected by the config. The returned
// func releases whatever the store holds open.
func openStore(ctx context.Context, c *config.Config) (credentials.Store, func() error, error) {
	switch c.CredentialStore {
	case config.StoreSQLite:
		path, err := filex.EnsureParentDir(c.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		db, err := client.InitDatabase(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return credentials.NewSQLiteStore(db), db.Close, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", c.RedisAddr, err)
		}
		return credentials.NewRedisStore(rdb, c.RedisKey), rdb.Close, nil

	case config.StoreMemory:
		return credentials.NewMemoryStore(""), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown credential store %q", c.CredentialStore)
	}
}

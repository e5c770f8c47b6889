package app

import (
	"context"
	"fmt"

	"github.com/userhub/userhub/internal/platform/db"
	"github.com/userhub/userhub/internal/users"
)

// OpenUserStore connects the user repository selected by cfg.StoreDriver and
// applies the schema. The returned func releases the connection.
func OpenUserStore(ctx context.Context, cfg *Config) (users.Repository, func(), error) {
	switch cfg.StoreDriver {
	case StoreSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return users.NewSQLRepository(conn), func() { _ = conn.Close() }, nil
	case StorePostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return users.NewRepository(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("app: unknown store driver %q", cfg.StoreDriver)
	}
}

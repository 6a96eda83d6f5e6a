// Package adapter selects the partner store backend from configuration.
package adapter

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"supportraise/internal/adapter/dynamo"
	"supportraise/internal/adapter/repo"
	"supportraise/internal/domain"
	"supportraise/internal/infra"
	"supportraise/migrations"
)

// OpenOptions tunes OpenStore.
type OpenOptions struct {
	// Migrate applies the SQL migrations before returning a postgres store.
	Migrate bool
}

// OpenStore connects the backend named by cfg.StoreBackend. The returned
// close func releases the underlying connections.
func OpenStore(ctx context.Context, cfg *infra.Config, logger infra.Logger, opts OpenOptions) (domain.PartnerStore, func(), error) {
	switch cfg.StoreBackend {
	case infra.BackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if opts.Migrate {
			var fsys fs.FS = migrations.FS
			if info, statErr := os.Stat(cfg.MigrationsDir); statErr == nil && info.IsDir() {
				fsys = os.DirFS(cfg.MigrationsDir)
			}
			if err := infra.ApplyMigrations(ctx, pool, fsys, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return repo.NewStore(infra.NewSQLRunner(pool, logger)), pool.Close, nil
	case infra.BackendDynamoDB:
		client, err := infra.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect dynamodb: %w", err)
		}
		return dynamo.NewStore(client, cfg.DynamoDBTable), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

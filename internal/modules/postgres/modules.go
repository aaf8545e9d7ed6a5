package postgres

import (
	"context"
	"fmt"

	"alert_bot/internal/modules/config"
	"alert_bot/pkg/db"

	"go.uber.org/fx"
)

// Module поднимает pgx-пул для стора событий. Если DSN не задан,
// отдаём nil-менеджер — бот работает чисто in-memory.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					return nil, nil
				}
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					return nil, err
				}

				return db.NewPgTxManager(poolMaster), nil
			},
		),
	)
}

package registry

import (
	"context"

	"alert_bot/internal/modules/config"
	enginesvc "alert_bot/internal/modules/engine/service"
	"alert_bot/internal/modules/registry/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(
			service.NewStore,
			// адаптер: *service.Store -> enginesvc.RuleRegistry
			func(s *service.Store) enginesvc.RuleRegistry {
				return s
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, store *service.Store, cfg *config.Config) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return store.Seed(ctx, cfg)
				},
			})
		}),
	)
}

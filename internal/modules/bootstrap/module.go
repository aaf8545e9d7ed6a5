package bootstrap

import (
	"context"

	bootstrap "alert_bot/internal/modules/bootstrap/service"
	"alert_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewWarmuper, // -> *bootstrap.Warmuper
		),
		fx.Invoke(func(lc fx.Lifecycle, wu *bootstrap.Warmuper, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						if err := wu.Warmup(ctx); err != nil {
							logger.Error("warmup: %v", err)
							return
						}
						logger.Info("warmup done")
					}()
					return nil
				},
			})
		}),
	)
}

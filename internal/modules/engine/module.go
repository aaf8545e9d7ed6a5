package engine

import (
	"context"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/engine/service"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("engine",
		fx.Provide(
			service.NewBuffers,
			service.NewCooldownGate,
			service.NewEvaluator,
			func(
				cfg *config.Config,
				buffers *service.Buffers,
				eval *service.Evaluator,
				events service.EventStore,
				n service.AlertNotifier,
				state *healthsvc.State,
			) *service.Pipeline {
				return service.NewPipeline(cfg.BufferCapacity, buffers, eval, events, n, state)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			p *service.Pipeline,
			candles <-chan models.Candle,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						logger.Info("engine loop started")
						for {
							select {
							case <-ctx.Done():
								logger.Info("engine loop stopped")
								return
							case c, ok := <-candles:
								if !ok {
									logger.Info("candle channel closed")
									return
								}
								p.OnCandle(ctx, c)
							}
						}
					}()
					return nil
				},
				OnStop: func(_ context.Context) error {
					// не рвём начатые диспатчи, просто ждём
					p.Drain()
					return nil
				},
			})
		}),
	)
}

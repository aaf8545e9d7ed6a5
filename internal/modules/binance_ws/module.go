package binance_ws

import (
	"context"
	"time"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/binance_ws/service"
	"alert_bot/internal/modules/config"
	registrysvc "alert_bot/internal/modules/registry/service"
	"alert_bot/pkg/logger"

	"github.com/go-co-op/gocron"
	"go.uber.org/fx"
)

func newCandleChan() chan models.Candle {
	// общий буфер для свечей со всех стримов
	return make(chan models.Candle, 1024)
}
func asSendOnlyCandles(ch chan models.Candle) chan<- models.Candle { return ch }
func asRecvOnlyCandles(ch chan models.Candle) <-chan models.Candle { return ch }

// Module поднимает kline-стример Binance и периодическую сверку подписок.
func Module() fx.Option {
	return fx.Module("binance_ws",
		fx.Provide(
			newCandleChan,
			asSendOnlyCandles,
			asRecvOnlyCandles,
			service.NewClient, // *service.Client
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			c *service.Client,
			store *registrysvc.Store,
			cfg *config.Config,
			ctx context.Context,
		) {
			sched := gocron.NewScheduler(time.UTC)

			reconcile := func() {
				keys, err := store.RequiredStreamKeys(ctx)
				if err != nil {
					logger.Error("reconcile: required keys: %v", err)
					return
				}
				c.Reconcile(ctx, keys)
			}

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					// первый проход сразу, дальше — по расписанию
					go reconcile()

					if _, err := sched.Every(cfg.ReconcileInterval).Do(reconcile); err != nil {
						return err
					}
					sched.StartAsync()
					return nil
				},
				OnStop: func(_ context.Context) error {
					sched.Stop()
					return nil
				},
			})
		}),
	)
}

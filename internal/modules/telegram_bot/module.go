package telegram

import (
	"context"
	"time"

	binancesvc "alert_bot/internal/modules/binance_ws/service"
	"alert_bot/internal/modules/config"
	enginesvc "alert_bot/internal/modules/engine/service"
	"alert_bot/internal/modules/telegram_bot/service"

	"github.com/go-co-op/gocron"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			service.NewTelegram, // func(*config.Config, *healthsvc.State) (*service.Telegram, error)
		),

		// адаптеры: *service.Telegram -> интерфейсы движка и стримера
		fx.Provide(
			func(t *service.Telegram) enginesvc.AlertNotifier {
				return t
			},
			func(t *service.Telegram) binancesvc.ServiceNotifier {
				return t
			},
		),

		// основной цикл апдейтов + периодический health-отчёт в сервисный чат
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram, cfg *config.Config, ctx context.Context) {
				sched := gocron.NewScheduler(time.UTC)

				lc.Append(fx.Hook{
					OnStart: func(_ context.Context) error {
						t.Start(ctx)
						t.SendService(ctx, "🚀 Alert bot запущен")

						if cfg.HealthReportInterval > 0 {
							if _, err := sched.Every(cfg.HealthReportInterval).Do(func() {
								t.SendService(ctx, "🩺 %s", t.StatusText())
							}); err != nil {
								return err
							}
							sched.StartAsync()
						}
						return nil
					},
					OnStop: func(_ context.Context) error {
						sched.Stop()
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}

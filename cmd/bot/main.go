package main

import (
	"context"
	"log"

	"alert_bot/internal/modules/binance_ws"
	"alert_bot/internal/modules/bootstrap"
	"alert_bot/internal/modules/config"
	"alert_bot/internal/modules/engine"
	"alert_bot/internal/modules/health"
	"alert_bot/internal/modules/postgres"
	"alert_bot/internal/modules/registry"
	"alert_bot/internal/modules/store"
	"alert_bot/pkg/logger"
	"alert_bot/pkg/tracing"

	telegram "alert_bot/internal/modules/telegram_bot"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func main() {
	// .env не обязателен — в проде всё приходит из окружения
	_ = godotenv.Load()

	logger.SetServiceName("alert_bot")
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		health.Module(),
		registry.Module(),
		store.Module(),
		binance_ws.Module(),
		engine.Module(),
		telegram.Module(),
		bootstrap.Module(),

		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if !cfg.Jaeger.Enabled {
				return nil
			}
			tracing.SetServiceName("alert_bot")
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}

package store

import (
	enginesvc "alert_bot/internal/modules/engine/service"
	"alert_bot/internal/modules/store/pg"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("store",
		fx.Provide(
			pg.NewEvents,
			// адаптер: *pg.Events -> enginesvc.EventStore
			func(e *pg.Events) enginesvc.EventStore {
				return e
			},
		),
	)
}

package pg

import (
	"context"
	"fmt"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/store/pg/events/sql"
	"alert_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// Events — append-only стор сработок и логов доставки.
// Без DSN (db == nil) превращается в no-op: бот живёт чисто в памяти.
type Events struct {
	db  *db.PgTxManager
	sql *sql.Queries
}

// NewEvents instance
func NewEvents(m *db.PgTxManager) *Events {
	return &Events{
		db:  m,
		sql: sql.New(),
	}
}

// AppendAlertEvent in db
func (e *Events) AppendAlertEvent(
	ctx context.Context,
	event *models.AlertEvent,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.AppendAlertEvent: %w", err)
		}
	}()

	if e.db == nil {
		return nil
	}

	var payload []byte
	payload, err = sonic.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return e.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return e.sql.InsertAlertEvent(ctxTx, tx, &sql.InsertAlertEventParams{
				ID:          event.ID,
				RuleID:      event.RuleID,
				UserID:      event.UserID,
				Symbol:      event.Symbol,
				RuleType:    string(event.Type),
				Payload:     payload,
				TriggeredAt: event.TriggeredAt,
			})
		})
}

// AppendNotificationLog in db
func (e *Events) AppendNotificationLog(
	ctx context.Context,
	entry *models.NotificationLog,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.AppendNotificationLog: %w", err)
		}
	}()

	if e.db == nil {
		return nil
	}

	return e.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			return e.sql.InsertNotificationLog(ctxTx, tx, &sql.InsertNotificationLogParams{
				AlertID:   entry.AlertID,
				UserID:    entry.UserID,
				Status:    string(entry.Status),
				Error:     entry.Error,
				CreatedAt: entry.CreatedAt,
			})
		})
}

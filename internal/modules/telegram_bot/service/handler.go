package service

import (
	"context"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) handleUpdate(ctx context.Context, upd tgbot.Update) {
	if upd.Message == nil || !upd.Message.IsCommand() {
		return
	}

	chatID := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		_, _ = t.Send(ctx, chatID,
			"👋 Бот алертов запущен. /status — текущее состояние движка.")
	case "status":
		_, _ = t.Send(ctx, chatID, t.StatusText())
	}
}

// StatusText — сводка движка и для /status, и для health-отчёта.
func (t *Telegram) StatusText() string {
	last := "—"
	if lc := t.state.LastCandle(); !lc.IsZero() {
		last = lc.UTC().Format(time.RFC3339)
	}
	return formatStatus(
		t.state.Ready(),
		t.state.ActiveStreams(),
		t.state.AlertsFired(),
		t.state.SendFailed(),
		t.state.MissingUsers(),
		int64(t.state.Uptime().Seconds()),
		last,
	)
}

package service

import (
	"context"
	"fmt"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram — канал доставки алертов + пара сервисных команд.
type Telegram struct {
	bot   *tgbot.BotAPI
	cfg   *config.Config
	state *healthsvc.State
}

func NewTelegram(cfg *config.Config, state *healthsvc.State) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:   b,
		cfg:   cfg,
		state: state,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.bot.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

// SendService — сообщение в сервисный чат (статусы, ворнинги).
// Ошибку глотаем: сервисный канал не должен влиять на доставку алертов.
func (t *Telegram) SendService(ctx context.Context, format string, args ...any) {
	if t == nil || t.cfg.Telegram.ServiceChatID == 0 {
		return
	}
	if _, err := t.SendF(ctx, t.cfg.Telegram.ServiceChatID, format, args...); err != nil {
		logger.Error("send service message: %v", err)
	}
}

// DispatchAlert — одна попытка доставки. Ошибка уходит наверх,
// в NotificationLog; ретраев на этом уровне нет.
func (t *Telegram) DispatchAlert(ctx context.Context, alert *models.TriggeredAlert) error {
	_, err := t.Send(ctx, alert.User.ChatID, FormatAlert(alert))
	return err
}

func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(ctx, upd)
			}
		}
	}()
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}

package service

import (
	"context"

	"alert_bot/internal/models"
)

// Reconcile сверяет требуемый набор ключей с активными соединениями
// и открывает недостающие. Идемпотентен: повторный вызов с тем же набором
// ничего не делает. Соединения, которые больше не нужны, не закрываем —
// лишний стрим дешевле гонки с правилами, которые вот-вот вернут ключ.
func (c *Client) Reconcile(ctx context.Context, required []models.StreamKey) {
	c.mu.Lock()
	missing := make([]models.StreamKey, 0, len(required))
	for _, key := range required {
		if _, ok := c.conns[key]; !ok {
			missing = append(missing, key)
		}
	}
	c.mu.Unlock()

	for _, key := range missing {
		// ошибка dial не валит проход: ключ останется недостающим
		// и будет подхвачен следующей сверкой
		_ = c.subscribe(ctx, key)
	}
}

package models

// User — владелец правил. ChatID — куда слать алерты в Telegram.
type User struct {
	ID     int64  `json:"id"`
	ChatID int64  `json:"chat_id"`
	Name   string `json:"name"`
}

package models

// TriggeredAlert живёт один цикл "оценка -> диспатч": из него собираются
// AlertEvent (персист) и NotificationLog (по одной на попытку отправки).
type TriggeredAlert struct {
	ID          string `json:"id"`
	Rule        *AlertRule
	User        *User
	Payload     AlertPayload `json:"payload"`
	TriggeredAt int64        `json:"triggered_at"` // epoch millis
}

// AlertPayload — снапшот входов, по которым правило сработало.
// Заполнен ровно один указатель, по типу правила.
type AlertPayload struct {
	ExtremeMove *ExtremeMovePayload `json:"extreme_move,omitempty"`
	Breakout    *BreakoutPayload    `json:"breakout,omitempty"`
	VolumeSpike *VolumeSpikePayload `json:"volume_spike,omitempty"`
}

type ExtremeMovePayload struct {
	Symbol        string  `json:"symbol"`
	WindowMin     int64   `json:"window_min"`
	PrevClose     float64 `json:"prev_close"`
	Close         float64 `json:"close"`
	ChangePct     float64 `json:"change_pct"`
	ThresholdPct  float64 `json:"threshold_pct"`
	PrevCloseTime int64   `json:"prev_close_time"`
}

type BreakoutPayload struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Lookback  int       `json:"lookback"`
	Close     float64   `json:"close"`
	Highest   float64   `json:"highest"`
	Lowest    float64   `json:"lowest"`
	Direction Direction `json:"direction"` // разрешённое направление пробоя: UP или DOWN
}

type VolumeSpikePayload struct {
	Symbol     string  `json:"symbol"`
	Timeframe  string  `json:"timeframe"`
	Lookback   int     `json:"lookback"`
	Volume     float64 `json:"volume"`
	AvgVolume  float64 `json:"avg_volume"`
	Multiplier float64 `json:"multiplier"`
}

// AlertEvent — запись о сработке, уходит во внешний стор.
type AlertEvent struct {
	ID          string       `json:"id"`
	RuleID      int64        `json:"rule_id"`
	UserID      int64        `json:"user_id"`
	Symbol      string       `json:"symbol"`
	Type        RuleType     `json:"type"`
	Payload     AlertPayload `json:"payload"`
	TriggeredAt int64        `json:"triggered_at"`
}

type NotificationStatus string

const (
	NotificationSent   NotificationStatus = "SENT"
	NotificationFailed NotificationStatus = "FAILED"
)

// NotificationLog — исход одной попытки доставки алерта.
type NotificationLog struct {
	AlertID   string             `json:"alert_id"`
	UserID    int64              `json:"user_id"`
	Status    NotificationStatus `json:"status"`
	Error     string             `json:"error,omitempty"`
	CreatedAt int64              `json:"created_at"`
}

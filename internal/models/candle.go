package models

// Candle — одна закрытая (или ещё идущая) свеча по символу и таймфрейму.
// Времена в epoch millis, как отдаёт биржа.
type Candle struct {
	Symbol    string  `json:"symbol"`
	Timeframe string  `json:"timeframe"`
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Final     bool    `json:"final"` // свеча закрыта; только такие идут в оценку
}

// StreamKey — ключ подписки/буфера: символ + таймфрейм.
type StreamKey struct {
	Symbol    string
	Timeframe string
}

func (k StreamKey) String() string { return k.Symbol + "@" + k.Timeframe }

func (c Candle) Key() StreamKey {
	return StreamKey{Symbol: c.Symbol, Timeframe: c.Timeframe}
}

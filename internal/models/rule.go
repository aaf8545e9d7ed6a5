package models

import "alert_bot/internal/helper"

type RuleType string

const (
	RuleExtremeMove RuleType = "EXTREME_MOVE"
	RuleBreakout    RuleType = "BREAKOUT"
	RuleVolumeSpike RuleType = "VOLUME_SPIKE"
)

// Direction — направление условия: вверх, вниз или любое.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	DirectionBoth Direction = "BOTH"
)

func (d Direction) WantsUp() bool   { return d == DirectionUp || d == DirectionBoth }
func (d Direction) WantsDown() bool { return d == DirectionDown || d == DirectionBoth }

// AlertRule — пользовательское условие алерта. Движок правила не мутирует,
// cooldown-таймстемп живёт отдельно (см. engine/service/cooldown.go).
type AlertRule struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	Symbol    string   `json:"symbol"`
	Type      RuleType `json:"type"`
	Timeframe string   `json:"timeframe"` // обязателен для BREAKOUT/VOLUME_SPIKE, игнорируется EXTREME_MOVE

	Params      RuleParams `json:"params"`
	Enabled     bool       `json:"enabled"`
	CooldownSec int64      `json:"cooldown_sec"`
}

// RuleParams — закрытый вариант: заполнен ровно один указатель, по Type.
type RuleParams struct {
	ExtremeMove *ExtremeMoveParams `json:"extreme_move,omitempty"`
	Breakout    *BreakoutParams    `json:"breakout,omitempty"`
	VolumeSpike *VolumeSpikeParams `json:"volume_spike,omitempty"`
}

type ExtremeMoveParams struct {
	WindowMin int64     `json:"window_min"`
	Percent   float64   `json:"percent"`
	Direction Direction `json:"direction"`
}

type BreakoutParams struct {
	Lookback  int       `json:"lookback"`
	Direction Direction `json:"direction"`
}

type VolumeSpikeParams struct {
	Lookback   int     `json:"lookback"`
	Multiplier float64 `json:"multiplier"`
}

// StreamKey — какой (symbol, timeframe) нужен правилу.
// EXTREME_MOVE всегда смотрит минутную серию, своё поле Timeframe не читает.
func (r *AlertRule) StreamKey() StreamKey {
	if r.Type == RuleExtremeMove {
		return StreamKey{Symbol: r.Symbol, Timeframe: helper.TF1m}
	}
	tf := helper.NormTF(r.Timeframe)
	if tf == "" {
		tf = helper.TF1m
	}
	return StreamKey{Symbol: r.Symbol, Timeframe: tf}
}

func (r *AlertRule) CooldownMs() int64 { return r.CooldownSec * 1000 }

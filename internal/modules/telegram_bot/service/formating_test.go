package service

import (
	"os"
	"testing"

	"alert_bot/internal/models"
	"alert_bot/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestFormatAlertExtremeMove(t *testing.T) {
	msg := FormatAlert(&models.TriggeredAlert{
		Rule: &models.AlertRule{ID: 1, Symbol: "BTCUSDT"},
		Payload: models.AlertPayload{ExtremeMove: &models.ExtremeMovePayload{
			Symbol: "BTCUSDT", WindowMin: 5,
			PrevClose: 100, Close: 103, ChangePct: 3, ThresholdPct: 2,
		}},
	})
	assert.Contains(t, msg, "BTCUSDT")
	assert.Contains(t, msg, "+3.00%")
	assert.Contains(t, msg, "📈")

	down := FormatAlert(&models.TriggeredAlert{
		Rule: &models.AlertRule{ID: 1, Symbol: "BTCUSDT"},
		Payload: models.AlertPayload{ExtremeMove: &models.ExtremeMovePayload{
			Symbol: "BTCUSDT", WindowMin: 5,
			PrevClose: 100, Close: 97, ChangePct: -3, ThresholdPct: 2,
		}},
	})
	assert.Contains(t, down, "📉")
	assert.Contains(t, down, "-3.00%")
}

func TestFormatAlertBreakoutDirections(t *testing.T) {
	up := FormatAlert(&models.TriggeredAlert{
		Rule: &models.AlertRule{ID: 2, Symbol: "BTCUSDT"},
		Payload: models.AlertPayload{Breakout: &models.BreakoutPayload{
			Symbol: "BTCUSDT", Timeframe: "15m", Lookback: 20,
			Close: 110, Highest: 105, Lowest: 95, Direction: models.DirectionUp,
		}},
	})
	assert.Contains(t, up, "🚀")
	assert.Contains(t, up, "max(high[20])")

	down := FormatAlert(&models.TriggeredAlert{
		Rule: &models.AlertRule{ID: 2, Symbol: "BTCUSDT"},
		Payload: models.AlertPayload{Breakout: &models.BreakoutPayload{
			Symbol: "BTCUSDT", Timeframe: "15m", Lookback: 20,
			Close: 90, Highest: 105, Lowest: 95, Direction: models.DirectionDown,
		}},
	})
	assert.Contains(t, down, "🔻")
	assert.Contains(t, down, "min(low[20])")
}

func TestFormatAlertVolumeSpike(t *testing.T) {
	msg := FormatAlert(&models.TriggeredAlert{
		Rule: &models.AlertRule{ID: 3, Symbol: "ETHUSDT"},
		Payload: models.AlertPayload{VolumeSpike: &models.VolumeSpikePayload{
			Symbol: "ETHUSDT", Timeframe: "5m", Lookback: 30,
			Volume: 90, AvgVolume: 30, Multiplier: 3,
		}},
	})
	assert.Contains(t, msg, "🔊")
	assert.Contains(t, msg, "ETHUSDT")
	assert.Contains(t, msg, "x3.0")
}

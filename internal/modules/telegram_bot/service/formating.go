package service

import (
	"fmt"

	"alert_bot/internal/models"
)

// FormatAlert — текст алерта для чата владельца правила.
func FormatAlert(alert *models.TriggeredAlert) string {
	switch {
	case alert.Payload.ExtremeMove != nil:
		p := alert.Payload.ExtremeMove
		arrow := "📈"
		if p.ChangePct < 0 {
			arrow = "📉"
		}
		return fmt.Sprintf(
			"%s [%s] EXTREME MOVE %+.2f%% за %dм\nбыло %.6f → стало %.6f (порог %.2f%%)",
			arrow, p.Symbol, p.ChangePct, p.WindowMin, p.PrevClose, p.Close, p.ThresholdPct,
		)

	case alert.Payload.Breakout != nil:
		p := alert.Payload.Breakout
		if p.Direction == models.DirectionUp {
			return fmt.Sprintf(
				"🚀 [%s %s] BREAKOUT вверх: close %.6f > max(high[%d]) %.6f",
				p.Symbol, p.Timeframe, p.Close, p.Lookback, p.Highest,
			)
		}
		return fmt.Sprintf(
			"🔻 [%s %s] BREAKOUT вниз: close %.6f < min(low[%d]) %.6f",
			p.Symbol, p.Timeframe, p.Close, p.Lookback, p.Lowest,
		)

	case alert.Payload.VolumeSpike != nil:
		p := alert.Payload.VolumeSpike
		return fmt.Sprintf(
			"🔊 [%s %s] VOLUME SPIKE: %.2f против среднего %.2f (x%.1f за %d свечей)",
			p.Symbol, p.Timeframe, p.Volume, p.AvgVolume, p.Multiplier, p.Lookback,
		)
	}

	return fmt.Sprintf("🔔 [%s] алерт по правилу %d", alert.Rule.Symbol, alert.Rule.ID)
}

func formatStatus(ready bool, streams, fired, failed, missing, uptimeSec int64, lastCandle string) string {
	mark := "🟡"
	if ready {
		mark = "🟢"
	}
	return fmt.Sprintf(
		"%s ENGINE | streams=%d | alerts=%d | sendFailed=%d | missingUsers=%d\nuptime=%ds | last candle: %s",
		mark, streams, fired, failed, missing, uptimeSec, lastCandle,
	)
}

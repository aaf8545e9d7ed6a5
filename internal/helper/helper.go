package helper

import "strings"

// TF1m — минутная серия; EXTREME_MOVE всегда оценивается по ней.
const TF1m = "1m"

func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "kline_")
	switch s {
	case "60m", "1h":
		return "1h"
	case "240m", "4h":
		return "4h"
	case "24h", "1d":
		return "1d"
	default:
		return s
	}
}

// KlineStream — имя стрима Binance: "btcusdt@kline_1m".
func KlineStream(symbol, tf string) string {
	return strings.ToLower(symbol) + "@kline_" + NormTF(tf)
}

package service

import (
	"fmt"
	"strconv"

	"alert_bot/internal/helper"
	"alert_bot/internal/models"

	"github.com/bytedance/sonic"
)

// Кадр kline-стрима Binance:
//
//	{"e":"kline","E":...,"s":"BTCUSDT","k":{"t":...,"T":...,"s":"BTCUSDT",
//	 "i":"1m","o":"...","c":"...","h":"...","l":"...","v":"...","x":true,...}}
type klineEvent struct {
	Event  string     `json:"e" validate:"required,eq=kline"`
	Symbol string     `json:"s" validate:"required"`
	Kline  klineFrame `json:"k"`
}

type klineFrame struct {
	OpenTime  int64  `json:"t" validate:"required,gt=0"`
	CloseTime int64  `json:"T" validate:"required,gt=0"`
	Symbol    string `json:"s" validate:"required"`
	Interval  string `json:"i" validate:"required"`
	Open      string `json:"o" validate:"required,numeric"`
	Close     string `json:"c" validate:"required,numeric"`
	High      string `json:"h" validate:"required,numeric"`
	Low       string `json:"l" validate:"required,numeric"`
	Volume    string `json:"v" validate:"required,numeric"`
	Final     bool   `json:"x"`
}

// parseKline превращает сырой кадр в Candle. Любой не-kline или битый
// кадр — ошибка; вызывающий дропает и живёт дальше.
func (c *Client) parseKline(msg []byte) (models.Candle, error) {
	var ev klineEvent
	if err := sonic.Unmarshal(msg, &ev); err != nil {
		return models.Candle{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := c.validate.Struct(&ev); err != nil {
		return models.Candle{}, fmt.Errorf("validate: %w", err)
	}

	k := ev.Kline
	open, err1 := strconv.ParseFloat(k.Open, 64)
	high, err2 := strconv.ParseFloat(k.High, 64)
	low, err3 := strconv.ParseFloat(k.Low, 64)
	closep, err4 := strconv.ParseFloat(k.Close, 64)
	vol, err5 := strconv.ParseFloat(k.Volume, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return models.Candle{}, fmt.Errorf("parse ohlcv: bad decimal")
	}
	if closep <= 0 {
		return models.Candle{}, fmt.Errorf("parse ohlcv: close <= 0")
	}

	return models.Candle{
		Symbol:    k.Symbol,
		Timeframe: helper.NormTF(k.Interval),
		OpenTime:  k.OpenTime,
		CloseTime: k.CloseTime,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closep,
		Volume:    vol,
		Final:     k.Final,
	}, nil
}

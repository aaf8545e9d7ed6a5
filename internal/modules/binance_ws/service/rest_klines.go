package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"alert_bot/internal/helper"
	"alert_bot/internal/models"

	"github.com/bytedance/sonic"
)

// GetCandles тянет историю по REST для прогрева буферов.
// Строки ответа Binance: [openTime, o, h, l, c, v, closeTime, ...] —
// числа как float64, цены/объёмы как строки. Битые строки пропускаем.
func (c *Client) GetCandles(ctx context.Context, symbol, timeframe string, limit int) (out []models.Candle, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("binance.GetCandles %s %s: %w", symbol, timeframe, err)
		}
	}()

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", helper.NormTF(timeframe))
	q.Set("limit", strconv.Itoa(limit))
	reqURL := c.cfg.Feed.RESTURL + "/api/v3/klines?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rows [][]any
	if err = sonic.Unmarshal(body, &rows); err != nil {
		return nil, err
	}

	nowMs := time.Now().UnixMilli()
	out = make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		openTime, ok1 := asInt64(row[0])
		closeTime, ok2 := asInt64(row[6])
		open, ok3 := asFloat(row[1])
		high, ok4 := asFloat(row[2])
		low, ok5 := asFloat(row[3])
		closep, ok6 := asFloat(row[4])
		vol, ok7 := asFloat(row[5])
		if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) || closep <= 0 {
			continue
		}

		out = append(out, models.Candle{
			Symbol:    symbol,
			Timeframe: helper.NormTF(timeframe),
			OpenTime:  openTime,
			CloseTime: closeTime,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closep,
			Volume:    vol,
			// последняя строка у Binance — ещё идущая свеча
			Final: closeTime <= nowMs,
		})
	}
	return out, nil
}

func asInt64(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

func asFloat(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

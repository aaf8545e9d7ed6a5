package service

import (
	"os"
	"testing"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestClient(out chan<- models.Candle) *Client {
	cfg := &config.Config{}
	cfg.Feed.WSURL = "wss://stream.test"
	return NewClient(cfg, nil, out, healthsvc.NewState())
}

const finalKlineFrame = `{
	"e":"kline","E":1700000060000,"s":"BTCUSDT",
	"k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m",
	     "o":"42000.10","c":"42100.50","h":"42150.00","l":"41990.00",
	     "v":"12.345","x":true}}`

func TestParseKlineFinal(t *testing.T) {
	c := newTestClient(nil)

	candle, err := c.parseKline([]byte(finalKlineFrame))
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", candle.Symbol)
	assert.Equal(t, "1m", candle.Timeframe)
	assert.Equal(t, int64(1700000000000), candle.OpenTime)
	assert.Equal(t, int64(1700000059999), candle.CloseTime)
	assert.Equal(t, 42000.10, candle.Open)
	assert.Equal(t, 42100.50, candle.Close)
	assert.Equal(t, 42150.00, candle.High)
	assert.Equal(t, 41990.00, candle.Low)
	assert.Equal(t, 12.345, candle.Volume)
	assert.True(t, candle.Final)
}

func TestParseKlinePartial(t *testing.T) {
	c := newTestClient(nil)

	frame := `{"e":"kline","s":"BTCUSDT",
		"k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m",
		     "o":"100","c":"101","h":"102","l":"99","v":"1","x":false}}`
	candle, err := c.parseKline([]byte(frame))
	require.NoError(t, err)
	assert.False(t, candle.Final)
}

func TestParseKlineRejectsGarbage(t *testing.T) {
	c := newTestClient(nil)

	cases := []struct {
		name  string
		frame string
	}{
		{"not json", `{"e":"kline",`},
		{"wrong event type", `{"e":"trade","s":"BTCUSDT","k":{}}`},
		{"price not numeric", `{"e":"kline","s":"BTCUSDT",
			"k":{"t":1,"T":2,"s":"BTCUSDT","i":"1m",
			     "o":"abc","c":"101","h":"102","l":"99","v":"1","x":true}}`},
		{"missing volume", `{"e":"kline","s":"BTCUSDT",
			"k":{"t":1,"T":2,"s":"BTCUSDT","i":"1m",
			     "o":"100","c":"101","h":"102","l":"99","x":true}}`},
		{"zero close time", `{"e":"kline","s":"BTCUSDT",
			"k":{"t":1,"T":0,"s":"BTCUSDT","i":"1m",
			     "o":"100","c":"101","h":"102","l":"99","v":"1","x":true}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.parseKline([]byte(tc.frame))
			assert.Error(t, err)
		})
	}
}

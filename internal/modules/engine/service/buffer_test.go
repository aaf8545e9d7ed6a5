package service

import (
	"fmt"
	"os"
	"testing"

	"alert_bot/internal/models"
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

func candleAt(symbol, tf string, i int) models.Candle {
	return models.Candle{
		Symbol:    symbol,
		Timeframe: tf,
		OpenTime:  int64(i) * 60_000,
		CloseTime: int64(i+1) * 60_000,
		Open:      100,
		High:      101,
		Low:       99,
		Close:     100,
		Volume:    10,
		Final:     true,
	}
}

func TestBuffersCapacityEviction(t *testing.T) {
	b := NewBuffers()
	const capacity = 5

	for i := 0; i < 12; i++ {
		b.Append(candleAt("BTCUSDT", "1m", i), capacity)

		got := b.Snapshot("BTCUSDT", "1m")
		require.LessOrEqual(t, len(got), capacity)
	}

	got := b.Snapshot("BTCUSDT", "1m")
	require.Len(t, got, capacity)

	// остались ровно последние capacity свечей, в исходном порядке
	for i, c := range got {
		assert.Equal(t, int64(12-capacity+i+1)*60_000, c.CloseTime)
	}
}

func TestBuffersKeysIndependent(t *testing.T) {
	b := NewBuffers()

	b.Append(candleAt("BTCUSDT", "1m", 0), 10)
	b.Append(candleAt("BTCUSDT", "5m", 0), 10)
	b.Append(candleAt("ETHUSDT", "1m", 0), 10)

	assert.Len(t, b.Snapshot("BTCUSDT", "1m"), 1)
	assert.Len(t, b.Snapshot("BTCUSDT", "5m"), 1)
	assert.Len(t, b.Snapshot("ETHUSDT", "1m"), 1)
	assert.Nil(t, b.Snapshot("ETHUSDT", "5m"))
	assert.Len(t, b.Keys(), 3)
}

func TestBuffersSnapshotIsCopy(t *testing.T) {
	b := NewBuffers()
	b.Append(candleAt("BTCUSDT", "1m", 0), 10)

	snap := b.Snapshot("BTCUSDT", "1m")
	snap[0].Close = -1

	again := b.Snapshot("BTCUSDT", "1m")
	assert.Equal(t, float64(100), again[0].Close)
}

func TestBuffersBackfillBehindLiveCandle(t *testing.T) {
	b := NewBuffers()
	key := models.StreamKey{Symbol: "BTCUSDT", Timeframe: "1m"}

	// живая свеча закрылась, пока REST-ответ был в полёте
	live := candleAt("BTCUSDT", "1m", 4)
	live.Volume = 42
	b.Append(live, 10)

	hist := make([]models.Candle, 0, 5)
	for i := 0; i < 5; i++ {
		hist = append(hist, candleAt("BTCUSDT", "1m", i))
	}
	b.Backfill(key, hist, 10)

	got := b.Snapshot("BTCUSDT", "1m")
	require.Len(t, got, 5, "history merged without duplicating the live candle")
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].CloseTime, got[i-1].CloseTime,
			"series must stay sorted by closeTime")
	}
	// при совпадении closeTime остаётся живая свеча, не REST-копия
	assert.Equal(t, float64(42), got[4].Volume)
}

func TestBuffersBackfillEmptySeries(t *testing.T) {
	b := NewBuffers()
	key := models.StreamKey{Symbol: "BTCUSDT", Timeframe: "1m"}

	hist := []models.Candle{candleAt("BTCUSDT", "1m", 0), candleAt("BTCUSDT", "1m", 1)}
	b.Backfill(key, hist, 10)

	assert.Equal(t, 2, b.Len("BTCUSDT", "1m"))
}

func TestBuffersBackfillRespectsCapacity(t *testing.T) {
	b := NewBuffers()
	key := models.StreamKey{Symbol: "BTCUSDT", Timeframe: "1m"}

	b.Append(candleAt("BTCUSDT", "1m", 9), 3)

	hist := make([]models.Candle, 0, 9)
	for i := 0; i < 9; i++ {
		hist = append(hist, candleAt("BTCUSDT", "1m", i))
	}
	b.Backfill(key, hist, 3)

	got := b.Snapshot("BTCUSDT", "1m")
	require.Len(t, got, 3)
	// остаётся хвост: самые свежие свечи
	assert.Equal(t, int64(10)*60_000, got[2].CloseTime)
}

func TestBuffersConcurrentAppend(t *testing.T) {
	b := NewBuffers()
	done := make(chan struct{})

	for g := 0; g < 4; g++ {
		g := g
		go func() {
			defer func() { done <- struct{}{} }()
			sym := fmt.Sprintf("SYM%d", g)
			for i := 0; i < 200; i++ {
				b.Append(candleAt(sym, "1m", i), 50)
			}
		}()
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	for g := 0; g < 4; g++ {
		assert.Equal(t, 50, b.Len(fmt.Sprintf("SYM%d", g), "1m"))
	}
}

package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormTF(t *testing.T) {
	assert.Equal(t, "1m", NormTF(" 1M "))
	assert.Equal(t, "1h", NormTF("60m"))
	assert.Equal(t, "1h", NormTF("kline_1h"))
	assert.Equal(t, "1d", NormTF("24h"))
	assert.Equal(t, "5m", NormTF("5m"))
}

func TestKlineStream(t *testing.T) {
	assert.Equal(t, "btcusdt@kline_1m", KlineStream("BTCUSDT", "1m"))
	assert.Equal(t, "ethusdt@kline_1h", KlineStream("ETHUSDT", "60m"))
}

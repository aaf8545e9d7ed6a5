package service

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"
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

func TestStoreRuleCRUD(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	rule := &models.AlertRule{ID: 1, UserID: 1, Symbol: "BTCUSDT", Type: models.RuleBreakout, Enabled: true}
	require.NoError(t, s.CreateRule(ctx, rule))

	got, err := s.GetRule(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, rule, got)

	_, err = s.GetRule(ctx, 2)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, s.DeleteRule(ctx, 1))
	_, err = s.GetRule(ctx, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStoreGetUserMissing(t *testing.T) {
	s := NewStore()
	_, err := s.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListEnabledBySymbol(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{ID: 1, Symbol: "BTCUSDT", Enabled: true}))
	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{ID: 2, Symbol: "BTCUSDT", Enabled: false}))
	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{ID: 3, Symbol: "ETHUSDT", Enabled: true}))

	got, err := s.ListEnabledBySymbol(ctx, "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestRequiredStreamKeysDedup(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	// два EXTREME_MOVE по одному символу дают один минутный ключ
	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{
		ID: 1, UserID: 1, Symbol: "BTCUSDT", Type: models.RuleExtremeMove, Enabled: true,
	}))
	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{
		ID: 2, UserID: 2, Symbol: "BTCUSDT", Type: models.RuleExtremeMove, Enabled: true,
	}))
	// BREAKOUT на 15m — отдельный ключ
	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{
		ID: 3, UserID: 1, Symbol: "BTCUSDT", Type: models.RuleBreakout, Timeframe: "15m", Enabled: true,
	}))
	// выключенное правило ключей не требует
	require.NoError(t, s.CreateRule(ctx, &models.AlertRule{
		ID: 4, UserID: 1, Symbol: "ETHUSDT", Type: models.RuleVolumeSpike, Timeframe: "5m", Enabled: false,
	}))

	keys, err := s.RequiredStreamKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.StreamKey{
		{Symbol: "BTCUSDT", Timeframe: "1m"},
		{Symbol: "BTCUSDT", Timeframe: "15m"},
	}, keys)
}

func TestSeedFromConfig(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	cfg := &config.Config{
		Users: []config.SeedUser{{ID: 1, ChatID: 111, Name: "alice"}},
		Rules: []config.SeedRule{
			{
				ID: 1, UserID: 1, Symbol: "BTCUSDT", Type: "EXTREME_MOVE",
				WindowMin: 5, Percent: 2, CooldownSec: 300,
			},
			{
				ID: 2, UserID: 1, Symbol: "BTCUSDT", Type: "BREAKOUT",
				Timeframe: "15m", Lookback: 20, Direction: "UP",
			},
			{
				ID: 3, UserID: 1, Symbol: "ETHUSDT", Type: "VOLUME_SPIKE",
				Timeframe: "5m", Lookback: 30, Multiplier: 3, Disabled: true,
			},
			// мусорные записи молча пропускаются
			{ID: 4, UserID: 1, Symbol: "BTCUSDT", Type: "EXTREME_MOVE"},            // нет window/percent
			{ID: 5, UserID: 1, Symbol: "BTCUSDT", Type: "WHALE_ALERT", Lookback: 1}, // неизвестный тип
			{ID: 6, UserID: 0, Symbol: "BTCUSDT", Type: "BREAKOUT", Lookback: 1},    // без владельца
		},
	}
	require.NoError(t, s.Seed(ctx, cfg))

	user, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(111), user.ChatID)

	em, err := s.GetRule(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, em.Params.ExtremeMove)
	assert.Equal(t, models.DirectionBoth, em.Params.ExtremeMove.Direction, "empty direction defaults to BOTH")
	assert.Equal(t, int64(300), em.CooldownSec)

	br, err := s.GetRule(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, br.Params.Breakout)
	assert.Equal(t, models.DirectionUp, br.Params.Breakout.Direction)
	assert.Equal(t, "15m", br.Timeframe)

	vs, err := s.GetRule(ctx, 3)
	require.NoError(t, err)
	assert.False(t, vs.Enabled)

	for _, id := range []int64{4, 5, 6} {
		_, err := s.GetRule(ctx, id)
		assert.ErrorIs(t, err, sql.ErrNoRows, "rule %d must be skipped", id)
	}
}

package service

import (
	"context"

	"alert_bot/internal/helper"
	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"
	"alert_bot/pkg/logger"
)

// Seed заливает пользователей и правила из yaml-конфига.
// Кривые записи пропускаем с логом, не валим старт.
func (s *Store) Seed(ctx context.Context, cfg *config.Config) error {
	for _, u := range cfg.Users {
		user := models.User{ID: u.ID, ChatID: u.ChatID, Name: u.Name}
		if err := s.CreateUser(ctx, &user); err != nil {
			return err
		}
	}

	for _, r := range cfg.Rules {
		rule, ok := ruleFromSeed(r)
		if !ok {
			logger.Error("seed: skip rule id=%d type=%q: bad definition", r.ID, r.Type)
			continue
		}
		if err := s.CreateRule(ctx, rule); err != nil {
			return err
		}
	}

	logger.Info("seed: %d users, %d rules loaded", len(cfg.Users), len(cfg.Rules))
	return nil
}

func ruleFromSeed(r config.SeedRule) (*models.AlertRule, bool) {
	if r.Symbol == "" || r.UserID == 0 {
		return nil, false
	}

	dir := models.Direction(r.Direction)
	switch dir {
	case models.DirectionUp, models.DirectionDown, models.DirectionBoth:
	case "":
		dir = models.DirectionBoth
	default:
		return nil, false
	}

	rule := &models.AlertRule{
		ID:          r.ID,
		UserID:      r.UserID,
		Symbol:      r.Symbol,
		Timeframe:   helper.NormTF(r.Timeframe),
		Enabled:     !r.Disabled,
		CooldownSec: r.CooldownSec,
	}

	switch models.RuleType(r.Type) {
	case models.RuleExtremeMove:
		if r.WindowMin <= 0 || r.Percent <= 0 {
			return nil, false
		}
		rule.Type = models.RuleExtremeMove
		rule.Params.ExtremeMove = &models.ExtremeMoveParams{
			WindowMin: r.WindowMin,
			Percent:   r.Percent,
			Direction: dir,
		}
	case models.RuleBreakout:
		if r.Lookback <= 0 {
			return nil, false
		}
		rule.Type = models.RuleBreakout
		rule.Params.Breakout = &models.BreakoutParams{
			Lookback:  r.Lookback,
			Direction: dir,
		}
	case models.RuleVolumeSpike:
		if r.Lookback <= 0 || r.Multiplier <= 0 {
			return nil, false
		}
		rule.Type = models.RuleVolumeSpike
		rule.Params.VolumeSpike = &models.VolumeSpikeParams{
			Lookback:   r.Lookback,
			Multiplier: r.Multiplier,
		}
	default:
		return nil, false
	}

	return rule, true
}

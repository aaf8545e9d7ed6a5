package service

import (
	"context"

	"alert_bot/internal/helper"
	"alert_bot/internal/models"
	healthsvc "alert_bot/internal/modules/health/service"
	"alert_bot/pkg/logger"

	"github.com/google/uuid"
)

// RuleRegistry — чтение правил и пользователей. Реализует registry/service.Store.
type RuleRegistry interface {
	ListEnabledBySymbol(ctx context.Context, symbol string) ([]*models.AlertRule, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// Evaluator прогоняет закрытую свечу через включённые правила её символа.
// Сам ничего не диспатчит — отдаёт сработки наверх, в Pipeline.
type Evaluator struct {
	buffers *Buffers
	gate    *CooldownGate
	reg     RuleRegistry
	state   *healthsvc.State
}

func NewEvaluator(buffers *Buffers, gate *CooldownGate, reg RuleRegistry, state *healthsvc.State) *Evaluator {
	return &Evaluator{
		buffers: buffers,
		gate:    gate,
		reg:     reg,
		state:   state,
	}
}

// Evaluate вызывается после того, как свеча уже лежит в буфере.
// Правила друг от друга независимы; порядок обхода не гарантируется.
func (e *Evaluator) Evaluate(ctx context.Context, c models.Candle) []models.TriggeredAlert {
	rules, err := e.reg.ListEnabledBySymbol(ctx, c.Symbol)
	if err != nil {
		logger.Error("evaluate %s: list rules: %v", c.Symbol, err)
		return nil
	}

	var out []models.TriggeredAlert
	for _, rule := range rules {
		payload, ok := e.check(rule, c)
		if !ok {
			continue
		}

		// cooldown пишем в момент подтверждения условия, до диспатча
		firedAt, ok := e.gate.TryFire(rule.ID, rule.CooldownMs())
		if !ok {
			continue
		}

		user, err := e.reg.GetUser(ctx, rule.UserID)
		if err != nil {
			// правило без владельца — рассинхрон реестра, дропаем сработку
			logger.Error("evaluate %s: rule %d fired but user %d missing: %v",
				c.Symbol, rule.ID, rule.UserID, err)
			e.state.IncMissingUser()
			continue
		}

		out = append(out, models.TriggeredAlert{
			ID:          uuid.NewString(),
			Rule:        rule,
			User:        user,
			Payload:     payload,
			TriggeredAt: firedAt,
		})
	}
	return out
}

func (e *Evaluator) check(rule *models.AlertRule, c models.Candle) (models.AlertPayload, bool) {
	switch rule.Type {
	case models.RuleBreakout:
		return e.checkBreakout(rule, c)
	case models.RuleVolumeSpike:
		return e.checkVolumeSpike(rule, c)
	case models.RuleExtremeMove:
		return e.checkExtremeMove(rule, c)
	default:
		logger.Error("rule %d: unknown type %q", rule.ID, rule.Type)
		return models.AlertPayload{}, false
	}
}

// window — N свечей, непосредственно предшествующих текущей (последней в серии).
// Мало истории — это не ошибка, просто рано.
func (e *Evaluator) window(symbol, timeframe string, lookback int) []models.Candle {
	hist := e.buffers.Snapshot(symbol, timeframe)
	if len(hist) < lookback+1 {
		return nil
	}
	return hist[len(hist)-1-lookback : len(hist)-1]
}

func (e *Evaluator) checkBreakout(rule *models.AlertRule, c models.Candle) (models.AlertPayload, bool) {
	p := rule.Params.Breakout
	if p == nil || rule.StreamKey().Timeframe != c.Timeframe {
		return models.AlertPayload{}, false
	}

	window := e.window(c.Symbol, c.Timeframe, p.Lookback)
	if window == nil {
		return models.AlertPayload{}, false
	}

	highest := window[0].High
	lowest := window[0].Low
	for _, w := range window[1:] {
		if w.High > highest {
			highest = w.High
		}
		if w.Low < lowest {
			lowest = w.Low
		}
	}

	up := c.Close > highest
	down := c.Close < lowest
	if !(p.Direction.WantsUp() && up || p.Direction.WantsDown() && down) {
		return models.AlertPayload{}, false
	}

	resolved := models.DirectionDown
	if up {
		resolved = models.DirectionUp
	}
	return models.AlertPayload{Breakout: &models.BreakoutPayload{
		Symbol:    c.Symbol,
		Timeframe: c.Timeframe,
		Lookback:  p.Lookback,
		Close:     c.Close,
		Highest:   highest,
		Lowest:    lowest,
		Direction: resolved,
	}}, true
}

func (e *Evaluator) checkVolumeSpike(rule *models.AlertRule, c models.Candle) (models.AlertPayload, bool) {
	p := rule.Params.VolumeSpike
	if p == nil || rule.StreamKey().Timeframe != c.Timeframe {
		return models.AlertPayload{}, false
	}

	window := e.window(c.Symbol, c.Timeframe, p.Lookback)
	if window == nil {
		return models.AlertPayload{}, false
	}

	var sum float64
	for _, w := range window {
		sum += w.Volume
	}
	avg := sum / float64(len(window))

	// граница включительно: ровно avg*K — уже спайк
	if c.Volume < avg*p.Multiplier {
		return models.AlertPayload{}, false
	}

	return models.AlertPayload{VolumeSpike: &models.VolumeSpikePayload{
		Symbol:     c.Symbol,
		Timeframe:  c.Timeframe,
		Lookback:   p.Lookback,
		Volume:     c.Volume,
		AvgVolume:  avg,
		Multiplier: p.Multiplier,
	}}, true
}

// checkExtremeMove всегда смотрит минутную серию; свечи других таймфреймов
// это правило не триггерят, какой бы Timeframe ни стоял в самом правиле.
func (e *Evaluator) checkExtremeMove(rule *models.AlertRule, c models.Candle) (models.AlertPayload, bool) {
	p := rule.Params.ExtremeMove
	if p == nil || c.Timeframe != helper.TF1m {
		return models.AlertPayload{}, false
	}

	hist := e.buffers.Snapshot(c.Symbol, helper.TF1m)
	if len(hist) < 2 {
		return models.AlertPayload{}, false
	}

	// последняя предыдущая свеча, закрывшаяся не позже (now - windowMin)
	cutoff := c.CloseTime - p.WindowMin*60_000
	var prev *models.Candle
	for i := len(hist) - 2; i >= 0; i-- {
		if hist[i].CloseTime <= cutoff {
			prev = &hist[i]
			break
		}
	}
	if prev == nil || prev.Close <= 0 {
		return models.AlertPayload{}, false
	}

	change := (c.Close - prev.Close) / prev.Close * 100
	if !(p.Direction.WantsUp() && change >= p.Percent ||
		p.Direction.WantsDown() && change <= -p.Percent) {
		return models.AlertPayload{}, false
	}

	return models.AlertPayload{ExtremeMove: &models.ExtremeMovePayload{
		Symbol:        c.Symbol,
		WindowMin:     p.WindowMin,
		PrevClose:     prev.Close,
		Close:         c.Close,
		ChangePct:     change,
		ThresholdPct:  p.Percent,
		PrevCloseTime: prev.CloseTime,
	}}, true
}

package service

import (
	"context"
	"fmt"
	"sync"

	"alert_bot/internal/models"
	"alert_bot/internal/modules/config"

	binancesvc "alert_bot/internal/modules/binance_ws/service"
	enginesvc "alert_bot/internal/modules/engine/service"
	healthsvc "alert_bot/internal/modules/health/service"
	registrysvc "alert_bot/internal/modules/registry/service"
)

// Warmuper прогревает буферы историей по REST, чтобы правила с lookback
// могли стрелять сразу, не дожидаясь N живых свечей. История кладётся
// в буфер напрямую, мимо оценки — сработок по старым свечам не бывает.
type Warmuper struct {
	mx      *binancesvc.Client
	buffers *enginesvc.Buffers
	store   *registrysvc.Store
	n       binancesvc.ServiceNotifier
	state   *healthsvc.State

	cfg *config.Config

	// ограничитель параллелизма, чтобы не словить rate limit
	sem chan struct{}
}

func NewWarmuper(
	mx *binancesvc.Client,
	buffers *enginesvc.Buffers,
	store *registrysvc.Store,
	n binancesvc.ServiceNotifier,
	state *healthsvc.State,
	cfg *config.Config,
) *Warmuper {
	parallel := cfg.WarmupParallel
	if parallel <= 0 {
		parallel = 8
	}
	return &Warmuper{
		mx:      mx,
		buffers: buffers,
		store:   store,
		n:       n,
		state:   state,
		cfg:     cfg,
		sem:     make(chan struct{}, parallel),
	}
}

func (w *Warmuper) Warmup(ctx context.Context) error {
	// готовность выставляем в любом случае: без прогрева движок
	// тоже рабочий, просто lookback-правилам нужно больше времени
	defer w.state.SetReady(true)

	keys, err := w.store.RequiredStreamKeys(ctx)
	if err != nil {
		return fmt.Errorf("warmup: required keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	w.n.SendService(ctx, "🔥 REST warmup start: keys=%d depth=%d",
		len(keys), w.cfg.WarmupDepth,
	)

	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	for _, key := range keys {
		key := key
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sem <- struct{}{}
			defer func() { <-w.sem }()

			candles, err := w.mx.GetCandles(ctx, key.Symbol, key.Timeframe, w.cfg.WarmupDepth)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("warmup %s: %w", key, err)
				}
				mu.Unlock()
				return
			}
			final := make([]models.Candle, 0, len(candles))
			for _, c := range candles {
				if c.Final {
					final = append(final, c)
				}
			}
			// именно Backfill: живой стрим уже работает и мог
			// положить свечи этого ключа раньше нас
			w.buffers.Backfill(key, final, w.cfg.BufferCapacity)
		}()
	}

	wg.Wait()

	if firstErr != nil {
		// текст ошибки только аргументом: в нём может оказаться '%'
		w.n.SendService(ctx, "⚠️ REST warmup finished with error: %v", firstErr)
		return firstErr
	}

	w.n.SendService(ctx, "✅ REST warmup finished. Правила с lookback готовы.")
	return nil
}

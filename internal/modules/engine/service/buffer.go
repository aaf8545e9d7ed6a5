package service

import (
	"sync"

	"alert_bot/internal/models"
)

// series — история одного (symbol, timeframe) под собственным мьютексом,
// чтобы несвязанные ключи не толкались на одном локе.
type series struct {
	mu      sync.Mutex
	candles []models.Candle
}

// Buffers — скользящие окна истории по ключам стримов.
// Append/Snapshot безопасны из конкурентных горутин.
type Buffers struct {
	mu sync.RWMutex
	m  map[models.StreamKey]*series
}

func NewBuffers() *Buffers {
	return &Buffers{m: make(map[models.StreamKey]*series)}
}

func (b *Buffers) series(key models.StreamKey) *series {
	b.mu.RLock()
	s, ok := b.m[key]
	b.mu.RUnlock()
	if ok {
		return s
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok = b.m[key]; ok {
		return s
	}
	s = &series{}
	b.m[key] = s
	return s
}

// Append кладёт свечу в конец серии и срезает лишнее сверх capacity (FIFO).
func (b *Buffers) Append(c models.Candle, capacity int) {
	if capacity <= 0 {
		return
	}
	s := b.series(c.Key())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.candles = append(s.candles, c)
	if over := len(s.candles) - capacity; over > 0 {
		s.candles = append(s.candles[:0:0], s.candles[over:]...)
	}
}

// Backfill вливает историю в серию. Прогрев бежит параллельно с живым
// стримом, и свежая свеча могла успеть в буфер раньше REST-ответа —
// поэтому не append, а слияние: порядок по closeTime сохраняется,
// REST-копия уже лежащей свечи пропускается. hist должна быть
// отсортирована по closeTime, как и отдаёт биржа.
func (b *Buffers) Backfill(key models.StreamKey, hist []models.Candle, capacity int) {
	if capacity <= 0 || len(hist) == 0 {
		return
	}
	s := b.series(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]models.Candle, 0, len(hist)+len(s.candles))
	i, j := 0, 0
	for i < len(hist) && j < len(s.candles) {
		switch {
		case hist[i].CloseTime < s.candles[j].CloseTime:
			merged = append(merged, hist[i])
			i++
		case hist[i].CloseTime > s.candles[j].CloseTime:
			merged = append(merged, s.candles[j])
			j++
		default:
			// дубль — оставляем живую свечу
			merged = append(merged, s.candles[j])
			i++
			j++
		}
	}
	merged = append(merged, hist[i:]...)
	merged = append(merged, s.candles[j:]...)

	if over := len(merged) - capacity; over > 0 {
		merged = merged[over:]
	}
	s.candles = merged
}

// Snapshot — копия текущей серии; менять её можно без оглядки на стример.
func (b *Buffers) Snapshot(symbol, timeframe string) []models.Candle {
	b.mu.RLock()
	s, ok := b.m[models.StreamKey{Symbol: symbol, Timeframe: timeframe}]
	b.mu.RUnlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Candle, len(s.candles))
	copy(out, s.candles)
	return out
}

// Len — длина серии без копирования.
func (b *Buffers) Len(symbol, timeframe string) int {
	b.mu.RLock()
	s, ok := b.m[models.StreamKey{Symbol: symbol, Timeframe: timeframe}]
	b.mu.RUnlock()
	if !ok {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.candles)
}

// Keys — текущий набор ключей (для health-отчёта).
func (b *Buffers) Keys() []models.StreamKey {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.StreamKey, 0, len(b.m))
	for k := range b.m {
		out = append(out, k)
	}
	return out
}

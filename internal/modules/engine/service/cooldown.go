package service

import (
	"sync"
	"time"
)

// CooldownGate — таймстемпы последних сработок по rule id.
// Живёт отдельно от записей правил: правка правила в реестре
// не сбрасывает его cooldown. Записи никогда не чистим —
// осиротевшая запись удалённого правила просто лежит мёртвым грузом.
type CooldownGate struct {
	mu   sync.Mutex
	last map[int64]int64 // ruleID -> epoch millis последней сработки

	now func() int64
}

func NewCooldownGate() *CooldownGate {
	return &CooldownGate{
		last: make(map[int64]int64),
		now:  func() int64 { return time.Now().UnixMilli() },
	}
}

// TryFire — атомарный check-then-set: правило может выстрелить, только если
// с прошлой сработки прошло >= cooldownMs (или сработок не было). При успехе
// таймстемп пишется сразу, до любого диспатча — медленная отправка не даст
// второй сработки внутри окна.
func (g *CooldownGate) TryFire(ruleID int64, cooldownMs int64) (firedAt int64, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if prev, exists := g.last[ruleID]; exists && now-prev < cooldownMs {
		return 0, false
	}
	g.last[ruleID] = now
	return now, true
}

// LastFired — когда правило стреляло в последний раз (0 — никогда).
func (g *CooldownGate) LastFired(ruleID int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last[ruleID]
}

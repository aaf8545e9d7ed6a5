package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownGateFirstFire(t *testing.T) {
	g := NewCooldownGate()
	g.now = func() int64 { return 1_000 }

	firedAt, ok := g.TryFire(1, 60_000)
	require.True(t, ok)
	assert.Equal(t, int64(1_000), firedAt)
	assert.Equal(t, int64(1_000), g.LastFired(1))
}

func TestCooldownGateBlocksInsideWindow(t *testing.T) {
	g := NewCooldownGate()
	now := int64(1_000)
	g.now = func() int64 { return now }

	_, ok := g.TryFire(1, 60_000)
	require.True(t, ok)

	// внутри окна — тихо
	for _, shift := range []int64{1, 30_000, 59_999} {
		now = 1_000 + shift
		_, ok = g.TryFire(1, 60_000)
		assert.False(t, ok, "must stay quiet at +%dms", shift)
	}

	// ровно на границе окна — можно
	now = 1_000 + 60_000
	_, ok = g.TryFire(1, 60_000)
	assert.True(t, ok)
}

func TestCooldownGateRulesIndependent(t *testing.T) {
	g := NewCooldownGate()
	g.now = func() int64 { return 5_000 }

	_, ok := g.TryFire(1, 60_000)
	require.True(t, ok)

	_, ok = g.TryFire(2, 60_000)
	assert.True(t, ok, "cooldown of one rule must not block another")
}

func TestCooldownGateConcurrentSingleWinner(t *testing.T) {
	g := NewCooldownGate()
	g.now = func() int64 { return 1_000 }

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := g.TryFire(7, 60_000); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins, "exactly one concurrent evaluation may fire")
}

package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	activeStreams  atomic.Int64
	lastCandleUnix atomic.Int64 // unix seconds

	alertsFired  atomic.Int64
	sendFailed   atomic.Int64
	missingUsers atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetActiveStreams(n int) { s.activeStreams.Store(int64(n)) }
func (s *State) ActiveStreams() int64   { return s.activeStreams.Load() }

func (s *State) TouchCandle(t time.Time) { s.lastCandleUnix.Store(t.Unix()) }
func (s *State) LastCandle() time.Time {
	u := s.lastCandleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) AddAlertsFired(n int) { s.alertsFired.Add(int64(n)) }
func (s *State) AlertsFired() int64   { return s.alertsFired.Load() }

func (s *State) IncSendFailed() int64  { return s.sendFailed.Add(1) }
func (s *State) SendFailed() int64     { return s.sendFailed.Load() }
func (s *State) IncMissingUser() int64 { return s.missingUsers.Add(1) }
func (s *State) MissingUsers() int64   { return s.missingUsers.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

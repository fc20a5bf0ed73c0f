package bot

import (
	"sync"
	"time"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/model"
)

// Scheduler runs at most one delayed bot move per game
type Scheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	seq     uint64
	pending map[model.GameID]scheduled
}

type scheduled struct {
	seq   uint64
	timer clock.Timer
}

// NewScheduler creates a new Scheduler
func NewScheduler(clk clock.Clock) *Scheduler {
	return &Scheduler{
		clock:   clk,
		pending: make(map[model.GameID]scheduled),
	}
}

// Schedule runs fn after delay, replacing any move already pending for the game
func (s *Scheduler) Schedule(gameID model.GameID, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pending[gameID]; ok {
		existing.timer.Stop()
	}

	s.seq++
	seq := s.seq
	timer := s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		current, ok := s.pending[gameID]
		if !ok || current.seq != seq {
			// Cancelled or replaced after the timer already fired
			s.mu.Unlock()
			return
		}
		delete(s.pending, gameID)
		s.mu.Unlock()
		fn()
	})
	s.pending[gameID] = scheduled{seq: seq, timer: timer}
}

// Cancel stops the pending move for the game. Returns false if none was pending.
func (s *Scheduler) Cancel(gameID model.GameID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.pending[gameID]
	if !ok {
		return false
	}
	existing.timer.Stop()
	delete(s.pending, gameID)
	return true
}

// Pending reports whether a move is scheduled for the game
func (s *Scheduler) Pending(gameID model.GameID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[gameID]
	return ok
}

// CancelAll stops every pending move, used on shutdown
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

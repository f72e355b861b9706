package player

import (
	"fmt"
	"strings"
	"sync"
)

// TiedLabel is reported as the leader when the top score is shared.
const TiedLabel = "Tied"

type Player struct {
	ID    string
	Name  string
	Score int
	Alive bool
}

// Scoreboard aggregates the scores reported by independent boards and works
// out who is leading. It holds no engine state of its own.
type Scoreboard struct {
	mu      sync.RWMutex
	players map[string]*Player
	order   []string
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		players: make(map[string]*Player),
	}
}

// AddPlayer registers a player. Players are listed in the order they were
// added.
func (s *Scoreboard) AddPlayer(id, name string) Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.players[id]; ok {
		p.Name = name
		return *p
	}
	p := &Player{
		ID:    id,
		Name:  name,
		Alive: true,
	}
	s.players[id] = p
	s.order = append(s.order, id)
	return *p
}

func (s *Scoreboard) RemovePlayer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return
	}
	delete(s.players, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Scoreboard) GetPlayer(id string) (Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// UpdateScore records the latest total reported for a player. Unknown ids
// are ignored.
func (s *Scoreboard) UpdateScore(id string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.Score = score
	}
}

func (s *Scoreboard) SetPlayerAlive(id string, alive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.Alive = alive
	}
}

func (s *Scoreboard) GetAllPlayers() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]Player, 0, len(s.order))
	for _, id := range s.order {
		players = append(players, *s.players[id])
	}
	return players
}

func (s *Scoreboard) CountAlive() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, p := range s.players {
		if p.Alive {
			count++
		}
	}
	return count
}

// Leader returns the name of the single highest scorer, or TiedLabel when
// two or more players share the top score.
func (s *Scoreboard) Leader() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaderLocked()
}

func (s *Scoreboard) leaderLocked() string {
	leader := TiedLabel
	best := -1
	for _, id := range s.order {
		p := s.players[id]
		switch {
		case p.Score > best:
			best = p.Score
			leader = p.Name
		case p.Score == best:
			leader = TiedLabel
		}
	}
	return leader
}

// Label renders the score line shown above the boards, e.g.
// "Player 1: 300 | Player 2: 100 | Leader: Player 1".
func (s *Scoreboard) Label() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make([]string, 0, len(s.order)+1)
	for _, id := range s.order {
		p := s.players[id]
		parts = append(parts, fmt.Sprintf("%s: %d", p.Name, p.Score))
	}
	parts = append(parts, "Leader: "+s.leaderLocked())
	return strings.Join(parts, " | ")
}

// Reset zeroes every score and revives every player.
func (s *Scoreboard) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Score = 0
		p.Alive = true
	}
}

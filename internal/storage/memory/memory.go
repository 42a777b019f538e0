// Package memory keeps players and matches in process memory. It backs
// the service tests, where a database file is only a nuisance.
package memory

import (
	"glickoserver/internal/domain"
	"glickoserver/internal/storage"
	"sync"

	"github.com/google/uuid"
)

type Storage struct {
	mu      sync.RWMutex
	players map[uuid.UUID]domain.Player
	order   []uuid.UUID
	matches []domain.Match
	nextID  int
}

var _ storage.PlayerStorage = (*Storage)(nil)
var _ storage.MatchStorage = (*Storage)(nil)

func New() *Storage {
	return &Storage{
		players: make(map[uuid.UUID]domain.Player),
		nextID:  1,
	}
}

func (s *Storage) ListPlayers() ([]domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]domain.Player, 0, len(s.order))
	for _, id := range s.order {
		players = append(players, s.players[id])
	}
	return players, nil
}

func (s *Storage) Add(p domain.Player) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.players[p.ID] = p
	return p, nil
}

func (s *Storage) ImportPlayers(players []domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[uuid.UUID]domain.Player, len(players))
	s.order = make([]uuid.UUID, 0, len(players))
	for _, player := range players {
		s.players[player.ID] = player
		s.order = append(s.order, player.ID)
	}
	return nil
}

func (s *Storage) ListMatches() ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]domain.Match, len(s.matches))
	copy(matches, s.matches)
	return matches, nil
}

func (s *Storage) Create(m domain.Match) (domain.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.nextID
	s.nextID++
	s.matches = append(s.matches, m)
	return m, nil
}

func (s *Storage) ImportMatches(matches []domain.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = make([]domain.Match, len(matches))
	copy(s.matches, matches)
	for _, match := range matches {
		if match.ID >= s.nextID {
			s.nextID = match.ID + 1
		}
	}
	return nil
}

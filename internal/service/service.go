package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"glickoserver/internal/cache/mem"
	"glickoserver/internal/config"
	"glickoserver/internal/domain"
	"glickoserver/internal/storage"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidScore = errors.New("score must be between 0 and 1")
	ErrSamePlayer   = errors.New("players must be different")
	ErrEmptyName    = errors.New("player name is empty")
	ErrPlayerExists = errors.New("player already exists")
)

type PlayerService struct {
	playerStorage storage.PlayerStorage
	matchStorage  storage.MatchStorage
	cache         *mem.Cache
	settings      config.Rating
	log           *logrus.Entry
}

func New(l *logrus.Logger, playerStorage storage.PlayerStorage, matchStorage storage.MatchStorage, settings config.Rating) *PlayerService {
	return &PlayerService{
		playerStorage: playerStorage,
		matchStorage:  matchStorage,
		cache:         mem.New(),
		settings:      settings,
		log: l.WithFields(map[string]interface{}{
			"from": "player-service",
		}),
	}
}

func (s *PlayerService) ListPlayers() ([]domain.Player, error) {
	return s.playerStorage.ListPlayers()
}

// GetRatings returns all players ordered by rating, strongest first.
// Ratings are replayed from the full match history and cached until the
// next write.
func (s *PlayerService) GetRatings() ([]domain.Player, error) {
	if s.cache.Valid() {
		return s.cache.GetRatings(), nil
	}
	matches, err := s.matchStorage.ListMatches()
	if err != nil {
		return nil, err
	}
	players, err := s.playerStorage.ListPlayers()
	if err != nil {
		return nil, err
	}
	table := calculateRatings(matches, s.settings.Seed(), s.settings.Glicko(), s.logSkipped)
	for i := range players {
		players[i].Rating = table.rating(players[i].ID, s.settings.Seed())
		players[i].GamesPlayed = table.games[players[i].ID]
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rating.Rating > players[j].Rating.Rating
	})
	for i := range players {
		players[i].RatingRank = i + 1
	}
	s.cache.Update(players)
	return players, nil
}

func (s *PlayerService) logSkipped(m domain.Match, err error) {
	s.log.WithError(err).Warnf("match %d between %q and %q left unrated", m.ID, m.PlayerA.Name, m.PlayerB.Name)
}

// GetMatches returns the match history, newest first, with the rating
// change each match caused filled in on both players.
func (s *PlayerService) GetMatches() ([]domain.Match, error) {
	matches, err := s.matchStorage.ListMatches()
	if err != nil {
		return nil, err
	}
	table := calculateRatings(matches, s.settings.Seed(), s.settings.Glicko(), s.logSkipped)
	seed := s.settings.Seed()
	for i := range matches {
		matches[i].PlayerA.Rating = table.rating(matches[i].PlayerA.ID, seed)
		matches[i].PlayerB.Rating = table.rating(matches[i].PlayerB.ID, seed)
		matches[i].PlayerA.RatingChange = table.matches[i].changeA
		matches[i].PlayerB.RatingChange = table.matches[i].changeB
	}
	reverse(matches)
	return matches, nil
}

func reverse(m []domain.Match) {
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}

func (s *PlayerService) CreateMatch(match domain.Match) (domain.Match, error) {
	if match.Score < 0 || match.Score > 1 || match.Score != match.Score {
		return domain.Match{}, fmt.Errorf("%w, got %v", ErrInvalidScore, match.Score)
	}
	if match.PlayerA.ID == match.PlayerB.ID {
		return domain.Match{}, ErrSamePlayer
	}
	if match.Date.IsZero() {
		match.Date = time.Now()
	}
	created, err := s.matchStorage.Create(match)
	if err != nil {
		return domain.Match{}, err
	}
	s.cache.Invalidate()
	return created, nil
}

func (s *PlayerService) CreatePlayer(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, ErrEmptyName
	}
	if _, err := s.GetByName(name); err == nil {
		return domain.Player{}, fmt.Errorf("%w: %s", ErrPlayerExists, name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return domain.Player{}, err
	}
	player, err := s.playerStorage.Add(domain.Player{
		ID:           uuid.New(),
		Name:         name,
		RegisteredAt: time.Now(),
	})
	if err != nil {
		return domain.Player{}, err
	}
	s.cache.Invalidate()
	return player, nil
}

// Get returns the player with the current rating filled in.
func (s *PlayerService) Get(id uuid.UUID) (domain.Player, error) {
	players, err := s.GetRatings()
	if err != nil {
		return domain.Player{}, err
	}
	for _, player := range players {
		if player.ID == id {
			return player, nil
		}
	}
	return domain.Player{}, storage.ErrNotFound
}

// GetByName finds a player by name, ignoring case and surrounding
// spaces. The returned player carries the current rating.
func (s *PlayerService) GetByName(name string) (domain.Player, error) {
	if !s.cache.Valid() {
		if _, err := s.GetRatings(); err != nil {
			return domain.Player{}, err
		}
	}
	player, ok := s.cache.GetPlayerByName(name)
	if !ok {
		return domain.Player{}, storage.ErrNotFound
	}
	return player, nil
}

// GetPlayerGames collects the player's win, loss and draw counts
// against every opponent.
func (s *PlayerService) GetPlayerGames(id uuid.UUID) (map[uuid.UUID]domain.PlayerStats, error) {
	matches, err := s.matchStorage.ListMatches()
	if err != nil {
		return nil, err
	}
	results := make(map[uuid.UUID]domain.PlayerStats)
	players, err := s.GetRatings()
	if err != nil {
		return nil, err
	}
	for _, player := range players {
		results[player.ID] = domain.PlayerStats{Player: player}
	}
	for i := range matches {
		if matches[i].PlayerA.ID != id && matches[i].PlayerB.ID != id {
			continue
		}
		var this, other *domain.Player
		if matches[i].PlayerA.ID == id {
			this = &matches[i].PlayerA
			other = &matches[i].PlayerB
		} else {
			this = &matches[i].PlayerB
			other = &matches[i].PlayerA
		}
		r := results[other.ID]
		winner, ok := matches[i].Winner()
		switch {
		case ok && winner.ID == this.ID:
			r.Wins++
		case ok && winner.ID == other.ID:
			r.Loses++
		default:
			r.Draws++
		}
		results[other.ID] = r
	}
	return results, nil
}

// PlayerCard is everything the player page shows: the player with the
// current rating and the head to head results against every opponent
// they ever faced.
type PlayerCard struct {
	Player  domain.Player
	Results []domain.PlayerStats
}

func (s *PlayerService) GetPlayerData(id uuid.UUID) (PlayerCard, error) {
	stats, err := s.GetPlayerGames(id)
	if err != nil {
		return PlayerCard{}, err
	}
	var card PlayerCard
	found := false
	for _, stat := range stats {
		if stat.Player.ID == id {
			card.Player = stat.Player
			found = true
			continue
		}
		if stat.Wins+stat.Loses+stat.Draws == 0 {
			continue
		}
		card.Results = append(card.Results, stat)
	}
	if !found {
		return PlayerCard{}, storage.ErrNotFound
	}
	sort.Slice(card.Results, func(i, j int) bool {
		return card.Results[i].Player.RatingRank < card.Results[j].Player.RatingRank
	})
	return card, nil
}

const exportVersion = 1

type export struct {
	Version int
	Players []domain.Player
	Matches []domain.Match
}

func (s *PlayerService) Export() ([]byte, error) {
	players, err := s.playerStorage.ListPlayers()
	if err != nil {
		return nil, err
	}
	matches, err := s.matchStorage.ListMatches()
	if err != nil {
		return nil, err
	}
	exportData := export{
		Version: exportVersion,
		Players: players,
		Matches: matches,
	}
	data, err := json.Marshal(exportData)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *PlayerService) Import(data []byte) error {
	var importData export
	err := json.Unmarshal(data, &importData)
	if err != nil {
		return err
	}
	if importData.Version != exportVersion {
		return errors.New("invalid export file version")
	}
	err = s.playerStorage.ImportPlayers(importData.Players)
	if err != nil {
		return err
	}
	err = s.matchStorage.ImportMatches(importData.Matches)
	if err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// Package storage defines the persistence contracts of the rating
// service. Matches are the source of truth, ratings are always replayed
// from them, so neither interface stores a rating.
package storage

import (
	"errors"

	"glickoserver/internal/domain"
)

var ErrNotFound = errors.New("not found")

type PlayerStorage interface {
	ListPlayers() ([]domain.Player, error)
	Add(domain.Player) (domain.Player, error)

	ImportPlayers([]domain.Player) error
}

type MatchStorage interface {
	ListMatches() ([]domain.Match, error)
	Create(domain.Match) (domain.Match, error)

	ImportMatches([]domain.Match) error
}

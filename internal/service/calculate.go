package service

import (
	"glickoserver/internal/domain"
	"glickoserver/internal/glicko2"

	"github.com/google/uuid"
)

// ratedMatch is the per-match outcome of a rating pass. Change fields
// hold how much the match moved each side, rated is false when the
// match was skipped and the ratings stayed put.
type ratedMatch struct {
	changeA float64
	changeB float64
	rated   bool
}

type ratingTable struct {
	ratings map[uuid.UUID]glicko2.Rating
	games   map[uuid.UUID]int
	matches []ratedMatch
}

func (t ratingTable) rating(id uuid.UUID, seed glicko2.Rating) glicko2.Rating {
	if r, ok := t.ratings[id]; ok {
		return r
	}
	return seed
}

// calculateRatings replays matches in order, feeding every game through
// the rating update. Players appear with the seed rating the first time
// they are met. A match the update cannot rate is reported through
// skipped and leaves both players untouched.
func calculateRatings(matches []domain.Match, seed glicko2.Rating, cfg glicko2.Config, skipped func(domain.Match, error)) ratingTable {
	table := ratingTable{
		ratings: make(map[uuid.UUID]glicko2.Rating),
		games:   make(map[uuid.UUID]int),
		matches: make([]ratedMatch, 0, len(matches)),
	}
	for _, match := range matches {
		ratingA := table.rating(match.PlayerA.ID, seed)
		ratingB := table.rating(match.PlayerB.ID, seed)
		newA, newB, err := glicko2.Update(ratingA, ratingB, match.Score, cfg)
		if err != nil {
			if skipped != nil {
				skipped(match, err)
			}
			table.matches = append(table.matches, ratedMatch{})
			continue
		}
		table.ratings[match.PlayerA.ID] = newA
		table.ratings[match.PlayerB.ID] = newB
		table.games[match.PlayerA.ID]++
		table.games[match.PlayerB.ID]++
		table.matches = append(table.matches, ratedMatch{
			changeA: newA.Rating - ratingA.Rating,
			changeB: newB.Rating - ratingB.Rating,
			rated:   true,
		})
	}
	return table
}

package domain

import (
	"time"

	"glickoserver/internal/glicko2"

	"github.com/google/uuid"
)

type Player struct {
	ID           uuid.UUID
	Name         string
	RegisteredAt time.Time
	Rating       glicko2.Rating
	GamesPlayed  int
	RatingRank   int
	// RatingChange is how much a particular match moved the rating,
	// filled only on the player copies inside a match listing.
	RatingChange float64
}

type PlayerStats struct {
	Player Player
	Wins   int
	Loses  int
	Draws  int
}

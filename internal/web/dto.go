package web

import (
	"errors"
	"glickoserver/internal/domain"
	"glickoserver/internal/normalize"
	"time"

	"github.com/gofiber/fiber/v2"
)

type newMatchRequest struct {
	Winner string
	Loser  string
	Draw   bool
}

var ErrMissingPlayer = errors.New("оба игрока должны присутствовать")
var ErrSamePlayers = errors.New("игрок не может играть сам с собой")

func parseNewMatchRequest(ctx *fiber.Ctx) newMatchRequest {
	return newMatchRequest{
		Winner: ctx.FormValue("winner", ""),
		Loser:  ctx.FormValue("loser", ""),
		Draw:   ctx.FormValue("draw") == "on",
	}
}

func (r newMatchRequest) Validate() error {
	var err error
	if r.Winner == "" || r.Loser == "" {
		err = errors.Join(err, ErrMissingPlayer)
	}
	if r.Winner != "" && normalize.Name(r.Winner) == normalize.Name(r.Loser) {
		err = errors.Join(err, ErrSamePlayers)
	}
	return err
}

// Score is the match outcome from the winner side. On a draw the form
// still names both players, the winner field just loses its meaning.
func (r newMatchRequest) Score() float64 {
	if r.Draw {
		return 0.5
	}
	return 1
}

func (r newMatchRequest) convertToDomainMatch(winner, loser domain.Player) domain.Match {
	return domain.Match{
		PlayerA: winner,
		PlayerB: loser,
		Score:   r.Score(),
		Date:    time.Now(),
	}
}

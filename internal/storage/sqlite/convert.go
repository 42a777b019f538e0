package sqlite

import (
	"fmt"
	"glickoserver/gen/model"
	"glickoserver/internal/domain"

	"github.com/google/uuid"
)

func convertPlayerToDB(p domain.Player) model.Players {
	return model.Players{
		ID:        p.ID.String(),
		Name:      p.Name,
		CreatedAt: p.RegisteredAt,
	}
}

func convertPlayerToDomain(p model.Players) (domain.Player, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.Player{}, err
	}
	return domain.Player{
		ID:           id,
		Name:         p.Name,
		RegisteredAt: p.CreatedAt,
	}, nil
}

func convertMatchToDB(m domain.Match) model.Matches {
	return model.Matches{
		PlayerA:   m.PlayerA.ID.String(),
		PlayerB:   m.PlayerB.ID.String(),
		Score:     m.Score,
		CreatedAt: m.Date,
	}
}

func convertMatchToDomain(m model.Matches, players map[uuid.UUID]domain.Player) (domain.Match, error) {
	playerA, err := uuid.Parse(m.PlayerA)
	if err != nil {
		return domain.Match{}, err
	}
	playerB, err := uuid.Parse(m.PlayerB)
	if err != nil {
		return domain.Match{}, err
	}
	a, ok := players[playerA]
	if !ok {
		return domain.Match{}, fmt.Errorf("match %d: unknown player %s", m.ID, m.PlayerA)
	}
	b, ok := players[playerB]
	if !ok {
		return domain.Match{}, fmt.Errorf("match %d: unknown player %s", m.ID, m.PlayerB)
	}
	return domain.Match{
		ID:      int(m.ID),
		PlayerA: a,
		PlayerB: b,
		Score:   m.Score,
		Date:    m.CreatedAt,
	}, nil
}

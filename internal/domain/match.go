package domain

import "time"

// Match is a finished game. Score is PlayerA's result in [0, 1]:
// 1 win, 0 loss, 0.5 draw, anything else a partial outcome.
type Match struct {
	ID      int
	PlayerA Player
	PlayerB Player
	Score   float64
	Date    time.Time
}

// Winner reports the winning player of a decisive match. The second
// return is false for draws and partial outcomes.
func (m Match) Winner() (Player, bool) {
	switch m.Score {
	case 1:
		return m.PlayerA, true
	case 0:
		return m.PlayerB, true
	}
	return Player{}, false
}

func (m Match) Draw() bool {
	return m.Score == 0.5
}

// Package csvfeed reads game records from CSV and replays them into a
// name to rating table. A record is "player one, player two, score"
// with the score given from player one's side. The first row is a
// header and is ignored.
package csvfeed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"glickoserver/internal/glicko2"
	"io"
	"os"
	"strconv"
)

type Game struct {
	PlayerA string
	PlayerB string
	Score   float64
}

var ErrBadRecord = errors.New("bad record")

// ReadGames parses the whole stream. Names are compared as is, a row
// where both sides carry the same name is dropped. A malformed row or
// a score outside [0, 1] fails the read with the offending row number,
// counted from the header.
func ReadGames(r io.Reader) ([]Game, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var games []Game
	row := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return games, nil
			}
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadRecord, row+1, err)
		}
		row++
		if row == 1 {
			continue
		}
		if record[0] == record[1] {
			continue
		}
		score, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: score %q is not a number", ErrBadRecord, row, record[2])
		}
		if score < 0 || score > 1 || score != score {
			return nil, fmt.Errorf("%w: row %d: score %v is out of range", ErrBadRecord, row, score)
		}
		games = append(games, Game{
			PlayerA: record[0],
			PlayerB: record[1],
			Score:   score,
		})
	}
}

// ReadGamesFile is ReadGames over a file on disk.
func ReadGamesFile(path string) ([]Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGames(f)
}

// Rate folds the games into a rating table in record order. Both sides
// default to seed the first time a name is seen. A game the update
// cannot rate is reported through skipped and changes nothing.
func Rate(games []Game, seed glicko2.Rating, cfg glicko2.Config, skipped func(Game, error)) map[string]glicko2.Rating {
	ratings := make(map[string]glicko2.Rating)
	lookup := func(name string) glicko2.Rating {
		if r, ok := ratings[name]; ok {
			return r
		}
		return seed
	}
	for _, game := range games {
		a := lookup(game.PlayerA)
		b := lookup(game.PlayerB)
		newA, newB, err := glicko2.Update(a, b, game.Score, cfg)
		if err != nil {
			if skipped != nil {
				skipped(game, err)
			}
			continue
		}
		ratings[game.PlayerA] = newA
		ratings[game.PlayerB] = newB
	}
	return ratings
}

package csvfeed

import (
	"errors"
	"glickoserver/internal/glicko2"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestReadGames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Game
		wantErr bool
	}{
		{
			name:  "header only",
			input: "player_one,player_two,score\n",
			want:  nil,
		},
		{
			name:  "plain games",
			input: "a,b,score\nAlice,Bob,1\nBob,Carol,0.5\n",
			want: []Game{
				{PlayerA: "Alice", PlayerB: "Bob", Score: 1},
				{PlayerA: "Bob", PlayerB: "Carol", Score: 0.5},
			},
		},
		{
			name:  "self play is dropped",
			input: "a,b,score\nAlice,Alice,1\nAlice,Bob,0\n",
			want: []Game{
				{PlayerA: "Alice", PlayerB: "Bob", Score: 0},
			},
		},
		{
			name:  "names keep their case",
			input: "a,b,score\nAlice,alice,1\n",
			want: []Game{
				{PlayerA: "Alice", PlayerB: "alice", Score: 1},
			},
		},
		{
			name:    "score is not a number",
			input:   "a,b,score\nAlice,Bob,win\n",
			wantErr: true,
		},
		{
			name:    "score above one",
			input:   "a,b,score\nAlice,Bob,1.5\n",
			wantErr: true,
		},
		{
			name:    "negative score",
			input:   "a,b,score\nAlice,Bob,-1\n",
			wantErr: true,
		},
		{
			name:    "missing column",
			input:   "a,b,score\nAlice,Bob\n",
			wantErr: true,
		},
		{
			name:    "extra column",
			input:   "a,b,score\nAlice,Bob,1,extra\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadGames(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrBadRecord) {
					t.Fatalf("ReadGames() error = %v, want ErrBadRecord", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadGames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadGamesReportsRow(t *testing.T) {
	_, err := ReadGames(strings.NewReader("a,b,score\nAlice,Bob,1\nAlice,Bob,nope\n"))
	if err == nil || !strings.Contains(err.Error(), "row 3") {
		t.Errorf("ReadGames() error = %v, want row 3 mentioned", err)
	}
}

func TestRate(t *testing.T) {
	seed := glicko2.NewRating()
	cfg := glicko2.DefaultConfig()
	games := []Game{
		{PlayerA: "Alice", PlayerB: "Bob", Score: 1},
		{PlayerA: "Carol", PlayerB: "Alice", Score: 1},
		{PlayerA: "Bob", PlayerB: "Carol", Score: 0.5},
	}

	ratings := Rate(games, seed, cfg, nil)

	want := map[string]glicko2.Rating{
		"Alice": {Rating: 1497.450852314227, Deviation: 256.345174733814, Volatility: 0.060000161463},
		"Bob":   {Rating: 1440.008016567829, Deviation: 264.891300976598, Volatility: 0.059999460464},
		"Carol": {Rating: 1632.356201105404, Deviation: 262.413314942238, Volatility: 0.060000145603},
	}
	if len(ratings) != len(want) {
		t.Fatalf("len(ratings) = %d, want %d", len(ratings), len(want))
	}
	for name, wantRating := range want {
		got, ok := ratings[name]
		if !ok {
			t.Fatalf("no rating for %s", name)
		}
		if math.Abs(got.Rating-wantRating.Rating) > 1e-6 ||
			math.Abs(got.Deviation-wantRating.Deviation) > 1e-6 ||
			math.Abs(got.Volatility-wantRating.Volatility) > 1e-8 {
			t.Errorf("ratings[%s] = %+v, want %+v", name, got, wantRating)
		}
	}
}

func TestRateSkipsUnratable(t *testing.T) {
	seed := glicko2.NewRating()
	// zero tolerance cannot converge and must not corrupt the table
	cfg := glicko2.Config{Tau: 0.5, ConvergenceTolerance: 0}
	games := []Game{
		{PlayerA: "Alice", PlayerB: "Bob", Score: 1},
	}

	var skipped []Game
	ratings := Rate(games, seed, cfg, func(g Game, err error) {
		if !errors.Is(err, glicko2.ErrNoConvergence) {
			t.Errorf("skip reason = %v, want ErrNoConvergence", err)
		}
		skipped = append(skipped, g)
	})

	if len(skipped) != 1 {
		t.Fatalf("skipped %d games, want 1", len(skipped))
	}
	if len(ratings) != 0 {
		t.Errorf("len(ratings) = %d, want 0", len(ratings))
	}
}

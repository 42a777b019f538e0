package glicko2

import (
	"errors"
	"math"
	"testing"
)

func ratingEqual(t *testing.T, name string, got, want Rating) {
	t.Helper()
	if math.Abs(got.Rating-want.Rating) > 1e-6 {
		t.Errorf("%s rating = %v, want %v", name, got.Rating, want.Rating)
	}
	if math.Abs(got.Deviation-want.Deviation) > 1e-6 {
		t.Errorf("%s deviation = %v, want %v", name, got.Deviation, want.Deviation)
	}
	if math.Abs(got.Volatility-want.Volatility) > 1e-8 {
		t.Errorf("%s volatility = %v, want %v", name, got.Volatility, want.Volatility)
	}
}

func TestUpdate(t *testing.T) {
	type args struct {
		a     Rating
		b     Rating
		score float64
	}
	tests := []struct {
		name  string
		args  args
		wantA Rating
		wantB Rating
	}{
		{
			name: "established beats solid opponent",
			args: args{
				a:     Rating{Rating: 1500, Deviation: 200, Volatility: 0.06},
				b:     Rating{Rating: 1400, Deviation: 30, Volatility: 0.06},
				score: 1,
			},
			wantA: Rating{Rating: 1563.564194306, Deviation: 175.402655939, Volatility: 0.059998657305},
			wantB: Rating{Rating: 1398.143558234, Deviation: 31.670215281, Volatility: 0.059999123729},
		},
		{
			name: "big upset",
			args: args{
				a:     Rating{Rating: 1500, Deviation: 50, Volatility: 0.06},
				b:     Rating{Rating: 2000, Deviation: 50, Volatility: 0.06},
				score: 1,
			},
			wantA: Rating{Rating: 1513.953349580, Deviation: 50.963568829, Volatility: 0.060010978542},
			wantB: Rating{Rating: 1986.046650420, Deviation: 50.963568829, Volatility: 0.060010978542},
		},
		{
			name: "equal players draw",
			args: args{
				a:     Rating{Rating: 1500, Deviation: 200, Volatility: 0.06},
				b:     Rating{Rating: 1500, Deviation: 200, Volatility: 0.06},
				score: 0.5,
			},
			wantA: Rating{Rating: 1500, Deviation: 180.078280469, Volatility: 0.059998055070},
			wantB: Rating{Rating: 1500, Deviation: 180.078280469, Volatility: 0.059998055070},
		},
		{
			name: "two unrated players",
			args: args{
				a:     NewRating(),
				b:     NewRating(),
				score: 1,
			},
			wantA: Rating{Rating: 1662.310893906, Deviation: 290.318963718, Volatility: 0.059999675372},
			wantB: Rating{Rating: 1337.689106094, Deviation: 290.318963718, Volatility: 0.059999675372},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB, err := Update(tt.args.a, tt.args.b, tt.args.score, DefaultConfig())
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			ratingEqual(t, "player one", gotA, tt.wantA)
			ratingEqual(t, "player two", gotB, tt.wantB)
		})
	}
}

// Rating the same game from the loser's side has to produce the same
// pair of ratings.
func TestUpdatePerspective(t *testing.T) {
	a := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	b := Rating{Rating: 1400, Deviation: 30, Volatility: 0.06}

	newA, newB, err := Update(a, b, 1, DefaultConfig())
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	swapB, swapA, err := Update(b, a, 0, DefaultConfig())
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if newA != swapA {
		t.Errorf("player one = %v from a's side, %v from b's", newA, swapA)
	}
	if newB != swapB {
		t.Errorf("player two = %v from a's side, %v from b's", newB, swapB)
	}
}

func TestUpdateSequence(t *testing.T) {
	opponents := []struct {
		r     Rating
		score float64
		want  Rating
	}{
		{
			r:     Rating{Rating: 1400, Deviation: 30, Volatility: 0.06},
			score: 1,
			want:  Rating{Rating: 1563.564194306, Deviation: 175.402655939, Volatility: 0.059998657305},
		},
		{
			r:     Rating{Rating: 1550, Deviation: 100, Volatility: 0.06},
			score: 0,
			want:  Rating{Rating: 1492.258735913, Deviation: 158.302592086, Volatility: 0.059998345107},
		},
		{
			r:     Rating{Rating: 1700, Deviation: 300, Volatility: 0.06},
			score: 0,
			want:  Rating{Rating: 1463.788372090, Deviation: 151.873213139, Volatility: 0.059997514050},
		},
	}

	p := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	for i, game := range opponents {
		var err error
		p, _, err = Update(p, game.r, game.score, DefaultConfig())
		if err != nil {
			t.Fatalf("game %d: Update() error = %v", i+1, err)
		}
		ratingEqual(t, "player", p, game.want)
	}
}

// The worked example from glicko.net/glicko/glicko2.pdf: one period,
// a win against 1400/30 and losses against 1550/100 and 1700/300.
func TestUpdatePeriodPaperExample(t *testing.T) {
	p := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	results := []Result{
		{Opponent: Rating{Rating: 1400, Deviation: 30, Volatility: 0.06}, Score: 1},
		{Opponent: Rating{Rating: 1550, Deviation: 100, Volatility: 0.06}, Score: 0},
		{Opponent: Rating{Rating: 1700, Deviation: 300, Volatility: 0.06}, Score: 0},
	}

	got, err := UpdatePeriod(p, results, DefaultConfig())
	if err != nil {
		t.Fatalf("UpdatePeriod() error = %v", err)
	}
	if math.Abs(got.Rating-1464.06) > 0.01 {
		t.Errorf("rating = %v, want 1464.06", got.Rating)
	}
	if math.Abs(got.Deviation-151.52) > 0.01 {
		t.Errorf("deviation = %v, want 151.52", got.Deviation)
	}
	if math.Abs(got.Volatility-0.05999) > 0.0001 {
		t.Errorf("volatility = %v, want 0.05999", got.Volatility)
	}
	ratingEqual(t, "player", got, Rating{Rating: 1464.050670539, Deviation: 151.516524124, Volatility: 0.059995984286})
}

func TestUpdatePeriodNoGames(t *testing.T) {
	p := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}

	got, err := UpdatePeriod(p, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("UpdatePeriod() error = %v", err)
	}
	ratingEqual(t, "player", got, Rating{Rating: 1500, Deviation: 200.271416699, Volatility: 0.06})
}

func TestUpdateSolverError(t *testing.T) {
	a := Rating{Rating: 1500, Deviation: 200, Volatility: 0.06}
	b := Rating{Rating: 1400, Deviation: 30, Volatility: 0.06}
	cfg := Config{Tau: 0.5, ConvergenceTolerance: 0}

	_, _, err := Update(a, b, 1, cfg)
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("Update() error = %v, want ErrNoConvergence", err)
	}
}

func TestInterval(t *testing.T) {
	got := NewRating().Interval()
	if got.Min != 800 || got.Max != 2200 {
		t.Errorf("Interval() = %v, want 800..2200", got)
	}
}

package service

import (
	"errors"
	"glickoserver/internal/config"
	"glickoserver/internal/domain"
	"glickoserver/internal/glicko2"
	"glickoserver/internal/storage/memory"
	"io"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testSettings() config.Rating {
	return config.Rating{
		DefaultRating:        1500,
		DefaultDeviation:     350,
		DefaultVolatility:    0.06,
		Tau:                  0.5,
		ConvergenceTolerance: 1e-6,
		ProvisionalDeviation: 110,
	}
}

func testService(t *testing.T) *PlayerService {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	st := memory.New()
	return New(l, st, st, testSettings())
}

func closeTo(got, want, tolerance float64) bool {
	return math.Abs(got-want) <= tolerance
}

func Test_calculateRatings(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()
	matches := []domain.Match{
		{PlayerA: domain.Player{ID: alice}, PlayerB: domain.Player{ID: bob}, Score: 1},
		{PlayerA: domain.Player{ID: carol}, PlayerB: domain.Player{ID: alice}, Score: 1},
		{PlayerA: domain.Player{ID: bob}, PlayerB: domain.Player{ID: carol}, Score: 0.5},
	}
	settings := testSettings()

	table := calculateRatings(matches, settings.Seed(), settings.Glicko(), nil)

	want := map[uuid.UUID]glicko2.Rating{
		alice: {Rating: 1497.450852314227, Deviation: 256.345174733814, Volatility: 0.060000161463},
		bob:   {Rating: 1440.008016567829, Deviation: 264.891300976598, Volatility: 0.059999460464},
		carol: {Rating: 1632.356201105404, Deviation: 262.413314942238, Volatility: 0.060000145603},
	}
	for id, wantRating := range want {
		got := table.rating(id, settings.Seed())
		if !closeTo(got.Rating, wantRating.Rating, 1e-6) ||
			!closeTo(got.Deviation, wantRating.Deviation, 1e-6) ||
			!closeTo(got.Volatility, wantRating.Volatility, 1e-8) {
			t.Errorf("rating(%s) = %+v, want %+v", id, got, wantRating)
		}
		if table.games[id] != 2 {
			t.Errorf("games[%s] = %d, want 2", id, table.games[id])
		}
	}

	wantChanges := []ratedMatch{
		{changeA: 162.310893906298, changeB: -162.310893906298, rated: true},
		{changeA: 231.884898995779, changeB: -164.860041592070, rated: true},
		{changeA: 102.318910474127, changeB: -99.528697890375, rated: true},
	}
	if len(table.matches) != len(wantChanges) {
		t.Fatalf("len(matches) = %d, want %d", len(table.matches), len(wantChanges))
	}
	for i, wantChange := range wantChanges {
		got := table.matches[i]
		if got.rated != wantChange.rated ||
			!closeTo(got.changeA, wantChange.changeA, 1e-6) ||
			!closeTo(got.changeB, wantChange.changeB, 1e-6) {
			t.Errorf("match %d change = %+v, want %+v", i, got, wantChange)
		}
	}
}

func Test_calculateRatingsSkipsUnratable(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	matches := []domain.Match{
		{PlayerA: domain.Player{ID: alice}, PlayerB: domain.Player{ID: bob}, Score: 1},
	}
	settings := testSettings()
	// zero tolerance makes the volatility iteration run out of steps
	cfg := glicko2.Config{Tau: 0.5, ConvergenceTolerance: 0}

	var skipped []error
	table := calculateRatings(matches, settings.Seed(), cfg, func(_ domain.Match, err error) {
		skipped = append(skipped, err)
	})

	if len(skipped) != 1 {
		t.Fatalf("skipped %d matches, want 1", len(skipped))
	}
	if !errors.Is(skipped[0], glicko2.ErrNoConvergence) {
		t.Errorf("skip reason = %v, want ErrNoConvergence", skipped[0])
	}
	if got := table.rating(alice, settings.Seed()); got != settings.Seed() {
		t.Errorf("rating(alice) = %+v, want untouched seed", got)
	}
	if table.games[alice] != 0 || table.games[bob] != 0 {
		t.Errorf("games = %d/%d, want 0/0", table.games[alice], table.games[bob])
	}
	if table.matches[0].rated {
		t.Error("match marked rated, want unrated")
	}
}

func TestGetRatings(t *testing.T) {
	s := testService(t)
	alice, err := s.CreatePlayer("Alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := s.CreatePlayer("Bob")
	if err != nil {
		t.Fatal(err)
	}
	carol, err := s.CreatePlayer("Carol")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []domain.Match{
		{PlayerA: alice, PlayerB: bob, Score: 1},
		{PlayerA: carol, PlayerB: alice, Score: 1},
		{PlayerA: bob, PlayerB: carol, Score: 0.5},
	} {
		if _, err := s.CreateMatch(m); err != nil {
			t.Fatal(err)
		}
	}

	ratings, err := s.GetRatings()
	if err != nil {
		t.Fatal(err)
	}
	wantOrder := []string{"Carol", "Alice", "Bob"}
	if len(ratings) != len(wantOrder) {
		t.Fatalf("len(ratings) = %d, want %d", len(ratings), len(wantOrder))
	}
	for i, name := range wantOrder {
		if ratings[i].Name != name {
			t.Errorf("ratings[%d] = %s, want %s", i, ratings[i].Name, name)
		}
		if ratings[i].RatingRank != i+1 {
			t.Errorf("ratings[%d].RatingRank = %d, want %d", i, ratings[i].RatingRank, i+1)
		}
		if ratings[i].GamesPlayed != 2 {
			t.Errorf("ratings[%d].GamesPlayed = %d, want 2", i, ratings[i].GamesPlayed)
		}
	}
	if !closeTo(ratings[0].Rating.Rating, 1632.356201105404, 1e-6) {
		t.Errorf("top rating = %v, want 1632.356201105404", ratings[0].Rating.Rating)
	}

	got, err := s.GetByName("  aLiCe ")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != alice.ID {
		t.Errorf("GetByName returned %s, want %s", got.Name, "Alice")
	}
	if !closeTo(got.Rating.Rating, 1497.450852314227, 1e-6) {
		t.Errorf("GetByName rating = %v, want 1497.450852314227", got.Rating.Rating)
	}
}

func TestGetMatches(t *testing.T) {
	s := testService(t)
	alice, err := s.CreatePlayer("Alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := s.CreatePlayer("Bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateMatch(domain.Match{PlayerA: alice, PlayerB: bob, Score: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateMatch(domain.Match{PlayerA: alice, PlayerB: bob, Score: 0}); err != nil {
		t.Fatal(err)
	}

	matches, err := s.GetMatches()
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	// newest first
	if matches[0].ID != 2 || matches[1].ID != 1 {
		t.Errorf("match order = %d, %d, want 2, 1", matches[0].ID, matches[1].ID)
	}
	if matches[1].PlayerA.RatingChange <= 0 {
		t.Errorf("winner change = %v, want positive", matches[1].PlayerA.RatingChange)
	}
	if matches[1].PlayerB.RatingChange >= 0 {
		t.Errorf("loser change = %v, want negative", matches[1].PlayerB.RatingChange)
	}
	if !closeTo(matches[1].PlayerA.RatingChange, 162.310893906298, 1e-6) {
		t.Errorf("first match change = %v, want 162.310893906298", matches[1].PlayerA.RatingChange)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	s := testService(t)
	alice, err := s.CreatePlayer("Alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := s.CreatePlayer("Bob")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		match   domain.Match
		wantErr error
	}{
		{
			name:    "score above one",
			match:   domain.Match{PlayerA: alice, PlayerB: bob, Score: 1.5},
			wantErr: ErrInvalidScore,
		},
		{
			name:    "negative score",
			match:   domain.Match{PlayerA: alice, PlayerB: bob, Score: -0.5},
			wantErr: ErrInvalidScore,
		},
		{
			name:    "score is NaN",
			match:   domain.Match{PlayerA: alice, PlayerB: bob, Score: math.NaN()},
			wantErr: ErrInvalidScore,
		},
		{
			name:    "self play",
			match:   domain.Match{PlayerA: alice, PlayerB: alice, Score: 1},
			wantErr: ErrSamePlayer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateMatch(tt.match)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateMatch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreatePlayerValidation(t *testing.T) {
	s := testService(t)
	if _, err := s.CreatePlayer("Alice"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreatePlayer("  alice "); !errors.Is(err, ErrPlayerExists) {
		t.Errorf("CreatePlayer() error = %v, want ErrPlayerExists", err)
	}
	if _, err := s.CreatePlayer("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("CreatePlayer() error = %v, want ErrEmptyName", err)
	}
}

func TestExportImport(t *testing.T) {
	src := testService(t)
	alice, err := src.CreatePlayer("Alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := src.CreatePlayer("Bob")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.CreateMatch(domain.Match{PlayerA: alice, PlayerB: bob, Score: 1}); err != nil {
		t.Fatal(err)
	}
	data, err := src.Export()
	if err != nil {
		t.Fatal(err)
	}

	dst := testService(t)
	if err := dst.Import(data); err != nil {
		t.Fatal(err)
	}
	ratings, err := dst.GetRatings()
	if err != nil {
		t.Fatal(err)
	}
	if len(ratings) != 2 {
		t.Fatalf("len(ratings) = %d, want 2", len(ratings))
	}
	if ratings[0].Name != "Alice" || ratings[0].GamesPlayed != 1 {
		t.Errorf("top player = %s (%d games), want Alice (1 game)", ratings[0].Name, ratings[0].GamesPlayed)
	}

	if err := dst.Import([]byte(`{"Version": 99}`)); err == nil {
		t.Error("Import() accepted unknown version, want error")
	}
}

func TestGetPlayerGames(t *testing.T) {
	s := testService(t)
	alice, err := s.CreatePlayer("Alice")
	if err != nil {
		t.Fatal(err)
	}
	bob, err := s.CreatePlayer("Bob")
	if err != nil {
		t.Fatal(err)
	}
	carol, err := s.CreatePlayer("Carol")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range []domain.Match{
		{PlayerA: alice, PlayerB: bob, Score: 1},
		{PlayerA: bob, PlayerB: alice, Score: 1},
		{PlayerA: alice, PlayerB: bob, Score: 0.5},
		{PlayerA: carol, PlayerB: alice, Score: 0},
	} {
		if _, err := s.CreateMatch(m); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.GetPlayerGames(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	vsBob := stats[bob.ID]
	if vsBob.Wins != 1 || vsBob.Loses != 1 || vsBob.Draws != 1 {
		t.Errorf("vs Bob = %d/%d/%d, want 1/1/1", vsBob.Wins, vsBob.Loses, vsBob.Draws)
	}
	vsCarol := stats[carol.ID]
	if vsCarol.Wins != 1 || vsCarol.Loses != 0 || vsCarol.Draws != 0 {
		t.Errorf("vs Carol = %d/%d/%d, want 1/0/0", vsCarol.Wins, vsCarol.Loses, vsCarol.Draws)
	}
}

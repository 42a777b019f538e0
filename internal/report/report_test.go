package report

import (
	"glickoserver/internal/glicko2"
	"strings"
	"testing"
)

func testRatings() map[string]glicko2.Rating {
	return map[string]glicko2.Rating{
		"alice": {Rating: 1700.5, Deviation: 95.4, Volatility: 0.059},
		"bob":   {Rating: 1500, Deviation: 350, Volatility: 0.06},
		"carol": {Rating: 1623.18, Deviation: 120, Volatility: 0.061},
		"dave":  {Rating: 1500, Deviation: 80, Volatility: 0.058},
	}
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildSorting(t *testing.T) {
	tests := []struct {
		name    string
		sort    SortMode
		reverse bool
		want    []string
	}{
		{
			name: "rating descending by default",
			sort: SortRating,
			want: []string{"alice", "carol", "bob", "dave"},
		},
		{
			name:    "rating reversed",
			sort:    SortRating,
			reverse: true,
			want:    []string{"bob", "dave", "carol", "alice"},
		},
		{
			name: "deviation ascending",
			sort: SortDeviation,
			want: []string{"dave", "alice", "carol", "bob"},
		},
		{
			name:    "deviation reversed",
			sort:    SortDeviation,
			reverse: true,
			want:    []string{"bob", "carol", "alice", "dave"},
		},
		{
			name: "volatility descending",
			sort: SortVolatility,
			want: []string{"carol", "bob", "alice", "dave"},
		},
		{
			name:    "volatility reversed",
			sort:    SortVolatility,
			reverse: true,
			want:    []string{"dave", "alice", "bob", "carol"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Sort = tt.sort
			opts.Reverse = tt.reverse
			got := names(Build(testRatings(), opts))
			if !equal(got, tt.want) {
				t.Errorf("Build() order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildTiesBreakByName(t *testing.T) {
	ratings := map[string]glicko2.Rating{
		"zed":   {Rating: 1500, Deviation: 100, Volatility: 0.06},
		"anna":  {Rating: 1500, Deviation: 100, Volatility: 0.06},
		"misha": {Rating: 1500, Deviation: 100, Volatility: 0.06},
	}
	want := []string{"anna", "misha", "zed"}
	for i := 0; i < 10; i++ {
		got := names(Build(ratings, DefaultOptions()))
		if !equal(got, want) {
			t.Fatalf("Build() order = %v, want %v", got, want)
		}
	}
}

func TestBuildFilters(t *testing.T) {
	t.Run("maximum deviation", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxDeviation = 100
		got := Build(testRatings(), opts)
		want := []string{"alice", "dave"}
		if !equal(names(got), want) {
			t.Fatalf("Build() = %v, want %v", names(got), want)
		}
		// hidden players keep their places
		if got[0].Rank != 1 || got[1].Rank != 4 {
			t.Errorf("ranks = %d, %d, want 1, 4", got[0].Rank, got[1].Rank)
		}
	})
	t.Run("minimum deviation", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MinDeviation = 100
		want := []string{"carol", "bob"}
		if got := names(Build(testRatings(), opts)); !equal(got, want) {
			t.Errorf("Build() = %v, want %v", got, want)
		}
	})
	t.Run("hide provisional", func(t *testing.T) {
		opts := DefaultOptions()
		opts.HideProvisional = true
		want := []string{"alice", "dave"}
		if got := names(Build(testRatings(), opts)); !equal(got, want) {
			t.Errorf("Build() = %v, want %v", got, want)
		}
	})
	t.Run("limit counts shown rows", func(t *testing.T) {
		opts := DefaultOptions()
		opts.HideProvisional = true
		opts.Limit = 1
		want := []string{"alice"}
		if got := names(Build(testRatings(), opts)); !equal(got, want) {
			t.Errorf("Build() = %v, want %v", got, want)
		}
	})
	t.Run("zero limit hides everything", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Limit = 0
		if got := Build(testRatings(), opts); len(got) != 0 {
			t.Errorf("Build() = %v, want empty", got)
		}
	})
}

func TestBuildProvisionalMark(t *testing.T) {
	opts := DefaultOptions()
	byName := make(map[string]Entry)
	for _, entry := range Build(testRatings(), opts) {
		byName[entry.Name] = entry
	}
	if !byName["bob"].Provisional {
		t.Error("bob with deviation 350 is not provisional")
	}
	if !byName["carol"].Provisional {
		t.Error("carol with deviation 120 is not provisional")
	}
	if byName["alice"].Provisional {
		t.Error("alice with deviation 95.4 is provisional")
	}
}

func TestRender(t *testing.T) {
	entries := []Entry{
		{Rank: 1, Name: "alice", Rating: glicko2.Rating{Rating: 1700.5, Deviation: 95.4, Volatility: 0.059}},
		{Rank: 2, Name: "bob", Rating: glicko2.Rating{Rating: 1500, Deviation: 350, Volatility: 0.06}, Provisional: true},
	}

	var sb strings.Builder
	Render(&sb, entries, 2, false)

	want := "1. 1700.50  095 0.05900000 alice\n" +
		"2. 1500.00? 350 0.06000000 bob\n"
	if sb.String() != want {
		t.Errorf("Render() =\n%q\nwant\n%q", sb.String(), want)
	}
}

func TestRenderPadsRanks(t *testing.T) {
	entries := []Entry{
		{Rank: 7, Name: "alice", Rating: glicko2.Rating{Rating: 1700.5, Deviation: 95.4, Volatility: 0.059}},
	}

	var sb strings.Builder
	Render(&sb, entries, 120, false)

	want := "007. 1700.50  095 0.05900000 alice\n"
	if sb.String() != want {
		t.Errorf("Render() = %q, want %q", sb.String(), want)
	}
}

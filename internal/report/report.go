// Package report turns a rating table into the ranked listing the CSV
// tool prints. Sorting, filtering and colors live here, ratings are
// taken as given.
package report

import (
	"fmt"
	"glickoserver/internal/glicko2"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type SortMode int

const (
	SortRating SortMode = iota
	SortDeviation
	SortVolatility
)

type Options struct {
	Sort    SortMode
	Reverse bool

	// Deviation window, players outside it are hidden. Use infinities
	// for no bound, DefaultOptions sets them up.
	MaxDeviation float64
	MinDeviation float64

	// HideProvisional drops players whose deviation is above
	// ProvisionalThreshold instead of marking them.
	HideProvisional      bool
	ProvisionalThreshold float64

	// Limit caps the number of printed rows, negative means no cap.
	Limit int
}

func DefaultOptions() Options {
	return Options{
		Sort:                 SortRating,
		MaxDeviation:         math.Inf(1),
		MinDeviation:         math.Inf(-1),
		ProvisionalThreshold: 110,
		Limit:                -1,
	}
}

type Entry struct {
	Rank        int
	Name        string
	Rating      glicko2.Rating
	Provisional bool
}

// Build sorts the table, assigns ranks and applies the filters. Ranks
// follow the sorted order before filtering, so a hidden player still
// holds their place. Ties are broken by name to keep the output stable
// between runs.
func Build(ratings map[string]glicko2.Rating, opts Options) []Entry {
	sorted := make([]Entry, 0, len(ratings))
	for name, rating := range ratings {
		sorted = append(sorted, Entry{
			Name:        name,
			Rating:      rating,
			Provisional: rating.Deviation > opts.ProvisionalThreshold,
		})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	sort.SliceStable(sorted, func(i, j int) bool {
		if opts.Reverse {
			i, j = j, i
		}
		switch opts.Sort {
		case SortDeviation:
			return sorted[i].Rating.Deviation < sorted[j].Rating.Deviation
		case SortVolatility:
			return sorted[i].Rating.Volatility > sorted[j].Rating.Volatility
		default:
			return sorted[i].Rating.Rating > sorted[j].Rating.Rating
		}
	})

	entries := make([]Entry, 0, len(sorted))
	for i, entry := range sorted {
		entry.Rank = i + 1
		if entry.Rating.Deviation > opts.MaxDeviation {
			continue
		}
		if entry.Rating.Deviation < opts.MinDeviation {
			continue
		}
		if opts.HideProvisional && entry.Provisional {
			continue
		}
		if opts.Limit >= 0 && len(entries) >= opts.Limit {
			break
		}
		entries = append(entries, entry)
	}
	return entries
}

var (
	ratingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	provisionalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	deviationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	volatilityStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	nameStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

// Render prints one line per entry: zero padded rank, rating, a "?"
// mark on provisional ratings, deviation, volatility and name. Rank
// width follows total, the size of the unfiltered table.
func Render(w io.Writer, entries []Entry, total int, colored bool) {
	width := len(fmt.Sprint(total))
	for _, entry := range entries {
		rating := fmt.Sprintf("%07.2f", entry.Rating.Rating)
		mark := " "
		if entry.Provisional {
			mark = "?"
		}
		deviation := fmt.Sprintf("%03.0f", entry.Rating.Deviation)
		volatility := fmt.Sprintf("%.8f", entry.Rating.Volatility)
		name := entry.Name
		if colored {
			rating = ratingStyle.Render(rating)
			mark = provisionalStyle.Render(mark)
			deviation = deviationStyle.Render(deviation)
			volatility = volatilityStyle.Render(volatility)
			name = nameStyle.Render(name)
		}
		fmt.Fprintf(w, "%0*d. %s%s %s %s %s\n", width, entry.Rank, rating, mark, deviation, volatility, name)
	}
}

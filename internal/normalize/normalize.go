package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Name folds a player name for case insensitive lookups. Not a display
// form, only a map key.
func Name(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

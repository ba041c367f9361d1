package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy hit.
const fuzzyThreshold = 0.8

// Search returns series whose title matches the query: substring matches
// first (catalog order), then fuzzy matches ranked by similarity.
// Matching is case- and accent-insensitive. An empty query returns the
// whole catalog.
func (c *Cache) Search(query string) []cinema.Serie {
	all := c.Series()

	q := normalizeTitle(query)
	if q == "" {
		return all
	}

	var exact []cinema.Serie
	type scored struct {
		serie cinema.Serie
		score float64
	}
	var fuzzy []scored

	for _, s := range all {
		title := normalizeTitle(s.Title)
		if strings.Contains(title, q) {
			exact = append(exact, s)
			continue
		}
		if score := float64(edlib.JaroWinklerSimilarity(q, title)); score >= fuzzyThreshold {
			fuzzy = append(fuzzy, scored{serie: s, score: score})
		}
	}

	// Stable so equal scores keep catalog order.
	sort.SliceStable(fuzzy, func(i, j int) bool {
		return fuzzy[i].score > fuzzy[j].score
	})

	for _, f := range fuzzy {
		exact = append(exact, f.serie)
	}
	return exact
}

// normalizeTitle lowercases, strips accents and collapses whitespace.
func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

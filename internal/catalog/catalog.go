// Package catalog holds the fixed option tables the preference collector offers:
// the eight moods, the five age brackets and the genre palette of each bracket.
package catalog

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

type Bracket string

const (
	BracketTeen   Bracket = "13-17"
	Bracket18to24 Bracket = "18-24"
	Bracket25to34 Bracket = "25-34"
	Bracket35to44 Bracket = "35-44"
	Bracket45Plus Bracket = "45+"
)

// genreMatchThreshold is the minimum Jaro-Winkler similarity for a typed genre
// to be mapped onto a known one.
const genreMatchThreshold = 0.85

var moods = [...]string{
	"Happy", "Energetic", "Relaxed", "Melancholic",
	"Focused", "Romantic", "Party", "Chill",
}

var brackets = [...]Bracket{BracketTeen, Bracket18to24, Bracket25to34, Bracket35to44, Bracket45Plus}

var genresByBracket = map[Bracket][]string{
	BracketTeen:   {"Pop", "Hip Hop", "K-pop", "Alternative", "Indie"},
	Bracket18to24: {"Pop", "Hip Hop", "R&B", "Alternative", "Electronic", "Indie"},
	Bracket25to34: {"Pop", "Rock", "Hip Hop", "R&B", "Alternative", "Electronic"},
	Bracket35to44: {"Rock", "Pop", "Alternative", "Country", "R&B", "Jazz"},
	Bracket45Plus: {"Classic Rock", "Jazz", "Classical", "Country", "Folk"},
}

// Moods returns the selectable moods in display order.
func Moods() []string {
	out := make([]string, len(moods))
	copy(out, moods[:])
	return out
}

func Brackets() []Bracket {
	out := make([]Bracket, len(brackets))
	copy(out, brackets[:])
	return out
}

// AgeBracket maps an age onto its bracket label.
func AgeBracket(age int) Bracket {
	switch {
	case age < 18:
		return BracketTeen
	case age < 25:
		return Bracket18to24
	case age < 35:
		return Bracket25to34
	case age < 45:
		return Bracket35to44
	default:
		return Bracket45Plus
	}
}

// GenresFor returns a copy of the recommended genres for a bracket.
func GenresFor(b Bracket) []string {
	src := genresByBracket[b]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultGenres is the preselection offered for a bracket: its first two genres.
func DefaultGenres(b Bracket) []string {
	g := GenresFor(b)
	if len(g) > 2 {
		g = g[:2]
	}
	return g
}

func NormalizeMood(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, m := range moods {
		if strings.EqualFold(m, s) {
			return m, true
		}
	}
	return "", false
}

// KnownGenres lists every genre that appears in any bracket, first occurrence order.
func KnownGenres() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, b := range brackets {
		for _, g := range genresByBracket[b] {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// MatchGenre canonicalizes a typed genre against the known genres. Exact
// case-insensitive matches win; otherwise the most similar known genre is
// returned when it clears the similarity threshold.
func MatchGenre(s string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(s))
	if want == "" {
		return "", false
	}
	known := KnownGenres()
	for _, g := range known {
		if strings.ToLower(g) == want {
			return g, true
		}
	}

	metric := metrics.NewJaroWinkler()
	metric.CaseSensitive = false
	best := ""
	bestScore := 0.0
	for _, g := range known {
		score := strutil.Similarity(want, strings.ToLower(g), metric)
		if score > bestScore && score >= genreMatchThreshold {
			best = g
			bestScore = score
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

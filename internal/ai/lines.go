package ai

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FlushPolicy decides when a finished song leaves the line accumulator.
type FlushPolicy string

const (
	// FlushOnComplete emits a song as soon as title, artist and genre are
	// known and nothing more can be added to it.
	FlushOnComplete FlushPolicy = "on-genre"
	// FlushOnNextTitle keeps a complete song open until the next Title line,
	// a repeated field or the end of the input.
	FlushOnNextTitle FlushPolicy = "on-title"
)

func ParseFlushPolicy(s string) (FlushPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on-genre", "on-complete", "complete":
		return FlushOnComplete, nil
	case "on-title", "next-title", "":
		return FlushOnNextTitle, nil
	default:
		return "", fmt.Errorf("flush policy must be one of: on-genre, on-title")
	}
}

type field int

const (
	fieldTitle field = iota
	fieldArtist
	fieldGenre
	fieldPopularity
)

func (f field) String() string {
	switch f {
	case fieldTitle:
		return "title"
	case fieldArtist:
		return "artist"
	case fieldGenre:
		return "genre"
	default:
		return "popularity"
	}
}

type recordState int

const (
	stateEmpty recordState = iota
	statePartial
	stateComplete
)

var (
	markerRe     = regexp.MustCompile(`^\s*(?:[-*•+]+|\d+[.)])\s+`)
	labelRe      = regexp.MustCompile(`(?i)\b(title|artist|genre|popularity)(?:\s+(?:name|score))?\s*\**\s*:\s*(.*)$`)
	numberRe     = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)`)
	byLineRe     = regexp.MustCompile(`^(.+)\s+by\s+(.+?)\s*\(([^()]+)\)\s*$`)
	leadingNumRe = regexp.MustCompile(`^\s*(?:\d+\s*[.):\-]\s*|[-*•#]+\s*)`)
)

// accumulator builds one song at a time from labelled lines.
type accumulator struct {
	policy   FlushPolicy
	song     Song
	seen     [4]bool
	badScore string
	songs    []Song
	warnings []string
}

func newAccumulator(policy FlushPolicy) *accumulator {
	if policy == "" {
		policy = FlushOnNextTitle
	}
	return &accumulator{policy: policy, songs: []Song{}}
}

func (a *accumulator) state() recordState {
	switch {
	case a.seen[fieldTitle] && a.seen[fieldArtist] && a.seen[fieldGenre]:
		return stateComplete
	case a.seen[fieldTitle] || a.seen[fieldArtist] || a.seen[fieldGenre] || a.seen[fieldPopularity]:
		return statePartial
	default:
		return stateEmpty
	}
}

func (a *accumulator) apply(f field, value string) {
	st := a.state()
	switch {
	case f == fieldTitle && st == stateComplete:
		a.flush()
	case f == fieldTitle && st == statePartial && a.onlyPopularity():
		// A score given ahead of its title stays with that title.
	case f == fieldTitle && st == statePartial:
		a.discard()
	case st == stateComplete && a.seen[f]:
		// A repeated field starts the next record.
		a.flush()
	case a.policy == FlushOnComplete && st == stateComplete && f != fieldPopularity:
		a.flush()
	}

	switch f {
	case fieldTitle:
		a.song.Title = value
	case fieldArtist:
		a.song.Artist = value
	case fieldGenre:
		a.song.Genre = value
	case fieldPopularity:
		if p, ok := parsePopularity(value); ok {
			a.song.Popularity = p
			a.badScore = ""
		} else {
			a.song.Popularity = DefaultPopularity
			a.badScore = value
		}
	}
	a.seen[f] = value != "" || f == fieldPopularity

	if a.policy == FlushOnComplete && a.state() == stateComplete && a.seen[fieldPopularity] {
		a.flush()
	}
}

func (a *accumulator) onlyPopularity() bool {
	return a.seen[fieldPopularity] && !a.seen[fieldTitle] && !a.seen[fieldArtist] && !a.seen[fieldGenre]
}

func (a *accumulator) flush() {
	s := a.song
	if !a.seen[fieldPopularity] {
		s.Popularity = DefaultPopularity
	}
	if a.badScore != "" {
		a.warnings = append(a.warnings, fmt.Sprintf("unreadable popularity %q for %q; using %.1f", a.badScore, s.Title, DefaultPopularity))
	}
	a.songs = append(a.songs, s)
	a.reset()
}

func (a *accumulator) discard() {
	missing := []string{}
	for _, f := range []field{fieldTitle, fieldArtist, fieldGenre} {
		if !a.seen[f] {
			missing = append(missing, f.String())
		}
	}
	label := a.song.Title
	if label == "" {
		label = a.song.Artist
	}
	if a.onlyPopularity() {
		a.warnings = append(a.warnings, "skipped a popularity line that belongs to no song")
	} else {
		a.warnings = append(a.warnings, fmt.Sprintf("skipped incomplete song %q (missing %s)", label, strings.Join(missing, ", ")))
	}
	a.reset()
}

func (a *accumulator) reset() {
	a.song = Song{}
	a.seen = [4]bool{}
	a.badScore = ""
}

func (a *accumulator) finish() ([]Song, []string) {
	switch a.state() {
	case stateComplete:
		a.flush()
	case statePartial:
		a.discard()
	}
	return a.songs, a.warnings
}

// parseLabelledLines reads "Title:/Artist:/Genre:/Popularity:" blocks.
func parseLabelledLines(text string, policy FlushPolicy) ([]Song, []string) {
	acc := newAccumulator(policy)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = markerRe.ReplaceAllString(line, "")
		m := labelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var f field
		switch strings.ToLower(m[1]) {
		case "title":
			f = fieldTitle
		case "artist":
			f = fieldArtist
		case "genre":
			f = fieldGenre
		default:
			f = fieldPopularity
		}
		acc.apply(f, cleanValue(m[2]))
	}
	return acc.finish()
}

// parseByLines is the last-resort heuristic for "<title> by <artist> (<genre>)" lines.
func parseByLines(text string) []Song {
	out := []Song{}
	for _, line := range strings.Split(text, "\n") {
		m := byLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		title := cleanValue(leadingNumRe.ReplaceAllString(m[1], ""))
		artist := cleanValue(m[2])
		genre := cleanValue(m[3])
		if title == "" || artist == "" || genre == "" {
			continue
		}
		out = append(out, Song{Title: title, Artist: artist, Genre: genre, Popularity: DefaultPopularity})
	}
	return out
}

func cleanValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), " \t*\"“”`")
}

// parsePopularity reads the first number in s. A trailing percent sign scales
// it down to [0,1]; the result is always clamped.
func parsePopularity(s string) (float64, bool) {
	loc := numberRe.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[loc[0]:loc[1]], 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(strings.TrimSpace(s[loc[1]:]), "%") {
		v /= 100
	}
	return clampUnit(v), true
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type ParseMode string

const (
	ModeAuto  ParseMode = "auto"
	ModeLines ParseMode = "lines"
	ModeJSON  ParseMode = "json"
)

func ParseParseMode(s string) (ParseMode, error) {
	switch ParseMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto, "":
		return ModeAuto, nil
	case ModeLines:
		return ModeLines, nil
	case ModeJSON:
		return ModeJSON, nil
	default:
		return "", fmt.Errorf("parse mode must be one of: auto, lines, json")
	}
}

// ModeFor returns the parse mode matching the output format a prompt asked for.
func ModeFor(format OutputFormat) ParseMode {
	if format == FormatJSON {
		return ModeJSON
	}
	return ModeLines
}

const (
	StrategyLines  = "lines"
	StrategyByLine = "by-line"
	StrategyJSON   = "json"
)

type ParseResult struct {
	Songs    []Song   `json:"songs"`
	Warnings []string `json:"warnings,omitempty"`
	Strategy string   `json:"strategy,omitempty"`
}

// Parser turns raw model text into a bounded, popularity-ordered song list.
// The zero value parses in auto mode, flushes on the next title and keeps
// at most MaxSongs songs.
type Parser struct {
	Mode  ParseMode
	Flush FlushPolicy
	Limit int
}

// Parse never panics on malformed input. On total failure it returns an empty
// (non-nil) song list together with ErrInvalidFormat or ErrNoSongs.
func (p Parser) Parse(text string) (ParseResult, error) {
	limit := p.Limit
	if limit <= 0 || limit > MaxSongs {
		limit = MaxSongs
	}
	return p.parse(text, limit)
}

// ParseCandidates parses a first-pass response that will be narrowed down by
// a refine request. It keeps up to MaxCandidates songs instead of MaxSongs.
func (p Parser) ParseCandidates(text string) (ParseResult, error) {
	return p.parse(text, MaxCandidates)
}

func (p Parser) parse(text string, limit int) (ParseResult, error) {
	res := ParseResult{Songs: []Song{}}
	if strings.TrimSpace(text) == "" {
		return res, fmt.Errorf("%w: empty response", ErrNoSongs)
	}

	mode := p.Mode
	if mode == "" || mode == ModeAuto {
		mode = detectMode(text)
	}

	if mode == ModeJSON {
		songs, warnings, err := parseStructured(text)
		res.Warnings = append(res.Warnings, warnings...)
		if err == nil {
			res.Strategy = StrategyJSON
			res.Songs = finalize(songs, limit)
			if len(res.Songs) == 0 {
				return res, fmt.Errorf("%w: songs array is empty", ErrNoSongs)
			}
			return res, nil
		}
		res.Warnings = append(res.Warnings, "response is not valid JSON ("+err.Error()+"); trying line-oriented recovery")
		recovered := p.parseLineOriented(text, &res)
		if len(recovered) == 0 {
			res.Strategy = ""
			return res, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		res.Songs = finalize(recovered, limit)
		return res, nil
	}

	songs := p.parseLineOriented(text, &res)
	if len(songs) == 0 {
		res.Strategy = ""
		return res, ErrNoSongs
	}
	res.Songs = finalize(songs, limit)
	return res, nil
}

func (p Parser) parseLineOriented(text string, res *ParseResult) []Song {
	songs, warnings := parseLabelledLines(text, p.Flush)
	res.Warnings = append(res.Warnings, warnings...)
	if len(songs) > 0 {
		res.Strategy = StrategyLines
		return songs
	}
	songs = parseByLines(text)
	if len(songs) > 0 {
		res.Strategy = StrategyByLine
		res.Warnings = append(res.Warnings, "no labelled songs found; read \"title by artist (genre)\" lines instead")
	}
	return songs
}

func finalize(songs []Song, limit int) []Song {
	out := make([]Song, len(songs))
	copy(out, songs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Popularity > out[j].Popularity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// detectMode picks JSON when the text is, or embeds, a valid JSON value,
// such as a fenced block after an introductory sentence.
func detectMode(text string) ParseMode {
	body := stripCodeFence(text)
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		return ModeJSON
	}
	if _, ok := jsonSpan(body); ok {
		return ModeJSON
	}
	return ModeLines
}

// stripCodeFence removes ```json ... ``` or ``` ... ``` wrapping.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	after, found := strings.CutPrefix(s, "```")
	if !found {
		return s
	}
	if nl := strings.IndexByte(after, '\n'); nl >= 0 && !strings.ContainsAny(after[:nl], "{[") {
		after = after[nl+1:]
	} else {
		after = strings.TrimPrefix(after, "json")
	}
	if idx := strings.LastIndex(after, "```"); idx >= 0 {
		after = after[:idx]
	}
	return strings.TrimSpace(after)
}

func parseStructured(text string) ([]Song, []string, error) {
	raw := stripCodeFence(text)
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		span, ok := jsonSpan(raw)
		if !ok {
			return nil, nil, err
		}
		if err2 := json.Unmarshal([]byte(span), &doc); err2 != nil {
			return nil, nil, err
		}
	}

	items, ok := songItems(doc)
	if !ok {
		return nil, nil, fmt.Errorf("expected an array of songs or an object with a \"songs\" array")
	}

	songs := make([]Song, 0, len(items))
	warnings := []string{}
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("song #%d is not an object; skipped", i+1))
			continue
		}
		song := Song{
			Title:  stringField(obj, "title"),
			Artist: stringField(obj, "artist"),
			Genre:  stringField(obj, "genre"),
		}
		if missing := missingFields(song); len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf("song #%d missing %s; skipped", i+1, strings.Join(missing, ", ")))
			continue
		}
		rawPop, present := lookup(obj, "popularity")
		pop, ok := coercePopularity(rawPop)
		switch {
		case !present:
			warnings = append(warnings, fmt.Sprintf("song %q has no popularity; using %.1f", song.Title, DefaultPopularity))
			pop = DefaultPopularity
		case !ok:
			warnings = append(warnings, fmt.Sprintf("song %q has unreadable popularity %v; using %.1f", song.Title, rawPop, DefaultPopularity))
			pop = DefaultPopularity
		}
		song.Popularity = pop
		songs = append(songs, song)
	}
	return songs, warnings, nil
}

// jsonSpan returns the outermost object, or failing that array, in s.
func jsonSpan(s string) (string, bool) {
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		start := strings.Index(s, pair[0])
		end := strings.LastIndex(s, pair[1])
		if start >= 0 && end > start {
			span := s[start : end+1]
			if json.Valid([]byte(span)) {
				return span, true
			}
		}
	}
	return "", false
}

func songItems(doc any) ([]any, bool) {
	switch v := doc.(type) {
	case []any:
		return v, true
	case map[string]any:
		if raw, ok := lookup(v, "songs"); ok {
			arr, ok := raw.([]any)
			return arr, ok
		}
	}
	return nil, false
}

func lookup(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func stringField(obj map[string]any, key string) string {
	raw, ok := lookup(obj, key)
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func coercePopularity(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return clampUnit(v), true
	case string:
		return parsePopularity(v)
	default:
		return 0, false
	}
}

func missingFields(s Song) []string {
	missing := []string{}
	if s.Title == "" {
		missing = append(missing, "title")
	}
	if s.Artist == "" {
		missing = append(missing, "artist")
	}
	if s.Genre == "" {
		missing = append(missing, "genre")
	}
	return missing
}

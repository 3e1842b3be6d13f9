package ai

import (
	"fmt"
	"strings"
)

type OutputFormat string

const (
	FormatLines OutputFormat = "lines"
	FormatJSON  OutputFormat = "json"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatLines:
		return FormatLines, nil
	case FormatJSON, "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("format must be one of: lines, json")
	}
}

type PromptOptions struct {
	Count  int
	Format OutputFormat
}

const linesTemplate = `Format each song as:
- Title: [song title]
- Artist: [artist name]
- Genre: [genre]
- Popularity: [score]`

const jsonTemplate = `Return ONLY a JSON object, no other text, in this shape:
{"songs": [{"title": "song title", "artist": "artist name", "genre": "genre", "popularity": 0.75}]}`

// SystemPrompt is the optional system instruction sent with every request.
func SystemPrompt(format OutputFormat) string {
	if format == FormatJSON {
		return "You are a music expert who builds personalized playlists. Reply with valid JSON only."
	}
	return "You are a music expert who builds personalized playlists."
}

func BuildPrompt(req PreferenceRequest, opts PromptOptions) string {
	count := opts.Count
	if count <= 0 {
		count = MaxSongs
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a playlist of %d songs based on the following criteria:\n", count)
	fmt.Fprintf(&b, "- Age group: %s\n", req.Bracket())
	fmt.Fprintf(&b, "- Mood: %s\n", req.Mood)
	fmt.Fprintf(&b, "- Favorite genres: %s\n", strings.Join(req.FavoriteGenres, ", "))
	b.WriteString("\nFor each song, provide:\n- Song title\n- Artist name\n- Genre\n- Popularity score (0-1)\n\n")
	if d := req.Distribution; d != nil {
		fmt.Fprintf(&b, "Popularity distribution: %d%% popular hits (score 0.7-1.0), %d%% moderately known songs (0.4-0.7), %d%% hidden gems (below 0.4).\n",
			d.Popular, d.Moderate, d.Hidden)
	} else {
		b.WriteString("Include a mix of popular and lesser-known songs.\n")
	}
	b.WriteString("\n")
	b.WriteString(formatTemplate(opts.Format))
	return b.String()
}

// BuildRefinePrompt asks the model to choose the best keep songs from an
// existing candidate list.
func BuildRefinePrompt(songs []Song, keep int, format OutputFormat) string {
	if keep <= 0 {
		keep = MaxSongs
	}
	lines := make([]string, 0, len(songs))
	for _, s := range songs {
		lines = append(lines, fmt.Sprintf("%s by %s (%s)", s.Title, s.Artist, s.Genre))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From the following %d songs, select the best %d songs that provide:\n", len(songs), keep)
	b.WriteString("- A balanced mix of popular hits and hidden gems\n")
	b.WriteString("- Good flow between songs\n")
	b.WriteString("- Variety in genres while maintaining cohesion\n")
	b.WriteString("- Emotional range appropriate for the mood\n\n")
	b.WriteString(formatTemplate(format))
	b.WriteString("\n\nCurrent playlist:\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func formatTemplate(format OutputFormat) string {
	if format == FormatJSON {
		return jsonTemplate
	}
	return linesTemplate
}

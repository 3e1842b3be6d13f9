package playlist

import (
	"fmt"
	"strings"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
)

// ExportText renders one "<rank>. <title> by <artist> (<genre>)" line per song.
func ExportText(songs []ai.Song, withScores bool) string {
	lines := make([]string, 0, len(songs))
	for i, s := range songs {
		line := fmt.Sprintf("%d. %s by %s (%s)", i+1, s.Title, s.Artist, s.Genre)
		if withScores {
			line += fmt.Sprintf(" - Popularity: %.2f", s.Popularity)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

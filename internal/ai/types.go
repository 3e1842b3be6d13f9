package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cabobadilla/AIMusicAgent/internal/catalog"
)

// DefaultPopularity is assigned when the model omits a popularity score or
// gives one that cannot be read.
const DefaultPopularity = 0.5

// MaxSongs bounds every parsed playlist.
const MaxSongs = 25

// MaxCandidates bounds the first-pass list handed to a refine request.
const MaxCandidates = 50

type Song struct {
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Genre      string  `json:"genre"`
	Popularity float64 `json:"popularity"`
}

// HiddenGem reports whether the song counts as lesser-known material.
func (s Song) HiddenGem() bool {
	return s.Popularity < 0.5
}

// Distribution is the requested popularity split in percent.
type Distribution struct {
	Popular  int `json:"popular"`
	Moderate int `json:"moderate"`
	Hidden   int `json:"hidden"`
}

type PreferenceRequest struct {
	Age            int           `json:"age"`
	Mood           string        `json:"mood"`
	FavoriteGenres []string      `json:"favoriteGenres"`
	Distribution   *Distribution `json:"distribution,omitempty"`
}

func (r PreferenceRequest) Bracket() catalog.Bracket {
	return catalog.AgeBracket(r.Age)
}

func (r PreferenceRequest) Validate() error {
	if r.Age <= 0 {
		return fmt.Errorf("age must be a positive integer, got %d", r.Age)
	}
	if _, ok := catalog.NormalizeMood(r.Mood); !ok {
		return fmt.Errorf("mood must be one of: %s", strings.Join(catalog.Moods(), ", "))
	}
	hasGenre := false
	for _, g := range r.FavoriteGenres {
		if strings.TrimSpace(g) != "" {
			hasGenre = true
			break
		}
	}
	if !hasGenre {
		return errors.New("select at least one genre")
	}
	if d := r.Distribution; d != nil {
		if d.Popular < 0 || d.Moderate < 0 || d.Hidden < 0 {
			return errors.New("distribution percentages must not be negative")
		}
		if sum := d.Popular + d.Moderate + d.Hidden; sum != 100 {
			return fmt.Errorf("distribution percentages must sum to 100, got %d", sum)
		}
	}
	return nil
}

type CompletionRequest struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

var (
	ErrGenerationFailed = errors.New("music model request failed")
	ErrMissingAPIKey    = errors.New("no api key configured")
	ErrInvalidFormat    = errors.New("model response is not in the expected format")
	ErrNoSongs          = errors.New("model response contained no complete songs")
)

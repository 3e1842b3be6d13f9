package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
	"github.com/cabobadilla/AIMusicAgent/internal/catalog"
	"github.com/cabobadilla/AIMusicAgent/internal/output"
)

// Completer is the text-generation service a playlist is requested from.
type Completer interface {
	Complete(ctx context.Context, req ai.CompletionRequest) (string, error)
}

type GeneratorOptions struct {
	Client      Completer
	Request     ai.PreferenceRequest
	Format      ai.OutputFormat
	Flush       ai.FlushPolicy
	Model       string
	Temperature float64
	MaxTokens   int
	Count       int
	Refine      bool
	DryRun      bool
	Output      *output.Output
}

type Result struct {
	RequestID string    `json:"requestId"`
	Prompt    string    `json:"prompt,omitempty"`
	Songs     []ai.Song `json:"songs"`
	Warnings  []string  `json:"warnings,omitempty"`
	Strategy  string    `json:"strategy,omitempty"`
	Refined   bool      `json:"refined"`
	DryRun    bool      `json:"dryRun"`
}

const (
	refineCandidates      = ai.MaxCandidates
	refineTemperatureDrop = 0.1
)

// GenericFailureMessage is what users see for any service-side failure.
const GenericFailureMessage = "Could not reach the music model. Please check your API key and try again."

// Generate builds the prompt, makes a single completion call (two with
// Refine) and parses the reply. Songs is never nil; whenever it is empty the
// returned error explains why and Warnings carries the user-facing diagnostic.
func Generate(ctx context.Context, options GeneratorOptions) (Result, error) {
	out := options.Output
	if out == nil {
		out = output.New(output.Options{Quiet: true})
	}
	res := Result{RequestID: uuid.NewString(), Songs: []ai.Song{}}
	log := slog.With("request_id", res.RequestID)

	req := options.Request
	if err := req.Validate(); err != nil {
		return res, err
	}
	if mood, ok := catalog.NormalizeMood(req.Mood); ok {
		req.Mood = mood
	}

	format := options.Format
	if format == "" {
		format = ai.FormatJSON
	}
	count := options.Count
	if count <= 0 {
		count = ai.MaxSongs
		if options.Refine {
			count = refineCandidates
		}
	}

	res.Prompt = ai.BuildPrompt(req, ai.PromptOptions{Count: count, Format: format})
	log.Debug("playlist: prompt built", "bracket", req.Bracket(), "mood", req.Mood, "genres", req.FavoriteGenres, "count", count, "format", format)
	if options.DryRun {
		res.DryRun = true
		return res, nil
	}
	if options.Client == nil {
		return res, errors.New("no generation client configured")
	}

	parser := ai.Parser{Mode: ai.ModeFor(format), Flush: options.Flush, Limit: ai.MaxSongs}

	out.Info(out.Gray(fmt.Sprintf("Generating playlist for a %s listener feeling %s...", req.Bracket(), req.Mood)))
	text, err := options.Client.Complete(ctx, ai.CompletionRequest{
		System:      ai.SystemPrompt(format),
		Prompt:      res.Prompt,
		Model:       options.Model,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		log.Debug("playlist: generation failed", "err", err)
		res.Warnings = append(res.Warnings, GenericFailureMessage)
		return res, err
	}
	out.Debug("Raw model reply:\n" + text)

	var parsed ai.ParseResult
	if options.Refine {
		parsed, err = parser.ParseCandidates(text)
	} else {
		parsed, err = parser.Parse(text)
	}
	res.Warnings = append(res.Warnings, parsed.Warnings...)
	if err != nil {
		log.Debug("playlist: parse failed", "err", err)
		res.Warnings = append(res.Warnings, "The model's reply could not be read as a playlist.")
		return res, err
	}
	res.Strategy = parsed.Strategy
	res.Songs = parsed.Songs
	log.Debug("playlist: parsed", "songs", len(res.Songs), "strategy", parsed.Strategy)

	if options.Refine {
		res.Songs, res.Refined = refine(ctx, options, parser, format, res.Songs, &res, out, log)
	}
	if len(res.Songs) > ai.MaxSongs {
		res.Songs = res.Songs[:ai.MaxSongs]
	}
	return res, nil
}

// refine asks the model to narrow candidates down to MaxSongs. Any failure
// keeps the first-pass list.
func refine(ctx context.Context, options GeneratorOptions, parser ai.Parser, format ai.OutputFormat, candidates []ai.Song, res *Result, out *output.Output, log *slog.Logger) ([]ai.Song, bool) {
	if len(candidates) <= ai.MaxSongs {
		log.Debug("playlist: refine skipped", "candidates", len(candidates))
		return candidates, false
	}

	temperature := options.Temperature - refineTemperatureDrop
	if temperature < 0 {
		temperature = 0
	}
	out.Info(out.Gray(fmt.Sprintf("Refining %d candidates down to %d...", len(candidates), ai.MaxSongs)))
	text, err := options.Client.Complete(ctx, ai.CompletionRequest{
		System:      ai.SystemPrompt(format),
		Prompt:      ai.BuildRefinePrompt(candidates, ai.MaxSongs, format),
		Model:       options.Model,
		Temperature: temperature,
		MaxTokens:   options.MaxTokens,
	})
	if err != nil {
		log.Debug("playlist: refine failed", "err", err)
		res.Warnings = append(res.Warnings, "Refinement step failed; showing the first-pass playlist.")
		return candidates[:ai.MaxSongs], false
	}

	parsed, err := parser.Parse(text)
	res.Warnings = append(res.Warnings, parsed.Warnings...)
	if err != nil {
		log.Debug("playlist: refine parse failed", "err", err)
		res.Warnings = append(res.Warnings, "Refined playlist could not be read; showing the first-pass playlist.")
		return candidates[:ai.MaxSongs], false
	}
	return parsed.Songs, true
}

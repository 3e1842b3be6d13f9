package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
	"github.com/cabobadilla/AIMusicAgent/internal/catalog"
	"github.com/cabobadilla/AIMusicAgent/internal/config"
	"github.com/cabobadilla/AIMusicAgent/internal/playlist"
	"github.com/cabobadilla/AIMusicAgent/internal/storage"
)

type generateOptions struct {
	Age         int
	Mood        string
	Genres      []string
	Popular     int
	Moderate    int
	Hidden      int
	Count       int
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	Format      string
	Flush       string
	Refine      bool
	DryRun      bool
	Export      exportOptions
}

func newGenerateCommand(cfg config.Config, g *globalOptions) *cobra.Command {
	opts := generateOptions{
		Age:         25,
		Mood:        "Happy",
		Popular:     40,
		Moderate:    40,
		Hidden:      20,
		Provider:    string(cfg.DefaultProvider),
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Format:      string(cfg.Format),
		Flush:       string(cfg.FlushPolicy),
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a playlist from your age, mood and favorite genres",
		Example: strings.Join([]string{
			"  musicagent generate --age 28 --mood Energetic --genre Rock --genre Electronic",
			"  musicagent generate -a 40 -m Relaxed --popular 20 --moderate 30 --hidden 50",
			"  musicagent generate --refine --export playlist.txt",
		}, "\n"),
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, cfg, g, opts)
		},
	}

	fs := cmd.Flags()
	fs.SortFlags = false
	fs.IntVarP(&opts.Age, "age", "a", opts.Age, "Listener age")
	fs.StringVarP(&opts.Mood, "mood", "m", opts.Mood, "Mood: "+strings.Join(catalog.Moods(), ", "))
	fs.StringSliceVarP(&opts.Genres, "genre", "g", nil, "Favorite genre (repeatable or comma separated; defaults to recommendations for your age)")
	fs.IntVar(&opts.Popular, "popular", opts.Popular, "Percent of popular hits")
	fs.IntVar(&opts.Moderate, "moderate", opts.Moderate, "Percent of moderately known songs")
	fs.IntVar(&opts.Hidden, "hidden", opts.Hidden, "Percent of hidden gems")
	fs.IntVarP(&opts.Count, "count", "c", 0, "Songs to request from the model (1-50; default 25, or 50 with --refine)")
	fs.StringVarP(&opts.Provider, "provider", "p", opts.Provider, "AI provider: "+strings.Join(ai.ProviderNames(), ", "))
	fs.StringVar(&opts.Model, "model", opts.Model, "Model name (default depends on provider)")
	fs.Float64Var(&opts.Temperature, "temperature", opts.Temperature, "Sampling temperature")
	fs.IntVar(&opts.MaxTokens, "max-tokens", opts.MaxTokens, "Maximum tokens in the reply")
	fs.StringVar(&opts.Format, "format", opts.Format, "Reply format requested from the model: json, lines")
	fs.StringVar(&opts.Flush, "flush", opts.Flush, "When line-mode songs are emitted: on-title, on-genre")
	fs.BoolVar(&opts.Refine, "refine", false, "Request 50 candidates, then ask the model to pick the best 25")
	fs.BoolVarP(&opts.DryRun, "dry-run", "d", false, "Print the prompt without calling the model")
	addExportFlags(cmd, &opts.Export)

	_ = cmd.RegisterFlagCompletionFunc("mood", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.Moods(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("genre", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if cmd.Flags().Changed("age") {
			return catalog.GenresFor(catalog.AgeBracket(opts.Age)), cobra.ShellCompDirectiveNoFileComp
		}
		return catalog.KnownGenres(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("provider", cobra.FixedCompletions(ai.ProviderNames(), cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "lines"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("flush", cobra.FixedCompletions([]string{"on-title", "on-genre"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func addExportFlags(cmd *cobra.Command, exp *exportOptions) {
	fs := cmd.Flags()
	fs.StringVarP(&exp.Path, "export", "o", "", "Write the playlist as text to a file or directory (- for stdout)")
	fs.BoolVar(&exp.Save, "save", false, "Write the playlist to "+storage.DefaultExportPath())
	fs.BoolVar(&exp.Scores, "scores", false, "Include popularity scores in the export")
}

// buildRequest turns flags into a validated preference request.
func buildRequest(cmd *cobra.Command, opts generateOptions) (ai.PreferenceRequest, []string, error) {
	notes := []string{}
	req := ai.PreferenceRequest{Age: opts.Age, Mood: opts.Mood}
	if mood, ok := catalog.NormalizeMood(opts.Mood); ok {
		req.Mood = mood
	}

	for _, raw := range opts.Genres {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if canonical, ok := catalog.MatchGenre(name); ok {
			if canonical != name {
				slog.Debug("cli: genre matched", "input", name, "genre", canonical)
			}
			name = canonical
		}
		req.FavoriteGenres = append(req.FavoriteGenres, name)
	}
	if len(req.FavoriteGenres) == 0 && opts.Age > 0 {
		req.FavoriteGenres = catalog.DefaultGenres(req.Bracket())
		notes = append(notes, fmt.Sprintf("Using recommended genres for %s: %s", req.Bracket(), strings.Join(req.FavoriteGenres, ", ")))
	}

	fs := cmd.Flags()
	if anyChanged(fs, "popular", "moderate", "hidden") {
		req.Distribution = &ai.Distribution{Popular: opts.Popular, Moderate: opts.Moderate, Hidden: opts.Hidden}
	}
	if fs.Changed("count") && (opts.Count < 1 || opts.Count > ai.MaxCandidates) {
		return req, notes, UsageError{Msg: fmt.Sprintf("count must be between 1 and %d", ai.MaxCandidates)}
	}
	if err := req.Validate(); err != nil {
		return req, notes, UsageError{Msg: err.Error()}
	}
	return req, notes, nil
}

func anyChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

func runGenerate(cmd *cobra.Command, cfg config.Config, g *globalOptions, opts generateOptions) error {
	out := g.output(cmd)

	provider, err := ai.ParseProvider(opts.Provider)
	if err != nil {
		return UsageError{Msg: err.Error()}
	}
	format, err := ai.ParseOutputFormat(opts.Format)
	if err != nil {
		return UsageError{Msg: err.Error()}
	}
	flush, err := ai.ParseFlushPolicy(opts.Flush)
	if err != nil {
		return UsageError{Msg: err.Error()}
	}
	req, notes, err := buildRequest(cmd, opts)
	if err != nil {
		return err
	}
	for _, n := range notes {
		out.Info(out.Gray(n))
	}

	var client *ai.Client
	if !opts.DryRun {
		apiKey := cfg.APIKey(provider)
		if apiKey == "" {
			msg := "No API key configured for provider: " + string(provider)
			hint := "Set " + config.KeyEnvVar(provider) + " in your environment or .env file"
			if g.JSON {
				if err := out.EmitJSON(map[string]any{
					"provider": provider,
					"songs":    []ai.Song{},
					"error":    msg + ". " + hint,
				}); err != nil {
					return err
				}
				return errReported
			}
			out.Error(msg)
			out.Error(hint)
			return errReported
		}
		client = ai.NewClient(provider, apiKey)
		client.BaseURL = cfg.BaseURL
		out.Info(out.Gray("Using provider: " + string(provider)))
	}

	res, err := playlist.Generate(cmd.Context(), playlist.GeneratorOptions{
		Client:      client,
		Request:     req,
		Format:      format,
		Flush:       flush,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Count:       opts.Count,
		Refine:      opts.Refine,
		DryRun:      opts.DryRun,
		Output:      out,
	})
	if opts.DryRun && err == nil {
		if g.JSON {
			return out.EmitJSON(res)
		}
		out.Print(out.Bold("Prompt:"))
		out.Raw(res.Prompt + "\n")
		return nil
	}

	if g.JSON {
		payload := map[string]any{
			"requestId": res.RequestID,
			"provider":  provider,
			"songs":     res.Songs,
			"warnings":  res.Warnings,
			"strategy":  res.Strategy,
			"refined":   res.Refined,
		}
		if err != nil {
			payload["error"] = userMessage(err)
		}
		if emitErr := out.EmitJSON(payload); emitErr != nil {
			return emitErr
		}
		if err != nil {
			return errReported
		}
		return writeExport(out, res.Songs, opts.Export)
	}

	if err != nil {
		return reportFailure(out, res.Warnings, err)
	}
	return renderSongs(out, res.Songs, res.Warnings, opts.Export)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
	"github.com/cabobadilla/AIMusicAgent/internal/config"
	"github.com/cabobadilla/AIMusicAgent/internal/output"
	"github.com/cabobadilla/AIMusicAgent/internal/playlist"
)

const Version = "1.0.0"

// UsageError marks bad invocations; main maps it to exit code 2.
type UsageError struct{ Msg string }

func (e UsageError) Error() string { return e.Msg }

type globalOptions struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool
	NoColor bool
	Debug   bool
}

func (g *globalOptions) output(cmd *cobra.Command) *output.Output {
	return output.New(output.Options{
		JSON:    g.JSON,
		Plain:   g.Plain,
		Quiet:   g.Quiet,
		Verbose: g.Verbose,
		NoColor: g.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	})
}

// Execute runs the command tree against args (without the program name).
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(config.Load())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func NewRootCommand(cfg config.Config) *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "musicagent",
		Short:         "AI-powered playlist generator",
		Long:          "Builds a personalized playlist from your age, mood and favorite genres using an LLM.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.Debug {
				enableDebugLogging()
			}
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return UsageError{Msg: err.Error() + "\n(run with --help for usage)"}
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&g.JSON, "json", false, "Output machine-readable JSON")
	pf.BoolVar(&g.Plain, "plain", false, "Disable decorative formatting")
	pf.BoolVarP(&g.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVarP(&g.Verbose, "verbose", "v", false, "Show the raw model reply and other diagnostics")
	pf.BoolVar(&g.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&g.Debug, "debug", false, "Emit debug logs to stderr")

	root.AddCommand(
		newGenerateCommand(cfg, g),
		newParseCommand(cfg, g),
		newMoodsCommand(g),
		newGenresCommand(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Args:  noArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
			},
		},
	)
	return root
}

// userMessage turns an error from the generation path into the single line a
// user should read.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ai.ErrGenerationFailed):
		return playlist.GenericFailureMessage
	case errors.Is(err, ai.ErrInvalidFormat):
		return "The model's reply was not in the expected format; no playlist could be built."
	case errors.Is(err, ai.ErrNoSongs):
		return "No complete songs could be read from the reply."
	default:
		return err.Error()
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return UsageError{Msg: "unexpected arguments: " + args[0] + "\n(run with --help for usage)"}
	}
	return nil
}

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
	"github.com/cabobadilla/AIMusicAgent/internal/config"
)

type parseOptions struct {
	Mode   string
	Flush  string
	Limit  int
	Export exportOptions
}

func newParseCommand(cfg config.Config, g *globalOptions) *cobra.Command {
	opts := parseOptions{Mode: string(ai.ModeAuto), Flush: string(cfg.FlushPolicy), Limit: ai.MaxSongs}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a saved model reply into a playlist",
		Long:  "Reads a model reply from a file, or from stdin when piped, and prints the songs it contains.",
		Example: strings.Join([]string{
			"  musicagent parse reply.txt",
			"  pbpaste | musicagent parse --mode lines --flush on-genre",
		}, "\n"),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return UsageError{Msg: "parse takes at most one file\n(run with --help for usage)"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, g, opts, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.Mode, "mode", opts.Mode, "Reply format: auto, lines, json")
	fs.StringVar(&opts.Flush, "flush", opts.Flush, "When line-mode songs are emitted: on-title, on-genre")
	fs.IntVar(&opts.Limit, "limit", opts.Limit, "Maximum songs to keep (1-25)")
	addExportFlags(cmd, &opts.Export)
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions([]string{"auto", "lines", "json"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("flush", cobra.FixedCompletions([]string{"on-title", "on-genre"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func runParse(cmd *cobra.Command, g *globalOptions, opts parseOptions, args []string) error {
	out := g.output(cmd)

	mode, err := ai.ParseParseMode(opts.Mode)
	if err != nil {
		return UsageError{Msg: err.Error()}
	}
	flush, err := ai.ParseFlushPolicy(opts.Flush)
	if err != nil {
		return UsageError{Msg: err.Error()}
	}
	if opts.Limit < 1 || opts.Limit > ai.MaxSongs {
		return UsageError{Msg: "limit must be between 1 and 25"}
	}

	text, err := readReply(cmd, args)
	if err != nil {
		return err
	}

	parser := ai.Parser{Mode: mode, Flush: flush, Limit: opts.Limit}
	res, err := parser.Parse(text)
	if g.JSON {
		payload := map[string]any{
			"songs":    res.Songs,
			"warnings": res.Warnings,
			"strategy": res.Strategy,
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

// readReply reads the named file, or stdin when no file (or "-") is given.
// An interactive stdin is refused so the command never blocks on a terminal.
func readReply(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && len(args) == 0 && term.IsTerminal(int(f.Fd())) {
		return "", UsageError{Msg: strings.Join([]string{
			"Missing input.",
			"Examples:",
			"  musicagent parse reply.txt",
			"  cat reply.txt | musicagent parse",
		}, "\n")}
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

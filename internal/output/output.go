package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
)

type Options struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool
	NoColor bool
	Stdout  io.Writer
	Stderr  io.Writer
}

type Output struct {
	JSON    bool
	Plain   bool
	Quiet   bool
	Verbose bool

	stdout io.Writer
	stderr io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	gray   *color.Color
	bold   *color.Color
}

func New(opts Options) *Output {
	if opts.NoColor || opts.Plain {
		color.NoColor = true
	}
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Output{
		JSON:    opts.JSON,
		Plain:   opts.Plain,
		Quiet:   opts.Quiet,
		Verbose: opts.Verbose,
		stdout:  stdout,
		stderr:  stderr,
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
		red:     color.New(color.FgRed),
		gray:    color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
	}
}

func (o *Output) Green(s string) string {
	return o.green.Sprint(s)
}

func (o *Output) Yellow(s string) string {
	return o.yellow.Sprint(s)
}

func (o *Output) Red(s string) string {
	return o.red.Sprint(s)
}

func (o *Output) Gray(s string) string {
	return o.gray.Sprint(s)
}

func (o *Output) Bold(s string) string {
	return o.bold.Sprint(s)
}

func (o *Output) Info(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.stdout, msg)
}

func (o *Output) Success(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.stdout, o.Green(msg))
}

// Warn goes to stderr so piped exports stay clean.
func (o *Output) Warn(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.stderr, o.Yellow(msg))
}

func (o *Output) Debug(msg string) {
	if o.JSON || !o.Verbose {
		return
	}
	fmt.Fprintln(o.stderr, o.Gray(msg))
}

func (o *Output) Error(msg string) {
	fmt.Fprintln(o.stderr, o.Red(msg))
}

func (o *Output) Print(msg string) {
	if o.JSON || o.Quiet {
		return
	}
	fmt.Fprintln(o.stdout, msg)
}

// Raw writes msg unconditionally; used for exports sent to stdout.
func (o *Output) Raw(msg string) {
	fmt.Fprint(o.stdout, msg)
}

func (o *Output) EmitJSON(v any) error {
	enc := json.NewEncoder(o.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SongTable prints the playlist as aligned columns. Hidden gems are flagged in
// the last column so color codes never skew the alignment.
func (o *Output) SongTable(songs []ai.Song) {
	if o.JSON || o.Quiet {
		return
	}
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSong\tArtist\tGenre\tPopularity\t")
	for i, s := range songs {
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\t%.2f\t\n", i+1, s.Title, s.Artist, s.Genre, s.Popularity)
	}
	_ = tw.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		switch {
		case i == 0:
			fmt.Fprintln(o.stdout, o.Bold(line))
		case songs[i-1].HiddenGem() && !o.Plain:
			fmt.Fprintln(o.stdout, line+"  "+o.Gray("hidden gem"))
		default:
			fmt.Fprintln(o.stdout, line)
		}
	}
}

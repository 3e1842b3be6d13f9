package cli

import (
	"errors"
	"fmt"

	"github.com/cabobadilla/AIMusicAgent/internal/ai"
	"github.com/cabobadilla/AIMusicAgent/internal/output"
	"github.com/cabobadilla/AIMusicAgent/internal/playlist"
	"github.com/cabobadilla/AIMusicAgent/internal/storage"
)

type exportOptions struct {
	Path   string
	Save   bool
	Scores bool
}

func (e exportOptions) wanted() bool {
	return e.Path != "" || e.Save
}

// errReported is returned after the failure has already been shown.
var errReported = errors.New("playlist could not be generated")

// renderSongs shows a finished playlist and writes the requested export.
func renderSongs(out *output.Output, songs []ai.Song, warnings []string, exp exportOptions) error {
	for _, w := range warnings {
		out.Warn("warning: " + w)
	}
	if len(songs) == 0 {
		return nil
	}
	out.Success(fmt.Sprintf("Your personalized playlist (%d songs)", len(songs)))
	out.SongTable(songs)
	return writeExport(out, songs, exp)
}

func writeExport(out *output.Output, songs []ai.Song, exp exportOptions) error {
	if !exp.wanted() {
		return nil
	}
	text := playlist.ExportText(songs, exp.Scores)
	if exp.Path == "-" {
		out.Raw(text + "\n")
		return nil
	}
	path, err := storage.WriteExport(exp.Path, text+"\n")
	if err != nil {
		return err
	}
	out.Success("Saved playlist to " + path)
	return nil
}

// reportFailure prints the user-facing message for a failed generation or
// parse, skipping warnings that repeat it.
func reportFailure(out *output.Output, warnings []string, err error) error {
	msg := userMessage(err)
	for _, w := range warnings {
		if w == msg || w == playlist.GenericFailureMessage {
			continue
		}
		out.Warn("warning: " + w)
	}
	out.Error(msg)
	out.Debug("cause: " + err.Error())
	return errReported
}

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	return errors.Is(err, errReported)
}

// Package report prints the checksum and size sections of a pipeline
// run in the conventions of the standard shell utilities they
// replace: two-space checksum lines and long-format listings.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chrisrosset/avro-playground/pkg/workspace"
)

// ErrNoMatch is returned when a report pattern matches no files.
var ErrNoMatch = errors.New("no such file or directory")

// Reporter produces checksum and size reports over a workspace.
type Reporter struct {
	ws *workspace.Workspace
}

// New returns a Reporter over ws.
func New(ws *workspace.Workspace) *Reporter {
	return &Reporter{ws: ws}
}

// Sums writes one `<checksum>  <name>` line per file matching
// pattern. When nothing matches, the utility-style complaint goes to
// errw and ErrNoMatch is returned; the caller decides whether that
// stops anything.
func (r *Reporter) Sums(w, errw io.Writer, pattern string) error {
	names, err := r.ws.Glob(pattern)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(errw, "%s: no such file or directory\n", pattern)
		return fmt.Errorf("%s: %w", pattern, ErrNoMatch)
	}

	for _, name := range names {
		sum, err := Digest(r.ws.Path(name))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  %s\n", sum, name)
	}
	return nil
}

// Sizes writes a long-format listing line (mode, size, modification
// time, name) per file matching pattern. A pattern with no matches
// reports to errw like Sums but is otherwise harmless.
func (r *Reporter) Sizes(w, errw io.Writer, pattern string) error {
	names, err := r.ws.Glob(pattern)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(errw, "%s: no such file or directory\n", pattern)
		return fmt.Errorf("%s: %w", pattern, ErrNoMatch)
	}

	for _, name := range names {
		info, err := os.Stat(r.ws.Path(name))
		if err != nil {
			return fmt.Errorf("stat %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s %8d %s %s\n",
			info.Mode(), info.Size(),
			info.ModTime().Format("Jan _2 15:04"), name)
	}
	return nil
}

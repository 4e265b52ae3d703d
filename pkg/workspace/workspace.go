// Package workspace scopes the pipeline to a single directory. Every
// glob and path the pipeline touches goes through a Workspace so the
// working directory is an explicit parameter instead of ambient
// process state.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// PatternRaw matches every generated container file. The bare
	// suffix (no dot) is deliberate: it is what the raw checksum
	// report has always matched.
	PatternRaw = "*avro"

	// PatternAvro matches container files selected for decoding.
	PatternAvro = "*.avro"

	// PatternJSON matches decoded companion files in the report
	// stages.
	PatternJSON = "*avro.json"

	// patternCleanJSON is the deletion glob. It is narrower than
	// PatternJSON: cleanup only removes companions of container
	// files, never a stray name that merely ends in "avro.json".
	patternCleanJSON = "*.avro.json"
)

// Workspace is a directory holding generated and decoded files.
type Workspace struct {
	dir string
}

// New returns a Workspace rooted at dir. The directory is created if
// it does not exist.
func New(dir string) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", dir, err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (ws *Workspace) Dir() string {
	return ws.dir
}

// Path joins name onto the workspace directory.
func (ws *Workspace) Path(name string) string {
	return filepath.Join(ws.dir, name)
}

// Glob returns the base names of files matching pattern, in lexical
// order.
func (ws *Workspace) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(ws.dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names, nil
}

// Clean removes every file matching the raw or decoded-companion
// deletion globs. Nothing matching is not an error.
func (ws *Workspace) Clean() error {
	for _, pattern := range []string{PatternRaw, patternCleanJSON} {
		names, err := ws.Glob(pattern)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := os.Remove(ws.Path(name)); err != nil {
				return fmt.Errorf("remove %s: %w", name, err)
			}
		}
	}
	return nil
}

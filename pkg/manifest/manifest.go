// Package manifest keeps a history of pipeline runs so successive
// checksum reports can be compared mechanically instead of by eye.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/chrisrosset/avro-playground/pkg/report"
	"github.com/chrisrosset/avro-playground/pkg/workspace"
)

var (
	// ErrNoRuns is returned when the store holds no recorded runs.
	ErrNoRuns = errors.New("no recorded runs")
)

// runs: RFC3339Nano timestamp + "/" + run ID -> JSON Run
var bucketRuns = []byte("runs")

// FileDigest records the identity of one generated file.
type FileDigest struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SHA256      string `json:"sha256"`
	Fingerprint uint64 `json:"fingerprint"`
}

// Run is one recorded pipeline run.
type Run struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Files     []FileDigest `json:"files"`
}

// Change describes a file whose content differs between two runs. An
// empty Before means the file is new; an empty After means it was
// dropped.
type Change struct {
	Name   string
	Before string
	After  string
}

// Store is a bbolt-backed run history.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the manifest store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open manifest db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Capture builds a Run from the current contents of ws: every file
// matching the raw or decoded pattern gets a digest entry.
func Capture(ws *workspace.Workspace, now time.Time) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
	}

	for _, pattern := range []string{workspace.PatternRaw, workspace.PatternJSON} {
		names, err := ws.Glob(pattern)
		if err != nil {
			return Run{}, err
		}
		for _, name := range names {
			path := ws.Path(name)
			sum, err := report.Digest(path)
			if err != nil {
				return Run{}, err
			}
			fp, err := report.Fingerprint(path)
			if err != nil {
				return Run{}, err
			}
			size, err := report.Size(path)
			if err != nil {
				return Run{}, err
			}
			run.Files = append(run.Files, FileDigest{
				Name:        name,
				Size:        size,
				SHA256:      sum,
				Fingerprint: fp,
			})
		}
	}
	return run, nil
}

// keyStamp is a fixed-width timestamp so lexical key order matches
// chronological order. RFC3339Nano would not do: it trims trailing
// zeros from the fraction, and a trimmed fraction that prefixes a
// longer one sorts out of order.
const keyStamp = "2006-01-02T15:04:05.000000000"

// Record appends run to the history.
func (s *Store) Record(run Run) error {
	value, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	key := []byte(run.CreatedAt.UTC().Format(keyStamp) + "/" + run.ID)

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("store run %s: %w", run.ID, err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(_, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshal run: %w", err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (Run, error) {
	runs, err := s.Runs()
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[len(runs)-1], nil
}

// Diff compares two runs by file name. Fingerprints gate the cheap
// path; the reported values are the pinned SHA-256 digests.
func Diff(prev, cur Run) []Change {
	prevByName := make(map[string]FileDigest, len(prev.Files))
	for _, f := range prev.Files {
		prevByName[f.Name] = f
	}

	var changes []Change
	for _, f := range cur.Files {
		before, ok := prevByName[f.Name]
		if !ok {
			changes = append(changes, Change{Name: f.Name, After: f.SHA256})
			continue
		}
		delete(prevByName, f.Name)
		if before.Fingerprint == f.Fingerprint && before.SHA256 == f.SHA256 {
			continue
		}
		changes = append(changes, Change{Name: f.Name, Before: before.SHA256, After: f.SHA256})
	}
	for _, f := range prev.Files {
		if _, unmatched := prevByName[f.Name]; unmatched {
			changes = append(changes, Change{Name: f.Name, Before: f.SHA256})
		}
	}
	return changes
}

// DiffLatest compares the two most recent runs. The bool is false
// when fewer than two runs exist.
func (s *Store) DiffLatest() ([]Change, bool, error) {
	runs, err := s.Runs()
	if err != nil {
		return nil, false, err
	}
	if len(runs) < 2 {
		return nil, false, nil
	}
	return Diff(runs[len(runs)-2], runs[len(runs)-1]), true, nil
}

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
	"github.com/kinesin-ca/flexcal/pkg/schedule"
)

const (
	calendarsDir = "calendars"
	jobsDir      = "jobs"
)

// Load parses every definition under dir into a Snapshot. All documents are
// parsed even after a failure so the caller sees every broken file at once;
// the returned error joins them and, when non-nil, the snapshot must be
// discarded.
func Load(dir string) (*Snapshot, error) {
	snap := &Snapshot{
		calendars: map[string]*calendar.Definition{},
		jobs:      map[string]*schedule.Job{},
	}

	var errs []error
	walk(filepath.Join(dir, calendarsDir), &errs, func(key string, data []byte) {
		def, err := calendar.ParseDefinition(key, data)
		if err != nil {
			errs = append(errs, err)
			return
		}
		snap.calendars[key] = def
	})
	walk(filepath.Join(dir, jobsDir), &errs, func(key string, data []byte) {
		job, err := schedule.ParseJob(key, data)
		if err != nil {
			errs = append(errs, err)
			return
		}
		snap.jobs[key] = job
	})

	return snap, errors.Join(errs...)
}

// walk reads every .json/.yaml/.yml file under root and hands its key and
// JSON bytes to accept. A missing root is fine: an empty section.
func walk(root string, errs *[]error, accept func(key string, data []byte)) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		jb, err := coerceToJSONBytes(path, data)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}
		accept(keyFor(root, path), jb)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		*errs = append(*errs, err)
	}
}

// keyFor turns calendars/kinesin/holidays.yaml into "kinesin.holidays".
func keyFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

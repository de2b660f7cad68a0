package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
	"github.com/kinesin-ca/flexcal/pkg/schedule"
)

// ErrNotFound marks an unknown calendar or job name.
var ErrNotFound = errors.New("definition not found")

// Snapshot is one immutable, consistent view of all definitions. It
// satisfies calendar.Snapshot and schedule.Source.
type Snapshot struct {
	calendars map[string]*calendar.Definition
	jobs      map[string]*schedule.Job
}

// NewSnapshot builds a snapshot from already-parsed definitions, keyed by
// their reference strings. Useful in tests and for embedding callers.
func NewSnapshot(calendars []*calendar.Definition, jobs []*schedule.Job) *Snapshot {
	s := &Snapshot{
		calendars: make(map[string]*calendar.Definition, len(calendars)),
		jobs:      make(map[string]*schedule.Job, len(jobs)),
	}
	for _, c := range calendars {
		s.calendars[c.Name] = c
	}
	for _, j := range jobs {
		s.jobs[j.Name] = j
	}
	return s
}

func (s *Snapshot) GetCalendar(name string) (*calendar.Definition, error) {
	if def, ok := s.calendars[name]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("calendar %q: %w", name, ErrNotFound)
}

func (s *Snapshot) GetJob(name string) (*schedule.Job, error) {
	if job, ok := s.jobs[name]; ok {
		return job, nil
	}
	return nil, fmt.Errorf("job %q: %w", name, ErrNotFound)
}

// CalendarNames returns all calendar keys, sorted.
func (s *Snapshot) CalendarNames() []string {
	return sortedKeys(s.calendars)
}

// JobNames returns all job keys, sorted.
func (s *Snapshot) JobNames() []string {
	return sortedKeys(s.jobs)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kinesin-ca/flexcal/pkg/calendar"
)

// Job is one scheduled command definition. The engine reads Calendar,
// Timezone, Start and Frequency; the remaining fields ride along for the
// external execution layer (command spawning, mail, ACLs are out of scope
// here).
type Job struct {
	Name        string
	Calendar    calendar.Ref
	Timezone    string
	Start       StartSpec
	Frequency   time.Duration
	Command     string
	Environment map[string]string
	MailTo      []string
	PublicACL   []string

	loc *time.Location
}

// Location returns the job's zone, defaulting to UTC when Timezone is empty.
func (j *Job) Location() *time.Location {
	if j.loc != nil {
		return j.loc
	}
	return time.UTC
}

// jobDoc mirrors the JSON job definition document.
type jobDoc struct {
	Description string            `json:"description,omitempty"`
	Calendar    string            `json:"calendar"`
	Timezone    string            `json:"timezone,omitempty"`
	Schedule    scheduleDoc       `json:"schedule"`
	Command     string            `json:"command,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	MailTo      []string          `json:"mailto,omitempty"`
	PublicACL   []string          `json:"public_acl,omitempty"`
}

type scheduleDoc struct {
	Start     map[string]string `json:"start"`
	Frequency string            `json:"frequency,omitempty"`
}

// ParseJob parses one job definition from JSON. Unknown fields are
// rejected; a bad definition is never partially applied.
func ParseJob(name string, data []byte) (*Job, error) {
	if _, err := calendar.ParseRef(name); err != nil {
		return nil, fmt.Errorf("job %q: invalid name: %w", name, err)
	}

	var doc jobDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("job %q: %w", name, err)
	}

	if doc.Calendar == "" {
		return nil, fmt.Errorf("job %q: calendar reference required", name)
	}
	calRef, err := calendar.ParseRef(doc.Calendar)
	if err != nil {
		return nil, fmt.Errorf("job %q: calendar: %w", name, err)
	}

	start, err := ParseStart(doc.Schedule.Start)
	if err != nil {
		return nil, fmt.Errorf("job %q: schedule.start: %w", name, err)
	}

	freq, err := parseFrequency(doc.Schedule.Frequency)
	if err != nil {
		return nil, fmt.Errorf("job %q: schedule.frequency: %w", name, err)
	}

	loc := time.UTC
	if doc.Timezone != "" {
		loc, err = time.LoadLocation(doc.Timezone)
		if err != nil {
			return nil, fmt.Errorf("job %q: invalid timezone %q: %w", name, doc.Timezone, err)
		}
	}

	return &Job{
		Name:        name,
		Calendar:    calRef,
		Timezone:    doc.Timezone,
		Start:       start,
		Frequency:   freq,
		Command:     doc.Command,
		Environment: doc.Environment,
		MailTo:      doc.MailTo,
		PublicACL:   doc.PublicACL,
		loc:         loc,
	}, nil
}

// parseFrequency parses a repetition interval like "15m". The schedule grid
// has minute granularity, so the frequency must be a positive whole number
// of minutes.
func parseFrequency(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if d < time.Minute {
		return 0, fmt.Errorf("frequency %q must be at least one minute", raw)
	}
	if d%time.Minute != 0 {
		return 0, fmt.Errorf("frequency %q must be a whole number of minutes", raw)
	}
	return d, nil
}

// decodeStrict decodes JSON rejecting unknown fields and trailing tokens.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return errors.New("trailing data after document")
		}
		return err
	}
	return nil
}

package calendar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var (
	errZeroOffset      = errors.New("offset must be nonzero")
	errUnknownRuleKind = errors.New("unknown rule kind")
)

func errInvalidMonth(m int) error {
	return fmt.Errorf("invalid month %d", m)
}

func errInvalidDay(day int, month time.Month) error {
	return fmt.Errorf("day %d does not exist in %s", day, month)
}

// Month names accepted in rule documents alongside numeric months.
var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ValidName reports whether s is a bare (unscoped) definition name.
func ValidName(s string) bool { return nameRE.MatchString(s) }

// ParseRef parses a calendar or job reference. An unscoped name refers to
// the caller's own object; "user.name" and "user/name" are equivalent and
// normalize to the dotted form.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	sep := "."
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	switch len(parts) {
	case 1:
		if !ValidName(parts[0]) {
			return Ref{}, fmt.Errorf("invalid name %q", s)
		}
		return Ref{Name: parts[0]}, nil
	case 2:
		if !ValidName(parts[0]) || !ValidName(parts[1]) {
			return Ref{}, fmt.Errorf("invalid reference %q", s)
		}
		return Ref{User: parts[0], Name: parts[1]}, nil
	default:
		return Ref{}, fmt.Errorf("invalid reference %q (use name, user.name or user/name)", s)
	}
}

// definitionDoc mirrors the JSON calendar definition document.
type definitionDoc struct {
	Description string    `json:"description"`
	DowList     []string  `json:"dow_list"`
	Public      bool      `json:"public"`
	Exclude     []ruleDoc `json:"exclude"`
	Inherits    []string  `json:"inherits"`
}

// ruleDoc mirrors one exclusion rule object. Exactly one of the three
// shapes must be present: date, month+day, or month+dow+offset.
type ruleDoc struct {
	Date        string          `json:"date,omitempty"`
	Month       json.RawMessage `json:"month,omitempty"` // number or name
	Day         *int            `json:"day,omitempty"`
	Dow         string          `json:"dow,omitempty"`
	Offset      *int            `json:"offset,omitempty"`
	Observed    string          `json:"observed,omitempty"`
	Description string          `json:"description,omitempty"`
	Since       string          `json:"since,omitempty"`
	Until       string          `json:"until,omitempty"`
}

// ParseDefinition parses one calendar definition from JSON. Unknown fields
// and trailing data are rejected so a typo cannot silently drop a rule.
func ParseDefinition(name string, data []byte) (*Definition, error) {
	if !ValidName(name) {
		if _, err := ParseRef(name); err != nil {
			return nil, parseErrf(name, "name", "invalid calendar name %q", name)
		}
	}

	var doc definitionDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}

	mask, err := ParseDowList(doc.DowList)
	if err != nil {
		return nil, &ParseError{Name: name, Field: "dow_list", Err: err}
	}

	def := &Definition{
		Name:        name,
		Description: doc.Description,
		Dow:         mask,
		Public:      doc.Public,
	}

	for i, rd := range doc.Exclude {
		field := fmt.Sprintf("exclude[%d]", i)
		rule, err := parseRule(rd)
		if err != nil {
			return nil, &ParseError{Name: name, Field: field, Err: err}
		}
		def.Exclude = append(def.Exclude, rule)
	}

	for i, raw := range doc.Inherits {
		ref, err := ParseRef(raw)
		if err != nil {
			return nil, &ParseError{Name: name, Field: fmt.Sprintf("inherits[%d]", i), Err: err}
		}
		def.Inherits = append(def.Inherits, ref)
	}

	return def, nil
}

func parseRule(rd ruleDoc) (Rule, error) {
	rule := Rule{Description: rd.Description}

	policy, err := ParsePolicy(rd.Observed)
	if err != nil {
		return Rule{}, err
	}
	rule.Observed = policy

	if rd.Since != "" {
		d, err := ParseDate(rd.Since)
		if err != nil {
			return Rule{}, fmt.Errorf("since: %w", err)
		}
		rule.Since = &d
	}
	if rd.Until != "" {
		d, err := ParseDate(rd.Until)
		if err != nil {
			return Rule{}, fmt.Errorf("until: %w", err)
		}
		rule.Until = &d
	}

	switch {
	case rd.Date != "":
		if len(rd.Month) > 0 || rd.Day != nil || rd.Dow != "" || rd.Offset != nil {
			return Rule{}, errors.New("date rules take no month/day/dow/offset")
		}
		d, err := ParseDate(rd.Date)
		if err != nil {
			return Rule{}, err
		}
		rule.Kind = RuleDate
		rule.Date = d

	case len(rd.Month) > 0 && rd.Day != nil:
		if rd.Dow != "" || rd.Offset != nil {
			return Rule{}, errors.New("month/day rules take no dow/offset")
		}
		m, err := parseMonth(rd.Month)
		if err != nil {
			return Rule{}, err
		}
		rule.Kind = RuleMonthDay
		rule.Month = m
		rule.Day = *rd.Day

	case len(rd.Month) > 0 && rd.Dow != "" && rd.Offset != nil:
		m, err := parseMonth(rd.Month)
		if err != nil {
			return Rule{}, err
		}
		wd, ok := dowCodes[strings.ToUpper(strings.TrimSpace(rd.Dow))]
		if !ok {
			return Rule{}, fmt.Errorf("unknown weekday code %q (use M,T,W,R,F,S,U)", rd.Dow)
		}
		rule.Kind = RuleMonthWeekday
		rule.Month = m
		rule.Dow = wd
		rule.Offset = *rd.Offset

	default:
		return Rule{}, errors.New("rule needs date, month+day, or month+dow+offset")
	}

	if err := rule.validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

func parseMonth(raw json.RawMessage) (time.Month, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 1 || n > 12 {
			return 0, errInvalidMonth(n)
		}
		return time.Month(n), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		key := strings.ToLower(strings.TrimSpace(s))
		if len(key) > 3 {
			key = key[:3]
		}
		if m, ok := monthNames[key]; ok {
			return m, nil
		}
		return 0, fmt.Errorf("unknown month %q", s)
	}
	return 0, fmt.Errorf("invalid month %s", string(raw))
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

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Status is the caseworker-facing state of a violation case.
type Status string

const (
	StatusNew                Status = "New"
	StatusAwaitingClientDocs Status = "Awaiting Client Docs"
	StatusPOASubmitted       Status = "POA Submitted"
	StatusResolved           Status = "Resolved"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusNew, StatusAwaitingClientDocs, StatusPOASubmitted, StatusResolved}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Open reports whether the case still needs work.
func (s Status) Open() bool { return s != StatusResolved }

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s *Status) UnmarshalYAML(n *yaml.Node) error {
	st, err := ParseStatus(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*s = st
	return nil
}

// Impact is the revenue severity of a case. The dashboard also calls it
// "severity"; both names refer to this field.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// Impacts lists every valid impact from lowest to highest.
var Impacts = []Impact{ImpactLow, ImpactMedium, ImpactHigh}

// ParseImpact matches s case-insensitively against the known impacts.
func ParseImpact(s string) (Impact, error) {
	s = strings.TrimSpace(s)
	for _, im := range Impacts {
		if strings.EqualFold(string(im), s) {
			return im, nil
		}
	}
	return "", fmt.Errorf("invalid impact %q", s)
}

// Valid reports whether i is one of the known impacts.
func (i Impact) Valid() bool { return i.Rank() > 0 }

// Rank orders impacts for sorting: High 3, Medium 2, Low 1, unknown 0.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

func (i *Impact) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	im, err := ParseImpact(raw)
	if err != nil {
		return err
	}
	*i = im
	return nil
}

func (i *Impact) UnmarshalYAML(n *yaml.Node) error {
	im, err := ParseImpact(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*i = im
	return nil
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date stored as midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the date y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date { return Date{d.Time.AddDate(0, 0, n)} }

// DaysSince returns the number of whole days from d until now.
func (d Date) DaysSince(now time.Time) int {
	return int(now.UTC().Sub(d.Time) / (24 * time.Hour))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d *Date) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseDate(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = parsed
	return nil
}

// LogTimeLayout is the format of case activity timestamps.
const LogTimeLayout = "2006-01-02 15:04"

// LogEntry is one line of a case's activity history.
type LogEntry struct {
	TS    string `json:"ts" yaml:"ts"`
	Event string `json:"event" yaml:"event"`
}

// Time parses TS. Entries are recorded in UTC.
func (e LogEntry) Time() (time.Time, error) {
	return time.Parse(LogTimeLayout, e.TS)
}

// Issue is a single policy violation case against a seller's listing.
type Issue struct {
	ID          string     `json:"id" yaml:"id"`
	ASIN        string     `json:"asin" yaml:"asin"`
	Product     string     `json:"product" yaml:"product"`
	Type        string     `json:"type" yaml:"type"`
	Status      Status     `json:"status" yaml:"status"`
	Opened      Date       `json:"opened" yaml:"opened"`
	AtRiskSales int64      `json:"atRiskSales" yaml:"atRiskSales"`
	Impact      Impact     `json:"impact" yaml:"impact"`
	Marketplace string     `json:"marketplace,omitempty" yaml:"marketplace"`
	Brand       string     `json:"brand,omitempty" yaml:"brand"`
	Log         []LogEntry `json:"log" yaml:"log"`
}

// Validate checks the closed enumerations and value ranges.
func (i *Issue) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("issue id is required")
	}
	if !i.Status.Valid() {
		return fmt.Errorf("issue %s: invalid status %q", i.ID, i.Status)
	}
	if !i.Impact.Valid() {
		return fmt.Errorf("issue %s: invalid impact %q", i.ID, i.Impact)
	}
	if i.AtRiskSales < 0 {
		return fmt.Errorf("issue %s: atRiskSales must be non-negative, got %d", i.ID, i.AtRiskSales)
	}
	if i.Opened.IsZero() {
		return fmt.Errorf("issue %s: opened date is required", i.ID)
	}
	for _, e := range i.Log {
		if _, err := e.Time(); err != nil {
			return fmt.Errorf("issue %s: bad log timestamp %q: %w", i.ID, e.TS, err)
		}
	}
	return nil
}

// ResolutionTime returns the span between the first and last log entries of
// a resolved case. ok is false for open cases or cases with fewer than two
// entries.
func (i *Issue) ResolutionTime() (d time.Duration, ok bool) {
	if i.Status.Open() || len(i.Log) < 2 {
		return 0, false
	}
	first, err := i.Log[0].Time()
	if err != nil {
		return 0, false
	}
	last, err := i.Log[len(i.Log)-1].Time()
	if err != nil {
		return 0, false
	}
	return last.Sub(first), true
}

// ResolvedOn returns the date of the last log entry of a resolved case.
func (i *Issue) ResolvedOn() (Date, bool) {
	if i.Status.Open() || len(i.Log) == 0 {
		return Date{}, false
	}
	t, err := i.Log[len(i.Log)-1].Time()
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

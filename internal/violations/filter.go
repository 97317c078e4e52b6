// Package violations holds the pure filter, sort and aggregation logic
// behind the violations and analytics views. Nothing here does I/O or reads
// the wall clock; callers pass "now" in.
package violations

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// All is the sentinel value meaning "no constraint" for a set dimension.
const All = "all"

// DateRange is an inclusive window on the opened date. A zero bound leaves
// that side open.
type DateRange struct {
	From models.Date `json:"from"`
	To   models.Date `json:"to"`
}

// IsZero reports whether the range constrains nothing.
func (r DateRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d models.Date) bool {
	if !r.From.IsZero() && d.Before(r.From.Time) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To.Time) {
		return false
	}
	return true
}

// PresetRange resolves a "last N days" preset ("7d", "Last 30d", "90d")
// against today. An empty preset or "all" gives the zero range.
func PresetRange(preset string, now time.Time) (DateRange, error) {
	p := strings.ToLower(strings.TrimSpace(preset))
	p = strings.TrimPrefix(p, "last")
	p = strings.TrimSpace(p)
	if p == "" || p == All {
		return DateRange{}, nil
	}
	if !strings.HasSuffix(p, "d") {
		return DateRange{}, fmt.Errorf("invalid date range preset %q", preset)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(p, "d"))
	if err != nil || n <= 0 {
		return DateRange{}, fmt.Errorf("invalid date range preset %q", preset)
	}
	today := models.DateOf(now)
	return DateRange{From: today.AddDays(-n), To: today}, nil
}

// Filter selects records. Dimensions are ANDed together; values within one
// set dimension are ORed. Empty sets do not constrain.
type Filter struct {
	Query        string          `json:"query,omitempty"`
	Statuses     []models.Status `json:"statuses,omitempty"`
	Impacts      []models.Impact `json:"impacts,omitempty"`
	Marketplaces []string        `json:"marketplaces,omitempty"`
	Brands       []string        `json:"brands,omitempty"`
	Types        []string        `json:"types,omitempty"`
	// Preset is a relative window such as "30d"; Resolved turns it into
	// DateRange. An explicit DateRange wins over a preset.
	Preset    string    `json:"preset,omitempty"`
	DateRange DateRange `json:"dateRange"`
}

// Resolved returns a copy of f with Preset expanded into DateRange.
func (f Filter) Resolved(now time.Time) (Filter, error) {
	if f.Preset == "" || !f.DateRange.IsZero() {
		return f, nil
	}
	r, err := PresetRange(f.Preset, now)
	if err != nil {
		return f, err
	}
	f.DateRange = r
	return f, nil
}

// Match reports whether is satisfies every active dimension of f.
func (f Filter) Match(is *models.Issue) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(is.ASIN), q) &&
			!strings.Contains(strings.ToLower(is.Product), q) &&
			!strings.Contains(strings.ToLower(is.Type), q) {
			return false
		}
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, is.Status) {
		return false
	}
	if len(f.Impacts) > 0 && !contains(f.Impacts, is.Impact) {
		return false
	}
	if !matchLabel(f.Marketplaces, is.Marketplace) {
		return false
	}
	if !matchLabel(f.Brands, is.Brand) {
		return false
	}
	if !matchLabel(f.Types, is.Type) {
		return false
	}
	return f.DateRange.Contains(is.Opened)
}

// Apply returns the records matching f in their input order. The input
// slice is not modified; the result is never nil.
func Apply(issues []models.Issue, f Filter) []models.Issue {
	out := make([]models.Issue, 0, len(issues))
	for i := range issues {
		if f.Match(&issues[i]) {
			out = append(out, issues[i])
		}
	}
	return out
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// matchLabel handles the open-ended string dimensions, which compare
// case-insensitively and honour the "all" sentinel.
func matchLabel(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if strings.EqualFold(s, All) || strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

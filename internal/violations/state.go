package violations

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// ViewState is the full view configuration of the violations table: what is
// filtered and how it is ordered. Every reducer returns a new value and
// leaves the receiver untouched.
type ViewState struct {
	Filter Filter `json:"filter"`
	Sort   Sort   `json:"sort"`
}

// NewViewState returns the initial state: nothing filtered, most severe
// first.
func NewViewState() ViewState {
	return ViewState{Sort: DefaultSort}
}

// WithQuery sets the free-text search.
func (v ViewState) WithQuery(q string) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Query = q
	return v
}

// ToggleStatus adds st to the status set, or removes it when present.
func (v ViewState) ToggleStatus(st models.Status) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Statuses = toggle(v.Filter.Statuses, st)
	return v
}

// ToggleImpact adds im to the impact set, or removes it when present.
func (v ViewState) ToggleImpact(im models.Impact) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Impacts = toggle(v.Filter.Impacts, im)
	return v
}

// ToggleMarketplace adds or removes a marketplace.
func (v ViewState) ToggleMarketplace(m string) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Marketplaces = toggle(v.Filter.Marketplaces, m)
	return v
}

// ToggleBrand adds or removes a brand.
func (v ViewState) ToggleBrand(b string) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Brands = toggle(v.Filter.Brands, b)
	return v
}

// ToggleType adds or removes a violation type.
func (v ViewState) ToggleType(t string) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Types = toggle(v.Filter.Types, t)
	return v
}

// WithDateRange sets an explicit window and clears any preset.
func (v ViewState) WithDateRange(r DateRange) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.DateRange = r
	v.Filter.Preset = ""
	return v
}

// WithPreset sets a relative window such as "30d" and clears any explicit
// range.
func (v ViewState) WithPreset(p string) ViewState {
	v.Filter = v.Filter.clone()
	v.Filter.Preset = p
	v.Filter.DateRange = DateRange{}
	return v
}

// ToggleSort applies a column-header click.
func (v ViewState) ToggleSort(field SortField) ViewState {
	v.Sort = v.Sort.Toggle(field)
	return v
}

// ClearFilters drops every filter and keeps the sort.
func (v ViewState) ClearFilters() ViewState {
	v.Filter = Filter{}
	return v
}

// ActiveFilterCount counts the selected filter values: one per status,
// impact, marketplace, brand and type in the sets, plus one each for a
// search query and a date constraint.
func (v ViewState) ActiveFilterCount() int {
	f := v.Filter
	n := len(f.Statuses) + len(f.Impacts) +
		labelCount(f.Marketplaces) + labelCount(f.Brands) + labelCount(f.Types)
	if strings.TrimSpace(f.Query) != "" {
		n++
	}
	if !f.DateRange.IsZero() || (f.Preset != "" && !strings.EqualFold(f.Preset, All)) {
		n++
	}
	return n
}

// Apply filters then orders issues under v, resolving any date preset
// against now.
func (v ViewState) Apply(issues []models.Issue, now time.Time) ([]models.Issue, error) {
	f, err := v.Filter.Resolved(now)
	if err != nil {
		return nil, err
	}
	return Order(Apply(issues, f), v.Sort), nil
}

// Encode renders v as URL query parameters understood by ParseViewState.
func (v ViewState) Encode() url.Values {
	q := url.Values{}
	f := v.Filter
	if s := strings.TrimSpace(f.Query); s != "" {
		q.Set("q", s)
	}
	for _, st := range f.Statuses {
		q.Add("status", string(st))
	}
	for _, im := range f.Impacts {
		q.Add("impact", string(im))
	}
	for _, m := range f.Marketplaces {
		q.Add("marketplace", m)
	}
	for _, b := range f.Brands {
		q.Add("brand", b)
	}
	for _, t := range f.Types {
		q.Add("type", t)
	}
	if !f.DateRange.From.IsZero() {
		q.Set("from", f.DateRange.From.String())
	}
	if !f.DateRange.To.IsZero() {
		q.Set("to", f.DateRange.To.String())
	}
	if f.Preset != "" && f.DateRange.IsZero() {
		q.Set("range", f.Preset)
	}
	if v.Sort.Field != "" {
		q.Set("sort", string(v.Sort.Field))
	}
	if v.Sort.Direction != "" {
		q.Set("dir", string(v.Sort.Direction))
	}
	return q
}

// ParamError reports a query parameter that could not be parsed.
type ParamError struct {
	Param string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// ParseViewState reads a view state from query parameters. Set dimensions
// may repeat or hold comma-separated values; "all" means unconstrained.
// "severity" is accepted as an alias for "impact". Unset sort parameters
// fall back to DefaultSort.
func ParseViewState(q url.Values) (ViewState, error) {
	v := NewViewState()
	v.Filter.Query = strings.TrimSpace(q.Get("q"))

	for _, raw := range listParam(q, "status") {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return v, &ParamError{Param: "status", Value: raw, Err: err}
		}
		v.Filter.Statuses = appendUnique(v.Filter.Statuses, st)
	}
	for _, raw := range append(listParam(q, "impact"), listParam(q, "severity")...) {
		im, err := models.ParseImpact(raw)
		if err != nil {
			return v, &ParamError{Param: "impact", Value: raw, Err: err}
		}
		v.Filter.Impacts = appendUnique(v.Filter.Impacts, im)
	}
	v.Filter.Marketplaces = listParam(q, "marketplace")
	v.Filter.Brands = listParam(q, "brand")
	v.Filter.Types = listParam(q, "type")

	for _, p := range []struct {
		name string
		dst  *models.Date
	}{
		{"from", &v.Filter.DateRange.From},
		{"to", &v.Filter.DateRange.To},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			return v, &ParamError{Param: p.name, Value: raw, Err: err}
		}
		*p.dst = d
	}
	r := v.Filter.DateRange
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To.Time) {
		return v, &ParamError{Param: "from", Value: r.From.String(), Err: fmt.Errorf("after to %s", r.To)}
	}
	if raw := strings.TrimSpace(q.Get("range")); raw != "" && !strings.EqualFold(raw, All) {
		// Validate the preset now; it is resolved against the clock later.
		if _, err := PresetRange(raw, time.Time{}); err != nil {
			return v, &ParamError{Param: "range", Value: raw, Err: err}
		}
		v.Filter.Preset = raw
	}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		f, err := ParseSortField(raw)
		if err != nil {
			return v, &ParamError{Param: "sort", Value: raw, Err: err}
		}
		v.Sort.Field = f
	}
	if raw := strings.TrimSpace(q.Get("dir")); raw != "" {
		d, err := ParseDirection(raw)
		if err != nil {
			return v, &ParamError{Param: "dir", Value: raw, Err: err}
		}
		v.Sort.Direction = d
	}
	return v, nil
}

// listParam collects repeated and comma-separated values. Any "all" value
// clears the dimension.
func listParam(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.EqualFold(part, All) {
				return nil
			}
			out = appendUnique(out, part)
		}
	}
	return out
}

func (f Filter) clone() Filter {
	f.Statuses = slices.Clone(f.Statuses)
	f.Impacts = slices.Clone(f.Impacts)
	f.Marketplaces = slices.Clone(f.Marketplaces)
	f.Brands = slices.Clone(f.Brands)
	f.Types = slices.Clone(f.Types)
	return f
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		set = slices.Delete(set, i, i+1)
		if len(set) == 0 {
			return nil
		}
		return set
	}
	return append(set, v)
}

func appendUnique[T comparable](set []T, v T) []T {
	if slices.Contains(set, v) {
		return set
	}
	return append(set, v)
}

// labelCount is the number of selected labels; a set holding "all" is
// unconstrained and counts as zero.
func labelCount(set []string) int {
	for _, s := range set {
		if strings.EqualFold(s, All) {
			return 0
		}
	}
	return len(set)
}

package violations

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// SortField names a sortable column.
type SortField string

const (
	SortImpact      SortField = "impact"
	SortAtRiskSales SortField = "atRiskSales"
	SortOpened      SortField = "opened"
	SortProduct     SortField = "product"
)

// ParseSortField accepts the canonical field names plus a few aliases used
// by the dashboard ("severity", "at-risk-sales", "date", "name").
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "impact", "severity", "priority":
		return SortImpact, nil
	case "atrisksales", "at-risk-sales", "at_risk_sales", "sales":
		return SortAtRiskSales, nil
	case "opened", "date", "date-opened", "dateopened":
		return SortOpened, nil
	case "product", "product-name", "name":
		return SortProduct, nil
	}
	return "", fmt.Errorf("invalid sort field %q", s)
}

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc/ascending and desc/descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", s)
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Sort is a field plus direction.
type Sort struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort puts the most severe cases first.
var DefaultSort = Sort{Field: SortImpact, Direction: Desc}

// Toggle is what clicking a column header does: the active field flips its
// direction, any other field becomes active in descending order.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		return Sort{Field: field, Direction: s.Direction.Flip()}
	}
	return Sort{Field: field, Direction: Desc}
}

// Order returns a sorted copy of issues. The sort is stable, so records
// with equal keys keep their input order.
func Order(issues []models.Issue, s Sort) []models.Issue {
	out := slices.Clone(issues)
	if out == nil {
		out = []models.Issue{}
	}
	compare := comparator(s.Field)
	sign := 1
	if s.Direction == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b models.Issue) int {
		return sign * compare(&a, &b)
	})
	return out
}

// comparator returns an ascending comparison for field. Unknown fields
// compare equal, which leaves the input order untouched.
func comparator(field SortField) func(a, b *models.Issue) int {
	switch field {
	case SortImpact:
		return func(a, b *models.Issue) int { return cmp.Compare(a.Impact.Rank(), b.Impact.Rank()) }
	case SortAtRiskSales:
		return func(a, b *models.Issue) int { return cmp.Compare(a.AtRiskSales, b.AtRiskSales) }
	case SortOpened:
		return func(a, b *models.Issue) int { return a.Opened.Compare(b.Opened.Time) }
	case SortProduct:
		// Collators carry scratch buffers; one per Order call.
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b *models.Issue) int { return col.CompareString(a.Product, b.Product) }
	default:
		return func(a, b *models.Issue) int { return 0 }
	}
}

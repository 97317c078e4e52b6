package violations

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		sort Sort
		want []string
	}{
		{DefaultSort, []string{"C001", "C004", "C002", "C003", "C005", "C006"}},
		{Sort{SortImpact, Asc}, []string{"C003", "C005", "C006", "C002", "C001", "C004"}},
		{Sort{SortAtRiskSales, Asc}, []string{"C005", "C006", "C003", "C002", "C001", "C004"}},
		{Sort{SortAtRiskSales, Desc}, []string{"C004", "C001", "C002", "C003", "C005", "C006"}},
		{Sort{SortOpened, Asc}, []string{"C006", "C005", "C003", "C002", "C001", "C004"}},
		{Sort{SortProduct, Asc}, []string{"C002", "C003", "C005", "C004", "C006", "C001"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort.Field)+"_"+string(tt.sort.Direction), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Order(sampleIssues(), tt.sort)))
		})
	}
}

func TestOrderReversesOnUniqueKeys(t *testing.T) {
	for _, field := range []SortField{SortOpened, SortProduct} {
		asc := ids(Order(sampleIssues(), Sort{field, Asc}))
		desc := ids(Order(sampleIssues(), Sort{field, Desc}))
		slices.Reverse(desc)
		assert.Equal(t, asc, desc, field)
	}
}

func TestOrderIsStable(t *testing.T) {
	in := []models.Issue{
		{ID: "a", Impact: models.ImpactLow},
		{ID: "b", Impact: models.ImpactHigh},
		{ID: "c", Impact: models.ImpactLow},
		{ID: "d", Impact: models.ImpactHigh},
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(Order(in, Sort{SortImpact, Desc})))
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(Order(in, Sort{SortImpact, Asc})))
}

func TestOrderProductIgnoresCase(t *testing.T) {
	in := []models.Issue{{ID: "1", Product: "banana"}, {ID: "2", Product: "Apple"}, {ID: "3", Product: "cherry"}}
	assert.Equal(t, []string{"2", "1", "3"}, ids(Order(in, Sort{SortProduct, Asc})))
}

func TestOrderDoesNotModifyInput(t *testing.T) {
	in := sampleIssues()
	_ = Order(in, Sort{SortOpened, Asc})
	assert.Equal(t, sampleIssues(), in)
	assert.NotNil(t, Order(nil, DefaultSort))
}

func TestSortToggle(t *testing.T) {
	s := DefaultSort
	s = s.Toggle(SortImpact)
	assert.Equal(t, Sort{SortImpact, Asc}, s)
	s = s.Toggle(SortImpact)
	assert.Equal(t, Sort{SortImpact, Desc}, s)
	s = s.Toggle(SortProduct)
	assert.Equal(t, Sort{SortProduct, Desc}, s)
}

func TestParseSortField(t *testing.T) {
	for in, want := range map[string]SortField{
		"impact":        SortImpact,
		"Severity":      SortImpact,
		"atRiskSales":   SortAtRiskSales,
		"at-risk-sales": SortAtRiskSales,
		"date":          SortOpened,
		"product":       SortProduct,
	} {
		got, err := ParseSortField(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortField("status")
	assert.Error(t, err)

	d, err := ParseDirection("ASC")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)
	_, err = ParseDirection("up")
	assert.Error(t, err)
}

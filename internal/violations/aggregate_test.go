package violations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

func TestSummarizeSample(t *testing.T) {
	s := Summarize(sampleIssues(), refNow, DefaultPolicy)
	assert.Equal(t, Summary{
		Total:                    6,
		OpenCount:                3,
		CriticalOpen:             2,
		SLAAtRisk:                0,
		AtRiskSales:              524954,
		ResolvedCount:            3,
		MeanTimeToResolutionDays: 1.0,
		RepeatViolationRate:      0,
	}, s)
}

func TestSummarizeOnlyCountsOpenSales(t *testing.T) {
	s := Summarize(sampleIssues()[:3], refNow, DefaultPolicy)
	assert.Equal(t, int64(296875), s.AtRiskSales)
	assert.Equal(t, 2, s.OpenCount)
	assert.Equal(t, 1, s.CriticalOpen)
}

func TestSummarizeAllResolved(t *testing.T) {
	issues := sampleIssues()
	for i := range issues {
		issues[i].Status = models.StatusResolved
	}
	s := Summarize(issues, refNow, DefaultPolicy)
	assert.Zero(t, s.OpenCount)
	assert.Zero(t, s.CriticalOpen)
	assert.Zero(t, s.SLAAtRisk)
	assert.Zero(t, s.AtRiskSales)
	assert.Equal(t, 6, s.ResolvedCount)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, refNow, DefaultPolicy))
}

func TestSummarizeSLAThreshold(t *testing.T) {
	tests := []struct {
		age  int
		want int
	}{
		{9, 0},
		{10, 0},
		{11, 1},
	}
	today := models.DateOf(refNow)
	for _, tt := range tests {
		issues := []models.Issue{{ID: "X", Status: models.StatusNew, Impact: models.ImpactLow, Opened: today.AddDays(-tt.age)}}
		s := Summarize(issues, refNow, DefaultPolicy)
		assert.Equal(t, tt.want, s.SLAAtRisk, "age %d", tt.age)
	}

	old := []models.Issue{{ID: "X", Status: models.StatusResolved, Impact: models.ImpactLow, Opened: today.AddDays(-30)}}
	assert.Zero(t, Summarize(old, refNow, DefaultPolicy).SLAAtRisk)

	strict := Policy{SLAThresholdDays: 3}
	assert.Equal(t, 1, Summarize(sampleIssues(), refNow, strict).SLAAtRisk)
}

func TestSummarizeRepeatViolationRate(t *testing.T) {
	issues := sampleIssues()
	issues[1].ASIN = issues[0].ASIN
	s := Summarize(issues, refNow, DefaultPolicy)
	assert.InDelta(t, 33.3, s.RepeatViolationRate, 0.001)
}

func TestBreakdownOf(t *testing.T) {
	b := BreakdownOf(sampleIssues())

	assert.Equal(t, []Count{
		{Key: "IP Complaint", Count: 2, AtRiskSales: 403273},
		{Key: "Product Condition Complaint", Count: 2, AtRiskSales: 121681},
		{Key: "Food & Safety Issue", Count: 1},
		{Key: "Listing Violation", Count: 1, AtRiskSales: 15460},
	}, b.ByType)

	assert.Equal(t, []Count{
		{Key: "New", Count: 1, AtRiskSales: 228079},
		{Key: "Awaiting Client Docs", Count: 1, AtRiskSales: 175194},
		{Key: "POA Submitted", Count: 1, AtRiskSales: 121681},
		{Key: "Resolved", Count: 3, AtRiskSales: 15460},
	}, b.ByStatus)

	assert.Equal(t, []string{"High", "Medium", "Low"}, []string{b.ByImpact[0].Key, b.ByImpact[1].Key, b.ByImpact[2].Key})
	assert.Equal(t, 2, b.ByImpact[0].Count)
	assert.Equal(t, 3, b.ByImpact[2].Count)

	assert.Equal(t, []MonthPoint{
		{Month: "2025-08", Opened: 2},
		{Month: "2025-09", Opened: 4, Resolved: 1},
	}, b.Monthly)
}

func TestBreakdownOfEmpty(t *testing.T) {
	b := BreakdownOf(nil)
	assert.Empty(t, b.ByType)
	assert.Len(t, b.ByStatus, len(models.Statuses))
	assert.Len(t, b.ByImpact, len(models.Impacts))
	for _, c := range b.ByStatus {
		assert.Zero(t, c.Count)
	}
	assert.Empty(t, b.Monthly)
}

package violations

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// Policy holds the tunables of the summary computation.
type Policy struct {
	// SLAThresholdDays is the age, in whole days, that an open case must
	// exceed to count as at risk of missing its SLA.
	SLAThresholdDays int `json:"slaThresholdDays"`
}

// DefaultPolicy flags open cases older than ten days.
var DefaultPolicy = Policy{SLAThresholdDays: 10}

// Summary is the set of headline metrics over a record set.
type Summary struct {
	Total                    int     `json:"total"`
	OpenCount                int     `json:"openViolations"`
	CriticalOpen             int     `json:"criticalOpen"`
	SLAAtRisk                int     `json:"slaAtRisk"`
	AtRiskSales              int64   `json:"atRiskSales"`
	ResolvedCount            int     `json:"resolved"`
	MeanTimeToResolutionDays float64 `json:"meanTimeToResolutionDays"`
	RepeatViolationRate      float64 `json:"repeatViolationRate"`
}

// Summarize computes the headline metrics. Open means any status other than
// Resolved; critical means open with High impact. At-risk sales only count
// open cases.
func Summarize(issues []models.Issue, now time.Time, p Policy) Summary {
	s := Summary{Total: len(issues)}
	var (
		resolutionTotal time.Duration
		resolutionN     int
		asinCount       = make(map[string]int, len(issues))
	)
	for i := range issues {
		is := &issues[i]
		if is.ASIN != "" {
			asinCount[is.ASIN]++
		}
		if !is.Status.Open() {
			s.ResolvedCount++
			if d, ok := is.ResolutionTime(); ok {
				resolutionTotal += d
				resolutionN++
			}
			continue
		}
		s.OpenCount++
		s.AtRiskSales += is.AtRiskSales
		if is.Impact == models.ImpactHigh {
			s.CriticalOpen++
		}
		if is.Opened.DaysSince(now) > p.SLAThresholdDays {
			s.SLAAtRisk++
		}
	}
	if resolutionN > 0 {
		days := resolutionTotal.Hours() / 24 / float64(resolutionN)
		s.MeanTimeToResolutionDays = round1(days)
	}
	if len(issues) > 0 {
		repeats := 0
		for i := range issues {
			if asinCount[issues[i].ASIN] > 1 {
				repeats++
			}
		}
		s.RepeatViolationRate = round1(float64(repeats) * 100 / float64(len(issues)))
	}
	return s
}

// Count is one bucket of a breakdown.
type Count struct {
	Key         string `json:"key"`
	Count       int    `json:"count"`
	AtRiskSales int64  `json:"atRiskSales"`
}

// MonthPoint is the number of cases opened and resolved in a calendar month.
type MonthPoint struct {
	Month    string `json:"month"`
	Opened   int    `json:"opened"`
	Resolved int    `json:"resolved"`
}

// Breakdown groups a record set for the analytics charts.
type Breakdown struct {
	ByType   []Count      `json:"byType"`
	ByStatus []Count      `json:"byStatus"`
	ByImpact []Count      `json:"byImpact"`
	Monthly  []MonthPoint `json:"monthly"`
}

// BreakdownOf buckets issues by type, status, impact and month. Status and
// impact buckets always list every known value in a fixed order; type
// buckets are ordered by count, largest first.
func BreakdownOf(issues []models.Issue) Breakdown {
	byType := map[string]*Count{}
	byStatus := make(map[models.Status]*Count, len(models.Statuses))
	byImpact := make(map[models.Impact]*Count, len(models.Impacts))
	months := map[string]*MonthPoint{}

	month := func(key string) *MonthPoint {
		m, ok := months[key]
		if !ok {
			m = &MonthPoint{Month: key}
			months[key] = m
		}
		return m
	}

	for i := range issues {
		is := &issues[i]

		c, ok := byType[is.Type]
		if !ok {
			c = &Count{Key: is.Type}
			byType[is.Type] = c
		}
		c.Count++
		c.AtRiskSales += is.AtRiskSales

		if byStatus[is.Status] == nil {
			byStatus[is.Status] = &Count{Key: string(is.Status)}
		}
		byStatus[is.Status].Count++
		byStatus[is.Status].AtRiskSales += is.AtRiskSales

		if byImpact[is.Impact] == nil {
			byImpact[is.Impact] = &Count{Key: string(is.Impact)}
		}
		byImpact[is.Impact].Count++
		byImpact[is.Impact].AtRiskSales += is.AtRiskSales

		month(is.Opened.Format("2006-01")).Opened++
		if d, ok := is.ResolvedOn(); ok {
			month(d.Format("2006-01")).Resolved++
		}
	}

	b := Breakdown{
		ByType:   make([]Count, 0, len(byType)),
		ByStatus: make([]Count, 0, len(models.Statuses)),
		ByImpact: make([]Count, 0, len(models.Impacts)),
		Monthly:  make([]MonthPoint, 0, len(months)),
	}
	for _, c := range byType {
		b.ByType = append(b.ByType, *c)
	}
	slices.SortFunc(b.ByType, func(x, y Count) int {
		if n := cmp.Compare(y.Count, x.Count); n != 0 {
			return n
		}
		return cmp.Compare(x.Key, y.Key)
	})
	for _, st := range models.Statuses {
		if c := byStatus[st]; c != nil {
			b.ByStatus = append(b.ByStatus, *c)
		} else {
			b.ByStatus = append(b.ByStatus, Count{Key: string(st)})
		}
	}
	for i := len(models.Impacts) - 1; i >= 0; i-- {
		im := models.Impacts[i]
		if c := byImpact[im]; c != nil {
			b.ByImpact = append(b.ByImpact, *c)
		} else {
			b.ByImpact = append(b.ByImpact, Count{Key: string(im)})
		}
	}
	for _, m := range months {
		b.Monthly = append(b.Monthly, *m)
	}
	slices.SortFunc(b.Monthly, func(x, y MonthPoint) int { return cmp.Compare(x.Month, y.Month) })
	return b
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

package violations

import (
	"time"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// refNow is the reference clock used across the package tests.
var refNow = time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)

func sampleIssues() []models.Issue {
	return []models.Issue{
		{
			ID: "C001", ASIN: "B08XYZ1234", Product: "Wireless Ergonomic Mouse", Type: "IP Complaint",
			Status: models.StatusAwaitingClientDocs, Opened: models.NewDate(2025, 9, 15), AtRiskSales: 175194,
			Impact: models.ImpactHigh, Marketplace: "US", Brand: "TechCorp",
			Log: []models.LogEntry{{TS: "2025-09-15 10:00", Event: "Issue automatically detected."}},
		},
		{
			ID: "C002", ASIN: "B09ABC5678", Product: "Organic Green Tea Bags (100ct)", Type: "Product Condition Complaint",
			Status: models.StatusPOASubmitted, Opened: models.NewDate(2025, 9, 12), AtRiskSales: 121681,
			Impact: models.ImpactMedium, Marketplace: "US", Brand: "GreenTea Co",
		},
		{
			ID: "C003", ASIN: "B07DEF9012", Product: "Professional Camera Tripod", Type: "Listing Violation",
			Status: models.StatusResolved, Opened: models.NewDate(2025, 9, 10), AtRiskSales: 15460,
			Impact: models.ImpactLow, Marketplace: "CA", Brand: "PhotoPro",
			Log: []models.LogEntry{
				{TS: "2025-09-10 08:15", Event: "Listing suppressed."},
				{TS: "2025-09-10 12:00", Event: "Listing details updated."},
				{TS: "2025-09-11 09:00", Event: "Amazon reinstated the listing. Case resolved."},
			},
		},
		{
			ID: "C004", ASIN: "B08LMNOPQR", Product: "Smart LED Light Bulb", Type: "IP Complaint",
			Status: models.StatusNew, Opened: models.NewDate(2025, 9, 16), AtRiskSales: 228079,
			Impact: models.ImpactHigh, Marketplace: "UK", Brand: "TechCorp",
		},
		{
			ID: "C005", ASIN: "B09STUVWXYZ", Product: "Silicone Baking Mat Set", Type: "Food & Safety Issue",
			Status: models.StatusResolved, Opened: models.NewDate(2025, 8, 28),
			Impact: models.ImpactLow, Marketplace: "US", Brand: "GreenTea Co",
		},
		{
			ID: "C006", ASIN: "B07CBAFEDC", Product: "Stainless Steel Water Bottle", Type: "Product Condition Complaint",
			Status: models.StatusResolved, Opened: models.NewDate(2025, 8, 25),
			Impact: models.ImpactLow, Marketplace: "CA", Brand: "PhotoPro",
		},
	}
}

func ids(issues []models.Issue) []string {
	out := make([]string, len(issues))
	for i := range issues {
		out[i] = issues[i].ID
	}
	return out
}

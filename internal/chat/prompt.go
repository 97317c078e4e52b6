package chat

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// AccountContext is the account data the assistant is grounded on. It is
// echoed back to the caller with every reply.
type AccountContext struct {
	SellerID           string             `json:"sellerId"`
	AccountHealthScore int                `json:"accountHealthScore"`
	HealthStatus       string             `json:"healthStatus"`
	Metrics            ContextMetrics     `json:"metrics"`
	ActiveCases        []ActiveCase       `json:"activeCases"`
	RecentAlerts       []string           `json:"recentAlerts"`
	PerformanceMetrics PerformanceSummary `json:"performanceMetrics"`
}

type ContextMetrics struct {
	ODR string `json:"odr"`
	IDR string `json:"idr"`
	VoC string `json:"voc"`
	IPI int    `json:"ipi"`
}

type ActiveCase struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Status      models.Status `json:"status"`
	ASIN        string        `json:"asin"`
	Product     string        `json:"product"`
	AtRiskSales int64         `json:"atRiskSales"`
}

type PerformanceSummary struct {
	AvgResponseTime       string `json:"avgResponseTime"`
	SLACompliance         string `json:"slaCompliance"`
	CasesResolvedThisWeek int    `json:"casesResolvedThisWeek"`
	ASINsMonitored        int    `json:"asinsMonitored"`
}

// BuildContext assembles the grounding data from the account snapshot and
// the open (non-Resolved) cases, in store order.
func BuildContext(acct *models.Account, issues []models.Issue) AccountContext {
	c := AccountContext{
		SellerID:           acct.SellerID,
		AccountHealthScore: acct.HealthScore,
		HealthStatus:       acct.HealthStatus,
		Metrics: ContextMetrics{
			ODR: acct.ODR,
			IDR: acct.IDR,
			VoC: acct.VoC,
			IPI: acct.IPI,
		},
		ActiveCases:  make([]ActiveCase, 0, len(issues)),
		RecentAlerts: make([]string, 0, len(acct.Alerts)),
		PerformanceMetrics: PerformanceSummary{
			AvgResponseTime:       acct.AvgResponseTime,
			SLACompliance:         acct.SLACompliance,
			CasesResolvedThisWeek: acct.ResolvedWeek,
			ASINsMonitored:        acct.ASINsMonitored,
		},
	}
	for _, is := range issues {
		if !is.Status.Open() {
			continue
		}
		c.ActiveCases = append(c.ActiveCases, ActiveCase{
			ID:          is.ID,
			Type:        is.Type,
			Status:      is.Status,
			ASIN:        is.ASIN,
			Product:     is.Product,
			AtRiskSales: is.AtRiskSales,
		})
	}
	for _, a := range acct.Alerts {
		if a.Count > 0 {
			c.RecentAlerts = append(c.RecentAlerts, fmt.Sprintf("%d %s", a.Count, a.Message))
		} else {
			c.RecentAlerts = append(c.RecentAlerts, a.Message)
		}
	}
	return c
}

// SystemPrompt renders the instructions and account data sent as the first
// message of every completion.
func (c AccountContext) SystemPrompt() string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString("You are an expert Amazon Account Health Agent for Seller Resolve, a professional account management service. ")
	b.WriteString("You have access to comprehensive account data and provide actionable insights to Amazon sellers.\n\n")

	b.WriteString("ACCOUNT CONTEXT:\n")
	fmt.Fprintf(&b, "- Seller ID: %s\n", c.SellerID)
	fmt.Fprintf(&b, "- Account Health Score: %d/1000 (%s)\n", c.AccountHealthScore, c.HealthStatus)
	fmt.Fprintf(&b, "- Order Defect Rate: %s (Target: <1%%)\n", c.Metrics.ODR)
	fmt.Fprintf(&b, "- Invoice Defect Rate: %s (Target: <5%%)\n", c.Metrics.IDR)
	fmt.Fprintf(&b, "- Voice of Customer: %s\n", c.Metrics.VoC)
	fmt.Fprintf(&b, "- Inventory Performance Index: %d\n\n", c.Metrics.IPI)

	b.WriteString("ACTIVE ISSUES:\n")
	if len(c.ActiveCases) == 0 {
		b.WriteString("- None\n")
	}
	for _, ac := range c.ActiveCases {
		p.Fprintf(&b, "- Case %s: %s for %s (ASIN: %s) - Status: %s - At Risk Sales: $%d\n",
			ac.ID, ac.Type, ac.Product, ac.ASIN, ac.Status, ac.AtRiskSales)
	}

	b.WriteString("\nRECENT ALERTS:\n")
	for _, a := range c.RecentAlerts {
		fmt.Fprintf(&b, "- %s\n", a)
	}

	b.WriteString("\nPERFORMANCE METRICS:\n")
	fmt.Fprintf(&b, "- Average Response Time: %s\n", c.PerformanceMetrics.AvgResponseTime)
	fmt.Fprintf(&b, "- SLA Compliance: %s\n", c.PerformanceMetrics.SLACompliance)
	fmt.Fprintf(&b, "- Cases Resolved This Week: %d\n", c.PerformanceMetrics.CasesResolvedThisWeek)
	fmt.Fprintf(&b, "- ASINs Monitored: %d\n\n", c.PerformanceMetrics.ASINsMonitored)

	b.WriteString(guidelines)
	return b.String()
}

const guidelines = `GUIDELINES:
1. Provide specific, actionable advice based on the account data
2. Reference specific cases, metrics, and ASINs when relevant
3. Maintain a professional, knowledgeable tone
4. Offer concrete next steps and recommendations
5. Identify the most critical issues that need immediate attention
6. Explain Amazon policies and best practices when relevant
7. Be proactive in identifying potential risks and opportunities

Always ground your responses in the actual account data provided above.`

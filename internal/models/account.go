package models

// HealthMetric is one of the account-level performance indicators shown on
// the dashboard (ODR, IDR, VoC).
type HealthMetric struct {
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Status      string `json:"status" yaml:"status"`
	Target      string `json:"target" yaml:"target"`
	Description string `json:"description" yaml:"description"`
}

// Alert is a dashboard call-to-action.
type Alert struct {
	ID      string `json:"id" yaml:"id"`
	Type    string `json:"type" yaml:"type"` // critical, warning, info
	Message string `json:"message" yaml:"message"`
	Count   int    `json:"count" yaml:"count"`
}

// BusinessMetric is a business performance tile.
type BusinessMetric struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Value      string `json:"value" yaml:"value"`
	Subtitle   string `json:"subtitle,omitempty" yaml:"subtitle"`
	Comparison string `json:"comparison,omitempty" yaml:"comparison"`
}

// PerformancePoint is one day of the performance trend chart.
type PerformancePoint struct {
	Date            string  `json:"date" yaml:"date"`
	CasesOpened     int     `json:"casesOpened" yaml:"casesOpened"`
	CasesResolved   int     `json:"casesResolved" yaml:"casesResolved"`
	AvgResponseTime float64 `json:"avgResponseTime" yaml:"avgResponseTime"`
	ODR             float64 `json:"odr" yaml:"odr"`
	ASINCount       int     `json:"asinCount" yaml:"asinCount"`
}

// Account is the seller account snapshot the dashboard and the chat agent
// are grounded on.
type Account struct {
	SellerID        string             `json:"sellerId" yaml:"sellerId"`
	HealthScore     int                `json:"healthScore" yaml:"healthScore"`
	HealthStatus    string             `json:"healthStatus" yaml:"healthStatus"`
	ODR             string             `json:"odr" yaml:"odr"`
	IDR             string             `json:"idr" yaml:"idr"`
	VoC             string             `json:"voc" yaml:"voc"`
	IPI             int                `json:"ipi" yaml:"ipi"`
	AvgResponseTime string             `json:"avgResponseTime" yaml:"avgResponseTime"`
	SLACompliance   string             `json:"slaCompliance" yaml:"slaCompliance"`
	ResolvedWeek    int                `json:"casesResolvedThisWeek" yaml:"casesResolvedThisWeek"`
	ASINsMonitored  int                `json:"asinsMonitored" yaml:"asinsMonitored"`
	HealthMetrics   []HealthMetric     `json:"healthMetrics" yaml:"healthMetrics"`
	Alerts          []Alert            `json:"alerts" yaml:"alerts"`
	BusinessMetrics []BusinessMetric   `json:"businessMetrics" yaml:"businessMetrics"`
	Performance     []PerformancePoint `json:"performance" yaml:"performance"`
}

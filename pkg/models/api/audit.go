package api

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type LaborEntry struct {
	Worker         string  `json:"worker"`
	Classification string  `json:"classification"`
	Hours          float64 `json:"hours"`
	Rate           float64 `json:"rate"`
	Total          float64 `json:"total"`
	Period         string  `json:"period,omitempty"`
	Location       string  `json:"location,omitempty"`
}

type MaterialEntry struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	Category    string  `json:"category,omitempty"`
}

// AuditRequest is the payload of POST /api/v1/audits.
type AuditRequest struct {
	Labor     []LaborEntry    `json:"labor"`
	Materials []MaterialEntry `json:"materials"`
}

type Flag struct {
	Kind           string   `json:"kind"`
	Severity       Severity `json:"severity"`
	Subject        string   `json:"subject"`
	Classification string   `json:"classification,omitempty"`
	Period         string   `json:"period,omitempty"`

	ChargedRate    float64 `json:"charged_rate,omitempty"`
	StandardRate   float64 `json:"standard_rate,omitempty"`
	VariancePct    float64 `json:"variance_pct,omitempty"`
	VarianceAmount float64 `json:"variance_amount,omitempty"`

	TotalHours  float64 `json:"total_hours,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
	ExcessHours float64 `json:"excess_hours,omitempty"`

	Count int `json:"count,omitempty"`

	Amount       float64  `json:"amount,omitempty"`
	AnomalyScore *float64 `json:"anomaly_score,omitempty"`
	ZScore       *float64 `json:"z_score,omitempty"`

	Savings     float64 `json:"savings"`
	Description string  `json:"description"`
}

type EntryIssue struct {
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

type ReportSummary struct {
	TotalDiscrepancies int            `json:"total_discrepancies"`
	CountByKind        map[string]int `json:"count_by_kind"`
	TotalSavings       float64        `json:"total_savings"`
	LaborEntries       int            `json:"labor_entries"`
	MaterialEntries    int            `json:"material_entries"`
	TotalLaborCost     float64        `json:"total_labor_cost"`
	ExpectedLaborCost  float64        `json:"expected_labor_cost"`
}

type DiscrepancyReport struct {
	AuditID   string        `json:"audit_id"`
	CreatedAt time.Time     `json:"created_at"`
	Flags     []Flag        `json:"flags"`
	Issues    []EntryIssue  `json:"issues,omitempty"`
	Summary   ReportSummary `json:"summary"`
}

package domain

import "time"

// EntryIssue records an entry excluded from analysis, so a malformed line
// never fails the batch silently.
type EntryIssue struct {
	Subject string
	Reason  string
}

type ReportSummary struct {
	TotalDiscrepancies int
	CountByKind        map[FlagKind]int
	TotalSavings       float64
	LaborEntries       int
	MaterialEntries    int
	TotalLaborCost     float64
	ExpectedLaborCost  float64
}

// DiscrepancyReport is the ordered output of one audit run. Assembled once
// by the aggregator and treated as a read-only snapshot downstream.
type DiscrepancyReport struct {
	AuditID   string
	CreatedAt time.Time
	Flags     []Flag
	Issues    []EntryIssue
	Summary   ReportSummary
}

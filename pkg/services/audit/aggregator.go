package audit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/de-tools/invoice-atlas/pkg/services/audit/anomaly"
	"github.com/de-tools/invoice-atlas/pkg/services/rates"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Aggregator orchestrates the four analyzers over one batch and merges their
// flags into a single ordered report.
type Aggregator struct {
	resolver   rates.Resolver
	variance   *RateVarianceAnalyzer
	overtime   *OvertimeAnalyzer
	duplicates *DuplicateDetector
	anomalies  *anomaly.Detector
}

func NewAggregator(resolver rates.Resolver, detector *anomaly.Detector, settings Settings) *Aggregator {
	return &Aggregator{
		resolver:   resolver,
		variance:   NewRateVarianceAnalyzer(resolver, settings),
		overtime:   NewOvertimeAnalyzer(resolver, settings),
		duplicates: NewDuplicateDetector(settings),
		anomalies:  detector,
	}
}

// Analyze runs the analyzers concurrently over read-only views of the batch
// and assembles the report. Malformed entries are screened out and recorded
// as issues; an individual analyzer degrading never aborts the audit. Flags
// merge in a fixed order (rate_variance, overtime_violation, duplicate,
// anomaly) so reports are reproducible. An empty batch yields an empty
// report, not an error.
func (a *Aggregator) Analyze(ctx context.Context, labor []domain.LaborEntry, materials []domain.MaterialEntry) (domain.DiscrepancyReport, error) {
	logger := zerolog.Ctx(ctx)

	validLabor, validMaterials, issues := screenEntries(labor, materials)

	report := domain.DiscrepancyReport{
		AuditID:   uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Issues:    issues,
		Summary: domain.ReportSummary{
			CountByKind:     make(map[domain.FlagKind]int),
			LaborEntries:    len(validLabor),
			MaterialEntries: len(validMaterials),
		},
	}

	var varianceFlags, overtimeFlags, duplicateFlags, anomalyFlags []domain.Flag
	var varianceIssues []domain.EntryIssue

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		varianceFlags, varianceIssues = a.variance.Analyze(gctx, validLabor)
		return nil
	})
	g.Go(func() error {
		overtimeFlags = a.overtime.Analyze(gctx, validLabor)
		return nil
	})
	g.Go(func() error {
		duplicateFlags = a.duplicates.Analyze(validLabor, validMaterials)
		return nil
	})
	g.Go(func() error {
		anomalyFlags = a.anomalies.Detect(gctx, validMaterials)
		return nil
	})
	if err := g.Wait(); err != nil {
		// Analyzers degrade internally; a join error here means the report
		// itself cannot be assembled.
		return domain.DiscrepancyReport{}, fmt.Errorf("audit of %d labor / %d material entries failed: %w",
			len(validLabor), len(validMaterials), err)
	}

	report.Issues = append(report.Issues, varianceIssues...)
	report.Flags = append(report.Flags, varianceFlags...)
	report.Flags = append(report.Flags, overtimeFlags...)
	report.Flags = append(report.Flags, duplicateFlags...)
	report.Flags = append(report.Flags, anomalyFlags...)

	for _, flag := range report.Flags {
		report.Summary.CountByKind[flag.Kind]++
		report.Summary.TotalSavings += flag.Savings
	}
	report.Summary.TotalDiscrepancies = len(report.Flags)
	a.trackLaborCosts(ctx, validLabor, &report.Summary)

	logger.Info().
		Str("audit_id", report.AuditID).
		Int("flags", report.Summary.TotalDiscrepancies).
		Float64("total_savings", report.Summary.TotalSavings).
		Msg("audit completed")

	return report, nil
}

// trackLaborCosts accumulates charged vs expected labor cost totals. Entries
// without a resolvable standard are already on the issue list, so resolution
// failures are skipped here.
func (a *Aggregator) trackLaborCosts(ctx context.Context, labor []domain.LaborEntry, summary *domain.ReportSummary) {
	for _, entry := range labor {
		summary.TotalLaborCost += entry.Total
		std, err := a.resolver.Resolve(ctx, entry.Classification, entry.Location)
		if err != nil {
			continue
		}
		summary.ExpectedLaborCost += std.HourlyRate * entry.Hours
	}
}

// screenEntries excludes entries the analyzers cannot reason about. The
// offending entry is recorded, never fatal to the batch.
func screenEntries(labor []domain.LaborEntry, materials []domain.MaterialEntry) ([]domain.LaborEntry, []domain.MaterialEntry, []domain.EntryIssue) {
	var issues []domain.EntryIssue
	validLabor := make([]domain.LaborEntry, 0, len(labor))
	validMaterials := make([]domain.MaterialEntry, 0, len(materials))

	for _, entry := range labor {
		switch {
		case entry.Worker == "":
			issues = append(issues, domain.EntryIssue{Subject: "labor entry", Reason: "missing worker identifier"})
		case !isFinite(entry.Hours, entry.Rate, entry.Total):
			issues = append(issues, domain.EntryIssue{Subject: entry.Worker, Reason: "non-numeric hours, rate, or total"})
		case entry.Hours < 0:
			issues = append(issues, domain.EntryIssue{Subject: entry.Worker, Reason: fmt.Sprintf("negative hours (%.2f)", entry.Hours)})
		case entry.Rate < 0:
			issues = append(issues, domain.EntryIssue{Subject: entry.Worker, Reason: fmt.Sprintf("negative rate ($%.2f)", entry.Rate)})
		default:
			validLabor = append(validLabor, entry)
		}
	}

	for _, entry := range materials {
		switch {
		case entry.Description == "":
			issues = append(issues, domain.EntryIssue{Subject: "material entry", Reason: "missing description"})
		case !isFinite(entry.Quantity, entry.UnitPrice, entry.Total):
			issues = append(issues, domain.EntryIssue{Subject: entry.Description, Reason: "non-numeric quantity, unit price, or total"})
		case entry.Total < 0:
			issues = append(issues, domain.EntryIssue{Subject: entry.Description, Reason: fmt.Sprintf("negative total ($%.2f)", entry.Total)})
		default:
			validMaterials = append(validMaterials, entry)
		}
	}

	return validLabor, validMaterials, issues
}

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

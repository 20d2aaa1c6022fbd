package audit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/de-tools/invoice-atlas/pkg/services/rates"
)

// RateVarianceAnalyzer compares charged labor rates against resolved MSA
// standards and flags deviations beyond the configured threshold.
type RateVarianceAnalyzer struct {
	resolver rates.Resolver
	settings Settings
}

func NewRateVarianceAnalyzer(resolver rates.Resolver, settings Settings) *RateVarianceAnalyzer {
	return &RateVarianceAnalyzer{resolver: resolver, settings: settings}
}

// Analyze emits one rate_variance flag per entry whose charged rate deviates
// from its standard by strictly more than the variance threshold. Entries
// with zero or negative hours cannot be overcharged and are skipped. Entries
// whose classification has no standard are recorded as issues, not failures.
func (a *RateVarianceAnalyzer) Analyze(ctx context.Context, entries []domain.LaborEntry) ([]domain.Flag, []domain.EntryIssue) {
	var flags []domain.Flag
	var issues []domain.EntryIssue

	for _, entry := range entries {
		if entry.Hours <= 0 {
			continue
		}

		std, err := a.resolver.Resolve(ctx, entry.Classification, entry.Location)
		if err != nil {
			var notFound *rates.NotFoundError
			if errors.As(err, &notFound) {
				issues = append(issues, domain.EntryIssue{
					Subject: entry.Worker,
					Reason:  fmt.Sprintf("no rate standard for classification %q", entry.Classification),
				})
				continue
			}
			issues = append(issues, domain.EntryIssue{
				Subject: entry.Worker,
				Reason:  fmt.Sprintf("rate standard lookup failed: %v", err),
			})
			continue
		}
		if std.HourlyRate <= 0 {
			issues = append(issues, domain.EntryIssue{
				Subject: entry.Worker,
				Reason:  fmt.Sprintf("rate standard for %q has non-positive hourly rate", entry.Classification),
			})
			continue
		}

		variance := (entry.Rate - std.HourlyRate) / std.HourlyRate
		if math.Abs(variance) <= a.settings.VarianceThreshold {
			continue
		}

		severity := domain.SeverityMedium
		if math.Abs(variance) > a.settings.SeverityEscalationFactor*a.settings.VarianceThreshold {
			severity = domain.SeverityHigh
		}

		amount := (entry.Rate - std.HourlyRate) * entry.Hours
		flags = append(flags, domain.Flag{
			Kind:           domain.FlagRateVariance,
			Severity:       severity,
			Subject:        entry.Worker,
			Classification: entry.Classification,
			Period:         entry.Period,
			ChargedRate:    entry.Rate,
			StandardRate:   std.HourlyRate,
			VariancePct:    variance * 100,
			VarianceAmount: amount,
			Savings:        math.Max(amount, 0),
			Description: fmt.Sprintf("Rate variance for %s (%s): charged $%.2f/h vs MSA standard $%.2f/h over %.1f hours",
				entry.Worker, entry.Classification, entry.Rate, std.HourlyRate, entry.Hours),
		})
	}

	return flags, issues
}

package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/de-tools/invoice-atlas/pkg/services/rates"
)

// OvertimeAnalyzer aggregates hours per worker per billing period and flags
// groups exceeding the applicable weekly threshold.
type OvertimeAnalyzer struct {
	resolver rates.Resolver
	settings Settings
}

func NewOvertimeAnalyzer(resolver rates.Resolver, settings Settings) *OvertimeAnalyzer {
	return &OvertimeAnalyzer{resolver: resolver, settings: settings}
}

type workerPeriod struct {
	worker string
	period string
}

type hoursGroup struct {
	displayName     string
	totalHours      float64
	classifications map[domain.Classification]string // classification -> location
}

// Analyze emits one overtime_violation flag per (worker, period) group whose
// summed hours strictly exceed the threshold. A classification-specific
// threshold from the rate standard takes precedence over the global default;
// when a group spans classifications the strictest resolved threshold
// applies. Overtime is not itself a discrepancy, so the flag asks for
// supporting documentation rather than asserting the hours are invalid.
func (a *OvertimeAnalyzer) Analyze(ctx context.Context, entries []domain.LaborEntry) []domain.Flag {
	groups := make(map[workerPeriod]*hoursGroup)

	for _, entry := range entries {
		if entry.Hours <= 0 {
			continue
		}
		key := workerPeriod{worker: normalizeWorker(entry.Worker), period: entry.Period}
		group, ok := groups[key]
		if !ok {
			group = &hoursGroup{
				displayName:     entry.Worker,
				classifications: make(map[domain.Classification]string),
			}
			groups[key] = group
		}
		group.totalHours += entry.Hours
		group.classifications[entry.Classification] = entry.Location
	}

	keys := make([]workerPeriod, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].worker != keys[j].worker {
			return keys[i].worker < keys[j].worker
		}
		return keys[i].period < keys[j].period
	})

	var flags []domain.Flag
	for _, key := range keys {
		group := groups[key]
		threshold := a.thresholdFor(ctx, group)
		if group.totalHours <= threshold {
			continue
		}

		excess := group.totalHours - threshold
		flags = append(flags, domain.Flag{
			Kind:        domain.FlagOvertime,
			Severity:    domain.SeverityMedium,
			Subject:     group.displayName,
			Period:      key.period,
			TotalHours:  group.totalHours,
			Threshold:   threshold,
			ExcessHours: excess,
			Description: fmt.Sprintf("%s billed %.1f hours against a %.1f hour weekly threshold; request timesheets or equivalent documentation for the %.1f excess hours",
				group.displayName, group.totalHours, threshold, excess),
		})
	}

	return flags
}

// thresholdFor returns the strictest overtime threshold resolved for the
// group's classifications, or the global default when none resolves.
func (a *OvertimeAnalyzer) thresholdFor(ctx context.Context, group *hoursGroup) float64 {
	threshold := a.settings.DefaultOvertimeThreshold
	resolved := false
	for classification, location := range group.classifications {
		std, err := a.resolver.Resolve(ctx, classification, location)
		if err != nil || std.OvertimeThreshold <= 0 {
			continue
		}
		if !resolved || std.OvertimeThreshold < threshold {
			threshold = std.OvertimeThreshold
			resolved = true
		}
	}
	return threshold
}

package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
)

// DuplicateDetector flags repeated entries under exact identity keys within
// one batch. Near-duplicates (whitespace/casing variants) are an upstream
// normalization concern.
type DuplicateDetector struct {
	settings Settings
}

func NewDuplicateDetector(settings Settings) *DuplicateDetector {
	return &DuplicateDetector{settings: settings}
}

type duplicateGroup struct {
	subject        string
	classification domain.Classification
	period         string
	count          int
	amount         float64
}

// Analyze emits one duplicate flag per identity key occurring more than once.
// Labor identity is (worker, classification, period, hours, rate); material
// identity is (description, quantity, unit price).
func (d *DuplicateDetector) Analyze(labor []domain.LaborEntry, materials []domain.MaterialEntry) []domain.Flag {
	groups := make(map[string]*duplicateGroup)

	for _, entry := range labor {
		key := fmt.Sprintf("labor|%s|%s|%s|%.2f|%.2f",
			normalizeWorker(entry.Worker), entry.Classification, entry.Period, entry.Hours, entry.Rate)
		group, ok := groups[key]
		if !ok {
			group = &duplicateGroup{
				subject:        entry.Worker,
				classification: entry.Classification,
				period:         entry.Period,
				amount:         entry.Total,
			}
			groups[key] = group
		}
		group.count++
	}

	for _, entry := range materials {
		key := fmt.Sprintf("material|%s|%.2f|%.2f", entry.Description, entry.Quantity, entry.UnitPrice)
		group, ok := groups[key]
		if !ok {
			group = &duplicateGroup{
				subject: entry.Description,
				amount:  entry.Total,
			}
			groups[key] = group
		}
		group.count++
	}

	keys := make([]string, 0, len(groups))
	for key, group := range groups {
		if group.count > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var flags []domain.Flag
	for _, key := range keys {
		group := groups[key]
		repeated := float64(group.count-1) * group.amount
		var savings float64
		if d.settings.DuplicateSavings {
			savings = repeated
		}
		flags = append(flags, domain.Flag{
			Kind:           domain.FlagDuplicate,
			Severity:       domain.SeverityMedium,
			Subject:        group.subject,
			Classification: group.classification,
			Period:         group.period,
			Count:          group.count,
			Amount:         group.amount,
			Savings:        savings,
			Description: fmt.Sprintf("Entry for %s appears %d times in the batch; verify the repeated billing of $%.2f",
				group.subject, group.count, group.amount),
		})
	}

	return flags
}

func normalizeWorker(worker string) string {
	return strings.ToLower(strings.TrimSpace(worker))
}

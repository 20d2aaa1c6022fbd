package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/invoice-atlas/pkg/models/api"
	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, api.SeverityLow, MapSeverityDomainToApi(domain.SeverityLow))
	assert.Equal(t, api.SeverityMedium, MapSeverityDomainToApi(domain.SeverityMedium))
	assert.Equal(t, api.SeverityHigh, MapSeverityDomainToApi(domain.SeverityHigh))

	assert.Equal(t, domain.SeverityHigh, MapSeverityApiToDomain(api.SeverityHigh))
	assert.Equal(t, domain.SeverityLow, MapSeverityApiToDomain(api.Severity("unknown")))
}

func TestMapReportRoundTrip(t *testing.T) {
	zScore := 5.7
	report := domain.DiscrepancyReport{
		AuditID:   "b2f4b2d8-0000-4000-8000-000000000000",
		CreatedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Flags: []domain.Flag{
			{
				Kind:           domain.FlagRateVariance,
				Severity:       domain.SeverityMedium,
				Subject:        "John Smith",
				Classification: domain.ClassificationRS,
				Period:         "2024-01",
				ChargedRate:    77.0,
				StandardRate:   70.0,
				VariancePct:    10.0,
				VarianceAmount: 245.0,
				Savings:        245.0,
				Description:    "charged above standard",
			},
			{
				Kind:     domain.FlagAnomaly,
				Severity: domain.SeverityHigh,
				Subject:  "Safety respirators",
				Amount:   6313.0,
				ZScore:   &zScore,
			},
		},
		Issues: []domain.EntryIssue{{Subject: "labor entry", Reason: "missing worker identifier"}},
		Summary: domain.ReportSummary{
			TotalDiscrepancies: 2,
			CountByKind: map[domain.FlagKind]int{
				domain.FlagRateVariance: 1,
				domain.FlagAnomaly:      1,
			},
			TotalSavings:      245.0,
			LaborEntries:      3,
			MaterialEntries:   9,
			TotalLaborCost:    8400.0,
			ExpectedLaborCost: 8155.0,
		},
	}

	restored := MapReportApiToDomain(MapReportDomainToApi(report))
	assert.Equal(t, report, restored)
}

func TestMapFlagScorePointers(t *testing.T) {
	score := 2.8
	mapped := MapFlagDomainToApi(domain.Flag{Kind: domain.FlagAnomaly, AnomalyScore: &score})

	require.NotNil(t, mapped.AnomalyScore)
	assert.Nil(t, mapped.ZScore)

	// The mapped flag owns its own copy of the score.
	score = 99.0
	assert.Equal(t, 2.8, *mapped.AnomalyScore)
}

func TestMapEntriesApiToDomain(t *testing.T) {
	labor := MapLaborEntryApiToDomain(api.LaborEntry{
		Worker:         "John Smith",
		Classification: "RS",
		Hours:          35.0,
		Rate:           77.0,
		Total:          2695.0,
		Period:         "2024-01",
		Location:       "north-region",
	})
	assert.Equal(t, domain.ClassificationRS, labor.Classification)
	assert.Equal(t, "north-region", labor.Location)

	material := MapMaterialEntryApiToDomain(api.MaterialEntry{
		Description: "Safety respirators",
		Quantity:    10,
		UnitPrice:   631.30,
		Total:       6313.0,
		Category:    "ppe",
	})
	assert.Equal(t, "ppe", material.Category)
	assert.Equal(t, 6313.0, material.Total)
}

package audit

import (
	"context"
	"testing"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/de-tools/invoice-atlas/pkg/services/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, classification domain.Classification, location string) (domain.RateStandard, error) {
	args := m.Called(ctx, classification, location)
	return args.Get(0).(domain.RateStandard), args.Error(1)
}

func rsStandard(rate, overtime float64) domain.RateStandard {
	return domain.RateStandard{
		Classification:    domain.ClassificationRS,
		Location:          domain.DefaultLocation,
		HourlyRate:        rate,
		OvertimeThreshold: overtime,
	}
}

func TestRateVarianceAnalyzer_Analyze(t *testing.T) {
	ctx := context.Background()
	settings := DefaultSettings()

	t.Run("overcharge beyond threshold emits medium flag", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", ctx, domain.ClassificationRS, "").
			Return(rsStandard(70.0, 40.0), nil)

		analyzer := NewRateVarianceAnalyzer(resolver, settings)
		flags, issues := analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Smith, John", Classification: domain.ClassificationRS, Hours: 35, Rate: 77.0, Total: 2695.0},
		})

		require.Len(t, flags, 1)
		assert.Empty(t, issues)
		flag := flags[0]
		assert.Equal(t, domain.FlagRateVariance, flag.Kind)
		assert.Equal(t, domain.SeverityMedium, flag.Severity)
		assert.Equal(t, "Smith, John", flag.Subject)
		assert.InDelta(t, 10.0, flag.VariancePct, 1e-9)
		assert.InDelta(t, 245.0, flag.VarianceAmount, 1e-9)
		assert.InDelta(t, 245.0, flag.Savings, 1e-9)
		assert.Equal(t, 77.0, flag.ChargedRate)
		assert.Equal(t, 70.0, flag.StandardRate)
	})

	t.Run("exactly at threshold emits no flag", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", ctx, domain.ClassificationRS, "").
			Return(rsStandard(100.0, 40.0), nil)

		analyzer := NewRateVarianceAnalyzer(resolver, settings)
		flags, _ := analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Boundary", Classification: domain.ClassificationRS, Hours: 10, Rate: 105.0},
		})
		assert.Empty(t, flags)

		flags, _ = analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Boundary", Classification: domain.ClassificationRS, Hours: 10, Rate: 105.01},
		})
		assert.Len(t, flags, 1)
	})

	t.Run("variance beyond escalation factor is high severity", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", ctx, domain.ClassificationRS, "").
			Return(rsStandard(70.0, 40.0), nil)

		analyzer := NewRateVarianceAnalyzer(resolver, settings)
		flags, _ := analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Pricey", Classification: domain.ClassificationRS, Hours: 10, Rate: 80.0}, // ~14.3%
		})

		require.Len(t, flags, 1)
		assert.Equal(t, domain.SeverityHigh, flags[0].Severity)
	})

	t.Run("zero hours never flagged regardless of rate", func(t *testing.T) {
		resolver := new(MockResolver)
		analyzer := NewRateVarianceAnalyzer(resolver, settings)

		flags, issues := analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Idle", Classification: domain.ClassificationRS, Hours: 0, Rate: 500.0},
		})
		assert.Empty(t, flags)
		assert.Empty(t, issues)
		resolver.AssertNotCalled(t, "Resolve")
	})

	t.Run("undercharge flagged without savings", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", ctx, domain.ClassificationRS, "").
			Return(rsStandard(70.0, 40.0), nil)

		analyzer := NewRateVarianceAnalyzer(resolver, settings)
		flags, _ := analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Cheap", Classification: domain.ClassificationRS, Hours: 10, Rate: 60.0},
		})

		require.Len(t, flags, 1)
		assert.Negative(t, flags[0].VarianceAmount)
		assert.Zero(t, flags[0].Savings)
	})

	t.Run("missing standard recorded as issue", func(t *testing.T) {
		resolver := new(MockResolver)
		resolver.On("Resolve", ctx, domain.ClassificationEN, "").
			Return(domain.RateStandard{}, &rates.NotFoundError{Classification: domain.ClassificationEN, Location: "default"})

		analyzer := NewRateVarianceAnalyzer(resolver, settings)
		flags, issues := analyzer.Analyze(ctx, []domain.LaborEntry{
			{Worker: "Unknown, Type", Classification: domain.ClassificationEN, Hours: 10, Rate: 95.0},
		})

		assert.Empty(t, flags)
		require.Len(t, issues, 1)
		assert.Equal(t, "Unknown, Type", issues[0].Subject)
		assert.Contains(t, issues[0].Reason, "no rate standard")
	})
}

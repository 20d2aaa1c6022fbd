package anomaly

import (
	"context"
	"testing"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Name() string { return "model" }

func (m *MockScorer) Score(ctx context.Context, amounts []float64) ([]float64, error) {
	args := m.Called(ctx, amounts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

func materialBatch() []domain.MaterialEntry {
	return []domain.MaterialEntry{
		{Description: "Work gloves", Quantity: 10, UnitPrice: 90.0, Total: 900.0},
		{Description: "Drop cloths", Quantity: 20, UnitPrice: 60.0, Total: 1200.0},
		{Description: "Cleaning solution", Quantity: 12, UnitPrice: 125.0, Total: 1500.0},
		{Description: "Safety respirators", Quantity: 10, UnitPrice: 631.30, Total: 6313.0},
	}
}

// wideBatch has enough baseline samples for the extreme amount to clear the
// statistical threshold.
func wideBatch() []domain.MaterialEntry {
	entries := make([]domain.MaterialEntry, 0, 9)
	for i := 0; i < 8; i++ {
		entries = append(entries, domain.MaterialEntry{
			Description: "Paint roller",
			Quantity:    5,
			UnitPrice:   20.0,
			Total:       100.0,
		})
	}
	entries = append(entries, domain.MaterialEntry{
		Description: "Safety respirators",
		Quantity:    10,
		UnitPrice:   631.30,
		Total:       6313.0,
	})
	return entries
}

func TestDetector_Detect(t *testing.T) {
	ctx := context.Background()
	settings := DefaultSettings()

	t.Run("model unavailable falls back to z-score and never fails", func(t *testing.T) {
		scorer := new(MockScorer)
		scorer.On("Score", mock.Anything, mock.Anything).
			Return(nil, ErrServiceUnavailable)

		detector := NewDetector(scorer, settings)
		flags := detector.Detect(ctx, wideBatch())

		require.Len(t, flags, 1)
		flag := flags[0]
		assert.Equal(t, domain.FlagAnomaly, flag.Kind)
		assert.Equal(t, "Safety respirators", flag.Subject)
		require.NotNil(t, flag.ZScore)
		assert.Nil(t, flag.AnomalyScore)
		assert.Greater(t, *flag.ZScore, settings.ZScoreThreshold)
		assert.Zero(t, flag.Savings)
		scorer.AssertExpectations(t)
	})

	t.Run("model path tags anomaly score", func(t *testing.T) {
		scorer := new(MockScorer)
		scorer.On("Score", mock.Anything, mock.Anything).
			Return([]float64{0.1, 0.2, 0.3, 2.8}, nil)

		detector := NewDetector(scorer, settings)
		flags := detector.Detect(ctx, materialBatch())

		require.Len(t, flags, 1)
		require.NotNil(t, flags[0].AnomalyScore)
		assert.Nil(t, flags[0].ZScore)
		assert.InDelta(t, 2.8, *flags[0].AnomalyScore, 1e-9)
		assert.Equal(t, domain.SeverityMedium, flags[0].Severity)
	})

	t.Run("score above high severity threshold escalates", func(t *testing.T) {
		scorer := new(MockScorer)
		scorer.On("Score", mock.Anything, mock.Anything).
			Return([]float64{0.1, 0.2, 0.3, 4.2}, nil)

		detector := NewDetector(scorer, settings)
		flags := detector.Detect(ctx, materialBatch())

		require.Len(t, flags, 1)
		assert.Equal(t, domain.SeverityHigh, flags[0].Severity)
	})

	t.Run("nil primary scorer uses statistical path directly", func(t *testing.T) {
		detector := NewDetector(nil, settings)
		flags := detector.Detect(ctx, wideBatch())

		require.Len(t, flags, 1)
		assert.NotNil(t, flags[0].ZScore)
	})

	t.Run("fewer than min samples skips scoring", func(t *testing.T) {
		detector := NewDetector(nil, settings)
		flags := detector.Detect(ctx, []domain.MaterialEntry{
			{Description: "Lone item", Quantity: 1, UnitPrice: 99999.0, Total: 99999.0},
		})
		assert.Empty(t, flags)
	})

	t.Run("categories scored independently", func(t *testing.T) {
		detector := NewDetector(nil, settings)
		entries := []domain.MaterialEntry{
			{Description: "PPE a", Total: 100.0, Category: "ppe"},
			{Description: "PPE b", Total: 110.0, Category: "ppe"},
			{Description: "Solo equipment", Total: 50000.0, Category: "equipment"},
		}
		// The equipment category has a single sample, so the extreme amount
		// is not scored against the ppe batch.
		flags := detector.Detect(ctx, entries)
		assert.Empty(t, flags)
	})

	t.Run("empty batch yields no flags", func(t *testing.T) {
		detector := NewDetector(nil, settings)
		assert.Empty(t, detector.Detect(ctx, nil))
	})
}

func TestZScoreScorer(t *testing.T) {
	ctx := context.Background()
	scorer := ZScoreScorer{}

	t.Run("identical amounts score zero", func(t *testing.T) {
		scores, err := scorer.Score(ctx, []float64{100, 100, 100})
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0, 0}, scores)
	})

	t.Run("outlier scores above the rest", func(t *testing.T) {
		scores, err := scorer.Score(ctx, []float64{900, 1200, 1500, 6313})
		require.NoError(t, err)
		require.Len(t, scores, 4)
		for i := 0; i < 3; i++ {
			assert.Less(t, scores[i], scores[3])
		}
	})
}

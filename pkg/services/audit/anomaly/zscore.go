package anomaly

import (
	"context"
	"math"
)

// ZScoreScorer is the statistical fallback: each amount is scored by its
// absolute z-score against the batch mean and standard deviation.
type ZScoreScorer struct{}

func (ZScoreScorer) Name() string { return "statistical" }

func (ZScoreScorer) Score(_ context.Context, amounts []float64) ([]float64, error) {
	scores := make([]float64, len(amounts))
	if len(amounts) < 2 {
		return scores, nil
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	mean := sum / float64(len(amounts))

	var sq float64
	for _, a := range amounts {
		sq += (a - mean) * (a - mean)
	}
	std := math.Sqrt(sq / float64(len(amounts)))
	if std == 0 {
		return scores, nil
	}

	for i, a := range amounts {
		scores[i] = math.Abs(a-mean) / std
	}
	return scores, nil
}

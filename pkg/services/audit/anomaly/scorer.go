package anomaly

import (
	"context"
	"errors"
)

// ErrServiceUnavailable reports a failed or unreachable scoring service. The
// detector recovers from it locally; it is never surfaced to the aggregator.
var ErrServiceUnavailable = errors.New("anomaly scoring service unavailable")

// Scorer assigns an outlier score to each amount in a batch. Implementations
// are interchangeable; the detector only uses Name to tag provenance.
type Scorer interface {
	Name() string
	Score(ctx context.Context, amounts []float64) ([]float64, error)
}

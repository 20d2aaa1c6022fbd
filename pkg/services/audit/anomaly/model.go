package anomaly

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

// InvokeAPI is the subset of the SageMaker runtime client the scorer uses.
type InvokeAPI interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// ModelScorer scores batches against a trained isolation-forest endpoint.
// Any transport, timeout, or response-shape failure maps to
// ErrServiceUnavailable so the detector can fall back promptly.
type ModelScorer struct {
	client   InvokeAPI
	endpoint string
	timeout  time.Duration
}

func NewModelScorer(client InvokeAPI, endpoint string, timeout time.Duration) *ModelScorer {
	return &ModelScorer{client: client, endpoint: endpoint, timeout: timeout}
}

func (s *ModelScorer) Name() string { return "model" }

func (s *ModelScorer) Score(ctx context.Context, amounts []float64) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	instances := make([][]float64, 0, len(amounts))
	for _, amount := range amounts {
		instances = append(instances, []float64{amount})
	}
	body, err := json.Marshal(map[string]any{"instances": instances})
	if err != nil {
		return nil, fmt.Errorf("marshal scoring request: %w", err)
	}

	out, err := s.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(s.endpoint),
		ContentType:  aws.String("application/json"),
		Body:         body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invoke %s: %v", ErrServiceUnavailable, s.endpoint, err)
	}

	var parsed struct {
		Predictions []struct {
			AnomalyScore float64 `json:"anomaly_score"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrServiceUnavailable, err)
	}
	if len(parsed.Predictions) != len(amounts) {
		return nil, fmt.Errorf("%w: got %d predictions for %d instances",
			ErrServiceUnavailable, len(parsed.Predictions), len(amounts))
	}

	scores := make([]float64, 0, len(parsed.Predictions))
	for _, p := range parsed.Predictions {
		scores = append(scores, p.AnomalyScore)
	}
	return scores, nil
}

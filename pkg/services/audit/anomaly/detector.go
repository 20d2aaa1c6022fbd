package anomaly

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Settings contains configurable thresholds for anomaly scoring
type Settings struct {
	// ZScoreThreshold flags amounts whose fallback z-score exceeds it (default: 2.5)
	ZScoreThreshold float64
	// ModelScoreThreshold flags amounts whose model score exceeds it (default: 2.0)
	ModelScoreThreshold float64
	// HighSeverityScore is the score above which a flag escalates to high severity (default: 3.0)
	HighSeverityScore float64
	// MinSamples is the minimum category size worth scoring (default: 2)
	MinSamples int
	// ModelTimeout bounds each scoring call so fallback activation is prompt (default: 2s)
	ModelTimeout time.Duration
}

// DefaultSettings returns the default configuration for anomaly detection
func DefaultSettings() Settings {
	return Settings{
		ZScoreThreshold:     2.5,
		ModelScoreThreshold: 2.0,
		HighSeverityScore:   3.0,
		MinSamples:          2,
		ModelTimeout:        2 * time.Second,
	}
}

// Detector scores material costs per category, preferring the model-backed
// scorer and degrading transparently to the statistical one. Callers never
// see a scoring failure.
type Detector struct {
	primary  Scorer // optional
	fallback Scorer
	settings Settings
}

func NewDetector(primary Scorer, settings Settings) *Detector {
	return &Detector{
		primary:  primary,
		fallback: ZScoreScorer{},
		settings: settings,
	}
}

// Detect flags statistical outliers among material amounts. Categories with
// fewer than MinSamples entries are skipped rather than scored meaninglessly.
func (d *Detector) Detect(ctx context.Context, materials []domain.MaterialEntry) []domain.Flag {
	logger := zerolog.Ctx(ctx)

	byCategory := make(map[string][]domain.MaterialEntry)
	for _, entry := range materials {
		category := entry.Category
		if category == "" {
			category = "uncategorized"
		}
		byCategory[category] = append(byCategory[category], entry)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var flags []domain.Flag
	for _, category := range categories {
		entries := byCategory[category]
		if len(entries) < d.settings.MinSamples {
			continue
		}

		amounts := make([]float64, 0, len(entries))
		for _, entry := range entries {
			amounts = append(amounts, entry.Total)
		}

		scorer := d.fallback
		var scores []float64
		var err error
		if d.primary != nil {
			scores, err = d.primary.Score(ctx, amounts)
			if err == nil {
				scorer = d.primary
			} else {
				logger.Warn().Err(err).Str("category", category).
					Msg("model scoring unavailable, using statistical fallback")
			}
		}
		if scorer == d.fallback {
			scores, err = d.fallback.Score(ctx, amounts)
			if err != nil {
				// The statistical path cannot fail; guard anyway.
				logger.Error().Err(err).Str("category", category).Msg("anomaly scoring skipped")
				continue
			}
		}

		threshold := d.settings.ZScoreThreshold
		if scorer.Name() == "model" {
			threshold = d.settings.ModelScoreThreshold
		}

		for i, score := range scores {
			if score <= threshold {
				continue
			}
			severity := domain.SeverityMedium
			if score > d.settings.HighSeverityScore {
				severity = domain.SeverityHigh
			}

			flag := domain.Flag{
				Kind:     domain.FlagAnomaly,
				Severity: severity,
				Subject:  entries[i].Description,
				Amount:   entries[i].Total,
			}
			score := score
			if scorer.Name() == "model" {
				flag.AnomalyScore = &score
				flag.Description = fmt.Sprintf("Material cost $%.2f for %q scored %.2f by the anomaly model (threshold %.2f)",
					entries[i].Total, entries[i].Description, score, threshold)
			} else {
				flag.ZScore = &score
				flag.Description = fmt.Sprintf("Material cost $%.2f for %q is %.1f standard deviations from the %s category mean",
					entries[i].Total, entries[i].Description, score, category)
			}
			flags = append(flags, flag)
		}
	}

	return flags
}

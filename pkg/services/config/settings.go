package config

import (
	"fmt"
	"time"

	"github.com/de-tools/invoice-atlas/pkg/services/audit"
	"github.com/de-tools/invoice-atlas/pkg/services/audit/anomaly"
	"github.com/de-tools/invoice-atlas/pkg/services/chunking"
	"github.com/spf13/viper"
)

// Settings bundles the runtime-injected thresholds for every core service.
type Settings struct {
	Audit    audit.Settings
	Anomaly  anomaly.Settings
	Chunking chunking.Settings
}

// Default returns the per-service defaults without reading any file.
func Default() Settings {
	return Settings{
		Audit:    audit.DefaultSettings(),
		Anomaly:  anomaly.DefaultSettings(),
		Chunking: chunking.DefaultSettings(),
	}
}

type fileSettings struct {
	VarianceThreshold        float64 `mapstructure:"variance_threshold"`
	SeverityEscalationFactor float64 `mapstructure:"severity_escalation_factor"`
	OvertimeThreshold        float64 `mapstructure:"overtime_threshold"`
	DuplicateSavings         bool    `mapstructure:"duplicate_savings"`

	Anomaly struct {
		ZScoreThreshold     float64       `mapstructure:"z_score_threshold"`
		ModelScoreThreshold float64       `mapstructure:"model_score_threshold"`
		HighSeverityScore   float64       `mapstructure:"high_severity_score"`
		MinSamples          int           `mapstructure:"min_samples"`
		ModelTimeout        time.Duration `mapstructure:"model_timeout"`
	} `mapstructure:"anomaly"`

	Chunking struct {
		MaxTokens     int     `mapstructure:"max_tokens"`
		MaxSheetRows  int     `mapstructure:"max_sheet_rows"`
		MinConfidence float64 `mapstructure:"min_confidence"`
	} `mapstructure:"chunking"`
}

// LoadSettings reads a YAML settings file, falling back to defaults for any
// key the file omits. An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	defaults := Default()
	if path == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("variance_threshold", defaults.Audit.VarianceThreshold)
	v.SetDefault("severity_escalation_factor", defaults.Audit.SeverityEscalationFactor)
	v.SetDefault("overtime_threshold", defaults.Audit.DefaultOvertimeThreshold)
	v.SetDefault("duplicate_savings", defaults.Audit.DuplicateSavings)
	v.SetDefault("anomaly.z_score_threshold", defaults.Anomaly.ZScoreThreshold)
	v.SetDefault("anomaly.model_score_threshold", defaults.Anomaly.ModelScoreThreshold)
	v.SetDefault("anomaly.high_severity_score", defaults.Anomaly.HighSeverityScore)
	v.SetDefault("anomaly.min_samples", defaults.Anomaly.MinSamples)
	v.SetDefault("anomaly.model_timeout", defaults.Anomaly.ModelTimeout)
	v.SetDefault("chunking.max_tokens", defaults.Chunking.MaxTokens)
	v.SetDefault("chunking.max_sheet_rows", defaults.Chunking.MaxSheetRows)
	v.SetDefault("chunking.min_confidence", defaults.Chunking.MinConfidence)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var cfg fileSettings
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	return Settings{
		Audit: audit.Settings{
			VarianceThreshold:        cfg.VarianceThreshold,
			SeverityEscalationFactor: cfg.SeverityEscalationFactor,
			DefaultOvertimeThreshold: cfg.OvertimeThreshold,
			DuplicateSavings:         cfg.DuplicateSavings,
		},
		Anomaly: anomaly.Settings{
			ZScoreThreshold:     cfg.Anomaly.ZScoreThreshold,
			ModelScoreThreshold: cfg.Anomaly.ModelScoreThreshold,
			HighSeverityScore:   cfg.Anomaly.HighSeverityScore,
			MinSamples:          cfg.Anomaly.MinSamples,
			ModelTimeout:        cfg.Anomaly.ModelTimeout,
		},
		Chunking: chunking.Settings{
			MaxTokens:     cfg.Chunking.MaxTokens,
			MaxSheetRows:  cfg.Chunking.MaxSheetRows,
			MinConfidence: cfg.Chunking.MinConfidence,
		},
	}, nil
}

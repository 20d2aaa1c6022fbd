package audit

// Settings contains configurable thresholds for discrepancy analysis
type Settings struct {
	// VarianceThreshold is the tolerated fractional deviation of a charged
	// rate from its standard before flagging (default: 0.05)
	VarianceThreshold float64
	// SeverityEscalationFactor scales VarianceThreshold to the point where a
	// variance flag escalates from medium to high severity (default: 2.0)
	SeverityEscalationFactor float64
	// DefaultOvertimeThreshold is the weekly-hours limit used when no
	// classification-specific threshold resolves (default: 40.0)
	DefaultOvertimeThreshold float64
	// DuplicateSavings controls whether duplicate flags contribute their
	// repeated amount to the savings total (default: true)
	DuplicateSavings bool
}

// DefaultSettings returns the default configuration for discrepancy analysis
func DefaultSettings() Settings {
	return Settings{
		VarianceThreshold:        0.05,
		SeverityEscalationFactor: 2.0,
		DefaultOvertimeThreshold: 40.0,
		DuplicateSavings:         true,
	}
}

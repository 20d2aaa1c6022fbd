package domain

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// FlagKind discriminates discrepancy flags. The order of the constants is the
// merge order of the aggregated report.
type FlagKind string

const (
	FlagRateVariance FlagKind = "rate_variance"
	FlagOvertime     FlagKind = "overtime_violation"
	FlagDuplicate    FlagKind = "duplicate"
	FlagAnomaly      FlagKind = "anomaly"
)

// Flag is an immutable discrepancy record emitted by one analyzer pass.
// Kind-specific quantitative fields are zero for other kinds; AnomalyScore
// and ZScore are pointers so a consumer can tell which scoring path ran.
type Flag struct {
	Kind     FlagKind
	Severity Severity

	// Subject names the worker or material the flag refers to.
	Subject        string
	Classification Classification
	Period         string

	// rate_variance
	ChargedRate    float64
	StandardRate   float64
	VariancePct    float64
	VarianceAmount float64

	// overtime_violation
	TotalHours  float64
	Threshold   float64
	ExcessHours float64

	// duplicate
	Count int

	// anomaly
	Amount       float64
	AnomalyScore *float64
	ZScore       *float64

	// Savings is the recoverable amount this flag contributes to the report
	// summary. Zero for informational flags.
	Savings float64

	Description string
}

package domain

// Classification is an enumerated labor category used to key standard-rate
// lookups. Raw vendor labels are normalized upstream before entries reach
// the engine.
type Classification string

const (
	ClassificationRS Classification = "RS" // regular skilled
	ClassificationUS Classification = "US" // unskilled
	ClassificationSS Classification = "SS" // semi-skilled
	ClassificationSU Classification = "SU" // supervisor
	ClassificationEN Classification = "EN" // engineer
)

// LaborEntry is a normalized invoice labor line. Immutable once extracted;
// Total is expected to match Hours * Rate within rounding tolerance.
type LaborEntry struct {
	Worker         string
	Classification Classification
	Hours          float64
	Rate           float64
	Total          float64
	Period         string // billing period key, e.g. ISO week "2024-W07"
	Location       string
}

// MaterialEntry is a normalized invoice material line.
type MaterialEntry struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	Total       float64
	Category    string
}

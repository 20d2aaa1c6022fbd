package domain

// DefaultLocation is the fallback location key for standard-rate lookups.
const DefaultLocation = "default"

// RateStandard is a contractual (MSA) reference rate for one classification
// at one location. Seeded once at deployment, read-only during an audit.
type RateStandard struct {
	Classification    Classification
	Location          string
	HourlyRate        float64
	OvertimeThreshold float64 // weekly hours before overtime documentation is required
	Description       string
}

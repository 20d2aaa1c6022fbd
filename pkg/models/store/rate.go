package store

// RateRecord is one row of the rate_standards table.
type RateRecord struct {
	Classification    string
	Location          string
	HourlyRate        float64
	OvertimeThreshold float64
	Description       string
}

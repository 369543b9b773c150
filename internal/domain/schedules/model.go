package schedules

import "time"

// Schedule is one medical-service entry. It may cover several pets (a
// litter vaccinated together) and a pet accumulates entries over time.
type Schedule struct {
	ID   string
	Date time.Time

	// Stored rounded: weight to 2 decimals, temperature to 1.
	WeightKg    float64
	Temperature float64

	ComplainDiagnosis string
	Treatment         string

	Service ServiceType
	Status  Status

	// FollowUp, when set, is strictly after Date.
	FollowUp *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

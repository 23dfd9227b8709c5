package domain

import "math"

// defaultBaselineRent applies to boroughs missing from baselineRents.
const defaultBaselineRent = 3000

// baselineRents are median asking rents per borough in dollars.
var baselineRents = map[Borough]int{
	Manhattan:    4200,
	Brooklyn:     3400,
	Queens:       2600,
	Bronx:        2100,
	StatenIsland: 2300,
	AnyBorough:   3500,
}

// RentEstimate is an estimated market rent next to its borough baseline.
type RentEstimate struct {
	Estimated int `json:"estimated"`
	Baseline  int `json:"baseline"`
}

// BaselineRent returns the borough's median rent.
func BaselineRent(b Borough) int {
	if r, ok := baselineRents[b]; ok {
		return r
	}
	return defaultBaselineRent
}

// SizeMultiplier scales rent for large buildings.
func SizeMultiplier(totalUnits int) float64 {
	switch {
	case totalUnits > 100:
		return 1.15
	case totalUnits > 50:
		return 1.08
	default:
		return 1.0
	}
}

// AgeMultiplier scales rent for new or old buildings. A zero year means unknown.
func AgeMultiplier(yearBuilt int) float64 {
	switch {
	case yearBuilt >= 2015:
		return 1.25
	case yearBuilt >= 2000:
		return 1.12
	case yearBuilt > 0 && yearBuilt < 1950:
		return 0.90
	default:
		return 1.0
	}
}

// EstimateRent computes round(baseline × size × age).
func EstimateRent(b Borough, totalUnits, yearBuilt int) RentEstimate {
	base := BaselineRent(b)
	est := float64(base) * SizeMultiplier(totalUnits) * AgeMultiplier(yearBuilt)
	return RentEstimate{
		Estimated: int(math.Round(est)),
		Baseline:  base,
	}
}

package domain

const (
	SourceRegistry = "Community Registry"
	SourceTaxBills = "Tax Bills"

	// AdvisoryPre1974 flags older multi-unit buildings. It is a heuristic only.
	AdvisoryPre1974 = "Potentially Rent Stabilized (pre-1974, 6+ units)"
)

// RentStabilizationStatus is the classification outcome for a building.
type RentStabilizationStatus struct {
	IsStabilized    bool   `json:"is_stabilized"`
	StabilizedUnits int    `json:"stabilized_units"`
	Source          string `json:"source,omitempty"`
	Advisory        string `json:"advisory,omitempty"`
}

// ClassifyStabilization combines registry membership with tax-lot data.
// taxFound reports whether a tax-lot record was returned at all; the
// pre-1974 advisory needs a known year built.
func ClassifyStabilization(inRegistry bool, tax PropertyTaxRecord, taxFound bool) RentStabilizationStatus {
	status := RentStabilizationStatus{
		IsStabilized:    inRegistry || tax.StabilizedUnits > 0,
		StabilizedUnits: tax.StabilizedUnits,
	}

	switch {
	case inRegistry && tax.StabilizedUnits > 0:
		status.Source = SourceRegistry + " + " + SourceTaxBills
	case inRegistry:
		status.Source = SourceRegistry
	case tax.StabilizedUnits > 0:
		status.Source = SourceTaxBills
	}

	// PLUTO reports 0 when the year is unknown; no advisory is drawn from it.
	if !status.IsStabilized && taxFound && tax.YearBuilt > 0 && tax.YearBuilt < 1974 && tax.TotalUnits >= 6 {
		status.Advisory = AdvisoryPre1974
	}
	return status
}

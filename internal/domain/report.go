package domain

import "time"

// RentComparison places the estimate next to the baseline and stabilization status.
type RentComparison struct {
	Estimated       int     `json:"estimated"`
	Baseline        int     `json:"baseline"`
	Borough         Borough `json:"borough"`
	IsStabilized    bool    `json:"is_stabilized"`
	StabilizedUnits int     `json:"stabilized_units"`
	TotalUnits      int     `json:"total_units"`
	YearBuilt       int     `json:"year_built,omitempty"`
	Source          string  `json:"source,omitempty"`
	Advisory        string  `json:"advisory,omitempty"`
}

// TraceEntry records one collaborator failure or fallback during a search.
type TraceEntry struct {
	Step   string `json:"step"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Diagnostics describes how a report was produced. It never affects scoring.
type Diagnostics struct {
	SearchedFor    string       `json:"searched_for"`
	Sources        string       `json:"sources"`
	Strategy       string       `json:"strategy,omitempty"`
	ViolationCount int          `json:"violation_count"`
	Trace          []TraceEntry `json:"trace,omitempty"`
}

// BuildingReport is the final snapshot for one search.
type BuildingReport struct {
	Address      string           `json:"address"`
	Canonical    CanonicalAddress `json:"canonical"`
	Geohash      string           `json:"geohash,omitempty"`
	HealthScore  Grade            `json:"health_score"`
	Counts       ViolationCounts  `json:"counts"`
	TotalRecords int              `json:"total_records"`
	Issues       []string         `json:"issues"`
	Rent         RentComparison   `json:"rent_comparison"`
	Diagnostics  Diagnostics      `json:"diagnostics"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// ReportInput carries every precomputed piece of a report.
type ReportInput struct {
	Address       CanonicalAddress
	Score         Grade
	Counts        ViolationCounts
	TotalRecords  int
	Issues        []string
	Rent          RentEstimate
	Tax           PropertyTaxRecord
	Stabilization RentStabilizationStatus
	Diagnostics   Diagnostics
}

// AssembleReport composes the report. Slices are copied so the report shares
// no memory with its inputs.
func AssembleReport(in ReportInput) BuildingReport {
	addr := in.Address
	if addr.Coordinates != nil {
		c := *addr.Coordinates
		addr.Coordinates = &c
	}
	diag := in.Diagnostics
	diag.Trace = append([]TraceEntry(nil), in.Diagnostics.Trace...)

	return BuildingReport{
		Address:      addr.Formatted(),
		Canonical:    addr,
		Geohash:      LocationKey(addr.Coordinates),
		HealthScore:  in.Score,
		Counts:       in.Counts,
		TotalRecords: in.TotalRecords,
		Issues:       append([]string(nil), in.Issues...),
		Rent: RentComparison{
			Estimated:       in.Rent.Estimated,
			Baseline:        in.Rent.Baseline,
			Borough:         addr.Borough,
			IsStabilized:    in.Stabilization.IsStabilized,
			StabilizedUnits: in.Stabilization.StabilizedUnits,
			TotalUnits:      in.Tax.TotalUnits,
			YearBuilt:       in.Tax.YearBuilt,
			Source:          in.Stabilization.Source,
			Advisory:        in.Stabilization.Advisory,
		},
		Diagnostics: diag,
		GeneratedAt: clock.Now().UTC(),
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestAssembleReport(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	coords := &Coordinates{Lon: -73.98566, Lat: 40.74844}
	in := ReportInput{
		Address: CanonicalAddress{
			HouseNumber: "350",
			Street:      "5TH AVENUE",
			Borough:     Manhattan,
			Coordinates: coords,
			Resolution:  ResolvedByGeocoder,
		},
		Score:         GradeB,
		Counts:        ViolationCounts{Total: 2, ClassC: 2},
		TotalRecords:  2,
		Issues:        []string{"Plumbing"},
		Rent:          RentEstimate{Estimated: 6038, Baseline: 4200},
		Tax:           PropertyTaxRecord{YearBuilt: 2016, TotalUnits: 120},
		Stabilization: RentStabilizationStatus{IsStabilized: true, Source: SourceRegistry},
		Diagnostics: Diagnostics{
			SearchedFor: "350 5TH AVENUE, Manhattan",
			Sources:     "HPD: 2",
			Trace:       []TraceEntry{{Step: "geocode", Error: "timeout"}},
		},
	}

	report := AssembleReport(in)

	assert.Equal(t, "350 5TH AVENUE, Manhattan, NY", report.Address)
	assert.Equal(t, GradeB, report.HealthScore)
	assert.Equal(t, "dr5ru6j", report.Geohash[:7])
	assert.Equal(t, RentComparison{
		Estimated:    6038,
		Baseline:     4200,
		Borough:      Manhattan,
		IsStabilized: true,
		TotalUnits:   120,
		YearBuilt:    2016,
		Source:       SourceRegistry,
	}, report.Rent)
	assert.Equal(t, fakeClock.Now(), report.GeneratedAt)

	// Mutating inputs after assembly must not leak into the report.
	in.Issues[0] = "changed"
	in.Diagnostics.Trace[0].Error = "changed"
	coords.Lat = 0
	assert.Equal(t, []string{"Plumbing"}, report.Issues)
	assert.Equal(t, "timeout", report.Diagnostics.Trace[0].Error)
	assert.InDelta(t, 40.74844, report.Canonical.Coordinates.Lat, 1e-9)
}

func TestAssembleReport_NoCoordinates(t *testing.T) {
	report := AssembleReport(ReportInput{Address: CanonicalAddress{HouseNumber: "1", Street: "MAIN STREET", Borough: AnyBorough}})
	assert.Empty(t, report.Geohash)
	assert.Nil(t, report.Canonical.Coordinates)
}

package domain

import (
	"strconv"
	"strings"
)

// RawTaxLot is one PLUTO row. Nil fields were absent from the response.
type RawTaxLot struct {
	Address       *string
	YearBuilt     *string
	UnitsRes      *string
	UnitsStab2007 *string
	UnitsStab     *string
}

// PropertyTaxRecord holds the tax-lot facts used by classification and estimation.
type PropertyTaxRecord struct {
	YearBuilt       int `json:"year_built"`
	TotalUnits      int `json:"total_units"`
	StabilizedUnits int `json:"stabilized_units"`
}

// TaxRecordFromRaw reads the fields of a tax-lot row. Stabilized units come
// from unitsstab2007 when it has a value, otherwise unitsstab. Unparseable
// numbers are zero.
func TaxRecordFromRaw(r RawTaxLot) PropertyTaxRecord {
	return PropertyTaxRecord{
		YearBuilt:       parseCount(r.YearBuilt),
		TotalUnits:      parseCount(r.UnitsRes),
		StabilizedUnits: parseCount(firstPresent(r.UnitsStab2007, r.UnitsStab)),
	}
}

// firstPresent returns the first value that is non-nil and not blank.
func firstPresent(values ...*string) *string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return v
		}
	}
	return nil
}

// parseCount accepts integer or decimal text ("1931", "1931.0") and truncates.
func parseCount(s *string) int {
	if s == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return int(v)
}

package socrata

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
)

// violationRow is one HPD violation as returned by SODA.
type violationRow struct {
	ViolationID     string `json:"violationid"`
	HouseNumber     string `json:"housenumber"`
	StreetName      string `json:"streetname"`
	Boro            string `json:"boro"`
	NOVDescription  string `json:"novdescription"`
	ViolationStatus string `json:"violationstatus"`
	Class           string `json:"class"`
	ViolationClass  string `json:"violationclass"`
	InspectionDate  string `json:"inspectiondate"`
	NOVIssuedDate   string `json:"novissueddate"`
	CurrentStatus   string `json:"currentstatus"`
}

func (r violationRow) toDomain() domain.RawViolation {
	return domain.RawViolation{
		ViolationID:     r.ViolationID,
		HouseNumber:     r.HouseNumber,
		StreetName:      r.StreetName,
		Borough:         r.Boro,
		NOVDescription:  r.NOVDescription,
		ViolationStatus: r.ViolationStatus,
		Class:           r.Class,
		ViolationClass:  r.ViolationClass,
		InspectionDate:  r.InspectionDate,
		NOVIssuedDate:   r.NOVIssuedDate,
		CurrentStatus:   r.CurrentStatus,
	}
}

// taxLotRow is one PLUTO row. Numeric columns arrive as strings or numbers
// depending on the dataset version, so they are kept raw.
type taxLotRow struct {
	Address       json.RawMessage `json:"address"`
	YearBuilt     json.RawMessage `json:"yearbuilt"`
	UnitsRes      json.RawMessage `json:"unitsres"`
	UnitsStab2007 json.RawMessage `json:"unitsstab2007"`
	UnitsStab     json.RawMessage `json:"unitsstab"`
}

func (r taxLotRow) toDomain() domain.RawTaxLot {
	return domain.RawTaxLot{
		Address:       rawText(r.Address),
		YearBuilt:     rawText(r.YearBuilt),
		UnitsRes:      rawText(r.UnitsRes),
		UnitsStab2007: rawText(r.UnitsStab2007),
		UnitsStab:     rawText(r.UnitsStab),
	}
}

// rawText returns the field as text, or nil when absent or null.
func rawText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	s = strings.TrimSpace(string(raw))
	return &s
}

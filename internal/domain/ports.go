package domain

import "context"

// GeocodeCandidate is one ranked result from a geocoding provider.
type GeocodeCandidate struct {
	HouseNumber string
	Street      string
	Borough     string
	Lon         float64
	Lat         float64
	Label       string
}

// Geocoder resolves free text into ranked address candidates.
type Geocoder interface {
	Geocode(ctx context.Context, text string) ([]GeocodeCandidate, error)
}

// FilterKind selects one of the query forms supported by a ViolationSource.
type FilterKind int

const (
	// FilterExact matches house number and street name exactly.
	FilterExact FilterKind = iota
	// FilterStreetPrefix matches house number exactly and street as a left-anchored prefix.
	FilterStreetPrefix
	// FilterBorough matches house number within a borough.
	FilterBorough
)

func (k FilterKind) String() string {
	switch k {
	case FilterExact:
		return "exact"
	case FilterStreetPrefix:
		return "street_prefix"
	case FilterBorough:
		return "borough"
	default:
		return "unknown"
	}
}

// ViolationFilter is the query key for a violations lookup.
type ViolationFilter struct {
	Kind        FilterKind
	HouseNumber string
	Street      string
	Borough     string
}

// ViolationSource queries raw housing violation rows.
type ViolationSource interface {
	QueryViolations(ctx context.Context, filter ViolationFilter, creds Credentials) ([]RawViolation, error)
}

// PropertyTaxSource queries tax-lot rows by free-text address.
type PropertyTaxSource interface {
	QueryTaxLots(ctx context.Context, address string, limit int, creds Credentials) ([]RawTaxLot, error)
}

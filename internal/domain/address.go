package domain

import (
	"fmt"
	"strings"
)

// Borough is one of the five NYC boroughs, or the NYC placeholder.
type Borough string

const (
	Manhattan    Borough = "Manhattan"
	Brooklyn     Borough = "Brooklyn"
	Queens       Borough = "Queens"
	Bronx        Borough = "Bronx"
	StatenIsland Borough = "Staten Island"
	// AnyBorough is used when no borough could be determined.
	AnyBorough Borough = "NYC"
)

// Boroughs lists the five boroughs in matching order.
var Boroughs = []Borough{Manhattan, Brooklyn, Queens, Bronx, StatenIsland}

// QueryName returns the uppercase form used by the HPD "boro" column.
func (b Borough) QueryName() string {
	return strings.ToUpper(string(b))
}

// Resolution records how a canonical address was obtained.
type Resolution string

const (
	ResolvedByGeocoder Resolution = "geocoder"
	ResolvedByParser   Resolution = "parser"
)

// Coordinates is a WGS-84 longitude/latitude pair.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// CanonicalAddress is the resolved identity used to query every dataset.
// Street is always uppercase.
type CanonicalAddress struct {
	HouseNumber string       `json:"house_number"`
	Street      string       `json:"street"`
	Borough     Borough      `json:"borough"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Resolution  Resolution   `json:"resolution"`
}

// Formatted renders the address the way reports display it.
func (a CanonicalAddress) Formatted() string {
	return fmt.Sprintf("%s %s, %s, NY", a.HouseNumber, a.Street, a.Borough)
}

// SearchedFor is the short diagnostic form "<number> <street>, <borough>".
func (a CanonicalAddress) SearchedFor() string {
	return fmt.Sprintf("%s %s, %s", a.HouseNumber, a.Street, a.Borough)
}

// Credentials are passed through to data collaborators untouched.
type Credentials struct {
	AppToken string
}

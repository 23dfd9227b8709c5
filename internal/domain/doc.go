// Package domain models NYC building data used to assemble a building report.
//
// # Data Sources
//
// Addresses are resolved against the NYC Planning Labs GeoSearch service
// (https://geosearch.planninglabs.nyc). Violations come from the HPD Housing
// Maintenance Code Violations dataset and tax-lot facts from MapPLUTO, both
// published through the NYC Open Data Socrata API. Verified rent-stabilized
// buildings come from a community-maintained registry loaded once at startup.
//
// # Address Conventions
//
// Queries against Socrata match on uppercase street names, e.g. "5TH AVENUE".
// Queens house numbers may be hyphenated lot numbers such as "12-34".
// Boroughs are one of Manhattan, Brooklyn, Queens, Bronx, Staten Island; when
// none can be determined the placeholder "NYC" is used.
//
// # HPD Violation Weights
//
// Only HPD records contribute to the health grade. Class weights:
//
//	A: 10 | B: 3 | C: 1 | anything else: 0
//
// Grades map from the total weight w:
//
//	w == 0 -> A | w <= 8 -> B | w <= 20 -> C | w <= 40 -> D | else F
//
// # Rent Stabilization
//
// A building is stabilized when it appears in the registry or when PLUTO
// reports a positive stabilized-unit count. Buildings built before 1974 with
// six or more units receive an advisory label only; that heuristic has no
// authoritative source and never sets IsStabilized.
package domain

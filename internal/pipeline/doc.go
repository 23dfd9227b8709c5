// Package pipeline turns free-text addresses into building reports.
//
// A search resolves the address first, then runs the violation cascade and
// the tax-lot lookup concurrently. Collaborator failures never abort a search:
// each one is logged, counted, recorded in the report's diagnostic trace, and
// treated as an empty result.
package pipeline

package domain

import (
	"fmt"
	"strings"
)

// MinSuggestQueryLen is the shortest query that produces suggestions.
const MinSuggestQueryLen = 3

// RegistryEntry is one verified rent-stabilized building.
type RegistryEntry struct {
	Number      string `json:"number"`
	Street      string `json:"street"`
	Borough     string `json:"borough"`
	Zip         string `json:"zip,omitempty"`
	FullAddress string `json:"full_address"`
}

// Registry is the read-only set of verified rent-stabilized buildings.
// It is built once and safe for concurrent readers. A nil *Registry is empty.
type Registry struct {
	entries []RegistryEntry
	keys    map[string]struct{}
}

// NewRegistry copies entries into an immutable registry. Entries without a
// number or street are dropped; a missing FullAddress is derived.
func NewRegistry(entries []RegistryEntry) *Registry {
	r := &Registry{
		entries: make([]RegistryEntry, 0, len(entries)),
		keys:    make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		if e.Number == "" || e.Street == "" {
			continue
		}
		if e.FullAddress == "" {
			e.FullAddress = fmt.Sprintf("%s %s, %s", e.Number, e.Street, e.Borough)
		}
		r.entries = append(r.entries, e)
		r.keys[registryKey(e.Number, e.Street)] = struct{}{}
	}
	return r
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Contains reports whether the building is listed. The street comparison is
// case-insensitive; the house number must match exactly.
func (r *Registry) Contains(houseNumber, street string) bool {
	if r == nil {
		return false
	}
	_, ok := r.keys[registryKey(houseNumber, street)]
	return ok
}

// Suggest returns up to limit entries whose full address contains query,
// case-insensitively, in registry order.
func (r *Registry) Suggest(query string, limit int) []RegistryEntry {
	if r == nil || len(query) < MinSuggestQueryLen || limit <= 0 {
		return nil
	}
	q := strings.ToLower(query)
	var out []RegistryEntry
	for _, e := range r.entries {
		if strings.Contains(strings.ToLower(e.FullAddress), q) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func registryKey(number, street string) string {
	return number + "|" + strings.ToUpper(street)
}

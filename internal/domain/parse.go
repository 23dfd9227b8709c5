package domain

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoAddressMatch is returned when the text has no leading house number.
var ErrNoAddressMatch = errors.New("no house number and street found")

var (
	// addressRe captures a leading house number (optionally hyphenated, as in
	// Queens lots "12-34") and the street up to the first comma.
	addressRe = regexp.MustCompile(`^(\d+(?:-\d+)?)\s+(.+?)(?:,|$)`)

	boroughRe = regexp.MustCompile(`(?i)\b(Manhattan|Brooklyn|Queens|Bronx|Staten Island)\b`)
)

// ParsedAddress is the house number and uppercase street extracted from text.
type ParsedAddress struct {
	HouseNumber string
	Street      string
}

// ParseAddress extracts a house number and street from normalized text
// without any network lookup.
func ParseAddress(text string) (ParsedAddress, error) {
	m := addressRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ParsedAddress{}, ErrNoAddressMatch
	}
	street := strings.ToUpper(strings.TrimSpace(m[2]))
	if street == "" {
		return ParsedAddress{}, ErrNoAddressMatch
	}
	return ParsedAddress{HouseNumber: m[1], Street: street}, nil
}

// ParseBorough finds the first borough name in text, defaulting to AnyBorough.
func ParseBorough(text string) Borough {
	m := boroughRe.FindStringSubmatch(text)
	if m == nil {
		return AnyBorough
	}
	return canonicalBorough(m[1])
}

// BoroughFromName maps a provider borough name onto a Borough. Unknown names
// are kept in title case so they still display; empty names become AnyBorough.
func BoroughFromName(name string) Borough {
	name = strings.TrimSpace(name)
	if name == "" {
		return AnyBorough
	}
	if strings.EqualFold(name, "the bronx") {
		return Bronx
	}
	return canonicalBorough(name)
}

func canonicalBorough(name string) Borough {
	for _, b := range Boroughs {
		if strings.EqualFold(name, string(b)) {
			return b
		}
	}
	// Casers are stateful and cannot be shared between goroutines.
	return Borough(cases.Title(language.English).String(strings.ToLower(name)))
}

// ErrAddressUnresolvable is returned when neither the geocoder nor the parser
// yields a house number and street. No report can be produced.
var ErrAddressUnresolvable = errors.New("address could not be resolved")

package domain

import "github.com/mmcloughlin/geohash"

// geohashPrecision of 7 characters is roughly a 150m cell, about a city block.
const geohashPrecision = 7

// LocationKey returns a geohash for the coordinates, or "" when unknown.
func LocationKey(c *Coordinates) string {
	if c == nil {
		return ""
	}
	return geohash.EncodeWithPrecision(c.Lat, c.Lon, geohashPrecision)
}

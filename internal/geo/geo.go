// Package geo holds the static catalog of weighted geographic origins used
// to tag generated traffic, and synthesizes plausible client IPs per region.
package geo

import (
	"errors"
	"fmt"

	"github.com/loadhound/trafficgen/internal/rng"
)

var (
	// ErrEmptyPool is returned when a sampling filter matches no entries.
	ErrEmptyPool = errors.New("geo: sampling pool is empty")
	// ErrUnknownRegion is returned for region names outside the closed set.
	ErrUnknownRegion = errors.New("geo: unknown region")
)

// Region is one of the closed set of geographic regions traffic can
// originate from.
type Region string

const (
	Europe       Region = "Europe"
	Asia         Region = "Asia"
	SouthAmerica Region = "South America"
	Africa       Region = "Africa"
	Australia    Region = "Australia"
	NorthAmerica Region = "North America"
)

// Regions returns the closed region set in a stable order.
func Regions() []Region {
	return []Region{Europe, Asia, SouthAmerica, Africa, Australia, NorthAmerica}
}

// ParseRegion validates a region name from external input.
func ParseRegion(s string) (Region, error) {
	for _, r := range Regions() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// Entry is one weighted (country, city, coordinate) origin.
type Entry struct {
	CountryISOCode string
	CountryName    string
	CityName       string
	Lat            float64
	Lon            float64
	Region         Region
	Weight         float64
}

// IPRange is an inclusive IPv4 range owned by a region. Only the first three
// octets are sampled from the range; the last octet is always 1-254.
type IPRange struct {
	Start [4]int
	End   [4]int
}

// Catalog is an immutable weighted table of geo entries plus the IP ranges
// each region draws client addresses from. Safe for concurrent reads.
type Catalog struct {
	entries []Entry
	ranges  map[Region][]IPRange
}

// NewCatalog builds a catalog from explicit entries and ranges. Entries with
// non-positive weights are rejected.
func NewCatalog(entries []Entry, ranges map[Region][]IPRange) (*Catalog, error) {
	for _, e := range entries {
		if e.Weight <= 0 {
			return nil, fmt.Errorf("geo: entry %s/%s has non-positive weight %v", e.CountryISOCode, e.CityName, e.Weight)
		}
	}
	return &Catalog{entries: entries, ranges: ranges}, nil
}

// Entries returns the full entry table.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Sample returns one entry from the full pool, weighted by entry weight.
func (c *Catalog) Sample(r rng.Rng) (Entry, error) {
	return c.sample(r, c.entries)
}

// SampleRegion returns one entry whose region matches, weighted over that
// subset. Weights are normalized over the candidates, so the catalog's total
// weight does not need to sum to anything in particular.
func (c *Catalog) SampleRegion(r rng.Rng, region Region) (Entry, error) {
	var pool []Entry
	for _, e := range c.entries {
		if e.Region == region {
			pool = append(pool, e)
		}
	}
	return c.sample(r, pool)
}

func (c *Catalog) sample(r rng.Rng, pool []Entry) (Entry, error) {
	if len(pool) == 0 {
		return Entry{}, ErrEmptyPool
	}
	weights := make([]float64, len(pool))
	for i, e := range pool {
		weights[i] = e.Weight
	}
	return pool[r.WeightedIndex(weights)], nil
}

// RandomIP synthesizes a client address from one of the region's IP ranges.
// Regions with no configured ranges fall back to an unrouted test address.
func (c *Catalog) RandomIP(r rng.Rng, region Region) string {
	ranges := c.ranges[region]
	if len(ranges) == 0 {
		return "198.51.100.1"
	}
	rg := ranges[r.Intn(len(ranges))]
	var octets [4]int
	for i := 0; i < 3; i++ {
		octets[i] = r.IntRange(rg.Start[i], rg.End[i])
	}
	octets[3] = r.IntRange(1, 254)
	return fmt.Sprintf("%d.%d.%d.%d", octets[0], octets[1], octets[2], octets[3])
}

package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadhound/trafficgen/internal/rng"
)

func TestParseRegion(t *testing.T) {
	for _, r := range Regions() {
		parsed, err := ParseRegion(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	_, err := ParseRegion("Atlantis")
	assert.ErrorIs(t, err, ErrUnknownRegion)
	_, err = ParseRegion("europe") // names are case sensitive
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestNewCatalogRejectsNonPositiveWeight(t *testing.T) {
	entries := []Entry{{CountryISOCode: "DE", CityName: "Berlin", Region: Europe, Weight: 0}}
	_, err := NewCatalog(entries, nil)
	assert.Error(t, err)
}

func TestDefaultCatalogCoversAllRegions(t *testing.T) {
	c := DefaultCatalog()
	seen := map[Region]bool{}
	for _, e := range c.Entries() {
		assert.Greater(t, e.Weight, 0.0, "entry %s/%s", e.CountryISOCode, e.CityName)
		assert.NotEmpty(t, e.CountryISOCode)
		assert.NotEmpty(t, e.CityName)
		seen[e.Region] = true
	}
	for _, r := range Regions() {
		assert.True(t, seen[r], "no entries for %s", r)
	}
}

func TestSampleRegionOnlyReturnsMatchingEntries(t *testing.T) {
	c := DefaultCatalog()
	r := rng.New("geo-test")
	for _, region := range Regions() {
		for i := 0; i < 100; i++ {
			e, err := c.SampleRegion(r, region)
			require.NoError(t, err)
			assert.Equal(t, region, e.Region)
		}
	}
}

func TestSampleRegionEmptyPool(t *testing.T) {
	c, err := NewCatalog([]Entry{{CountryISOCode: "DE", CityName: "Berlin", Region: Europe, Weight: 1}}, nil)
	require.NoError(t, err)
	_, err = c.SampleRegion(rng.New("geo-test"), Asia)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSampleFavorsHeavyEntries(t *testing.T) {
	c, err := NewCatalog([]Entry{
		{CountryISOCode: "DE", CityName: "Berlin", Region: Europe, Weight: 99},
		{CountryISOCode: "FR", CityName: "Paris", Region: Europe, Weight: 1},
	}, nil)
	require.NoError(t, err)
	r := rng.New("geo-test")
	berlin := 0
	for i := 0; i < 1000; i++ {
		e, err := c.Sample(r)
		require.NoError(t, err)
		if e.CityName == "Berlin" {
			berlin++
		}
	}
	assert.Greater(t, berlin, 900)
}

var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

func TestRandomIPShape(t *testing.T) {
	c := DefaultCatalog()
	r := rng.New("geo-test")
	for _, region := range Regions() {
		t.Run(string(region), func(t *testing.T) {
			for i := 0; i < 200; i++ {
				ip := c.RandomIP(r, region)
				require.Regexp(t, ipv4Pattern, ip)
				parts := strings.Split(ip, ".")
				for _, p := range parts {
					n, err := strconv.Atoi(p)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, n, 0)
					assert.LessOrEqual(t, n, 255)
				}
				last, _ := strconv.Atoi(parts[3])
				assert.GreaterOrEqual(t, last, 1)
				assert.LessOrEqual(t, last, 254)
			}
		})
	}
}

func TestRandomIPStaysInConfiguredRange(t *testing.T) {
	c, err := NewCatalog(
		[]Entry{{CountryISOCode: "DE", CityName: "Berlin", Region: Europe, Weight: 1}},
		map[Region][]IPRange{
			Europe: {{Start: [4]int{10, 20, 30, 0}, End: [4]int{10, 20, 40, 255}}},
		},
	)
	require.NoError(t, err)
	r := rng.New("geo-test")
	for i := 0; i < 200; i++ {
		ip := c.RandomIP(r, Europe)
		parts := strings.Split(ip, ".")
		require.Len(t, parts, 4)
		assert.Equal(t, "10", parts[0])
		assert.Equal(t, "20", parts[1])
		third, _ := strconv.Atoi(parts[2])
		assert.GreaterOrEqual(t, third, 30)
		assert.LessOrEqual(t, third, 40)
	}
}

func TestRandomIPFallbackWithoutRanges(t *testing.T) {
	c, err := NewCatalog([]Entry{{CountryISOCode: "DE", CityName: "Berlin", Region: Europe, Weight: 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.1", c.RandomIP(rng.New("geo-test"), Europe))
}

func TestEveryRegionHasIPRanges(t *testing.T) {
	c := DefaultCatalog()
	r := rng.New("geo-test")
	for _, region := range Regions() {
		ip := c.RandomIP(r, region)
		assert.NotEqual(t, "198.51.100.1", ip, fmt.Sprintf("region %s fell back", region))
	}
}

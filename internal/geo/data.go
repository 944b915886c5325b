package geo

// Built-in origin table. Weights skew toward the larger cities; selection
// normalizes over the active pool so they need not sum to 1.

func defaultEntries() []Entry {
	return []Entry{
		// Europe
		{CountryISOCode: "GB", CountryName: "United Kingdom", CityName: "London", Lat: 51.5074, Lon: -0.1278, Region: Europe, Weight: 3},
		{CountryISOCode: "GB", CountryName: "United Kingdom", CityName: "Manchester", Lat: 53.4808, Lon: -2.2426, Region: Europe, Weight: 1},
		{CountryISOCode: "GB", CountryName: "United Kingdom", CityName: "Birmingham", Lat: 52.4862, Lon: -1.8904, Region: Europe, Weight: 1},
		{CountryISOCode: "DE", CountryName: "Germany", CityName: "Berlin", Lat: 52.5200, Lon: 13.4050, Region: Europe, Weight: 3},
		{CountryISOCode: "DE", CountryName: "Germany", CityName: "Munich", Lat: 48.1351, Lon: 11.5820, Region: Europe, Weight: 2},
		{CountryISOCode: "DE", CountryName: "Germany", CityName: "Frankfurt", Lat: 50.1109, Lon: 8.6821, Region: Europe, Weight: 2},
		{CountryISOCode: "FR", CountryName: "France", CityName: "Paris", Lat: 48.8566, Lon: 2.3522, Region: Europe, Weight: 3},
		{CountryISOCode: "FR", CountryName: "France", CityName: "Lyon", Lat: 45.7640, Lon: 4.8357, Region: Europe, Weight: 1},
		{CountryISOCode: "FR", CountryName: "France", CityName: "Marseille", Lat: 43.2965, Lon: 5.3698, Region: Europe, Weight: 1},

		// Asia
		{CountryISOCode: "JP", CountryName: "Japan", CityName: "Tokyo", Lat: 35.6762, Lon: 139.6503, Region: Asia, Weight: 3},
		{CountryISOCode: "JP", CountryName: "Japan", CityName: "Osaka", Lat: 34.6937, Lon: 135.5023, Region: Asia, Weight: 2},
		{CountryISOCode: "JP", CountryName: "Japan", CityName: "Kyoto", Lat: 35.0116, Lon: 135.7681, Region: Asia, Weight: 1},
		{CountryISOCode: "CN", CountryName: "China", CityName: "Beijing", Lat: 39.9042, Lon: 116.4074, Region: Asia, Weight: 3},
		{CountryISOCode: "CN", CountryName: "China", CityName: "Shanghai", Lat: 31.2304, Lon: 121.4737, Region: Asia, Weight: 3},
		{CountryISOCode: "CN", CountryName: "China", CityName: "Shenzhen", Lat: 22.5431, Lon: 114.0579, Region: Asia, Weight: 2},
		{CountryISOCode: "IN", CountryName: "India", CityName: "Mumbai", Lat: 19.0760, Lon: 72.8777, Region: Asia, Weight: 3},
		{CountryISOCode: "IN", CountryName: "India", CityName: "Delhi", Lat: 28.7041, Lon: 77.1025, Region: Asia, Weight: 3},
		{CountryISOCode: "IN", CountryName: "India", CityName: "Bangalore", Lat: 12.9716, Lon: 77.5946, Region: Asia, Weight: 2},

		// South America
		{CountryISOCode: "BR", CountryName: "Brazil", CityName: "São Paulo", Lat: -23.5505, Lon: -46.6333, Region: SouthAmerica, Weight: 3},
		{CountryISOCode: "BR", CountryName: "Brazil", CityName: "Rio de Janeiro", Lat: -22.9068, Lon: -43.1729, Region: SouthAmerica, Weight: 2},
		{CountryISOCode: "BR", CountryName: "Brazil", CityName: "Brasília", Lat: -15.8267, Lon: -47.9218, Region: SouthAmerica, Weight: 1},
		{CountryISOCode: "AR", CountryName: "Argentina", CityName: "Buenos Aires", Lat: -34.6037, Lon: -58.3816, Region: SouthAmerica, Weight: 3},
		{CountryISOCode: "AR", CountryName: "Argentina", CityName: "Córdoba", Lat: -31.4201, Lon: -64.1888, Region: SouthAmerica, Weight: 1},
		{CountryISOCode: "AR", CountryName: "Argentina", CityName: "Rosario", Lat: -32.9442, Lon: -60.6505, Region: SouthAmerica, Weight: 1},
		{CountryISOCode: "CO", CountryName: "Colombia", CityName: "Bogotá", Lat: 4.7110, Lon: -74.0721, Region: SouthAmerica, Weight: 2},
		{CountryISOCode: "CO", CountryName: "Colombia", CityName: "Medellín", Lat: 6.2476, Lon: -75.5658, Region: SouthAmerica, Weight: 1},
		{CountryISOCode: "CO", CountryName: "Colombia", CityName: "Cali", Lat: 3.4516, Lon: -76.5320, Region: SouthAmerica, Weight: 1},

		// Africa
		{CountryISOCode: "ZA", CountryName: "South Africa", CityName: "Johannesburg", Lat: -26.2041, Lon: 28.0473, Region: Africa, Weight: 3},
		{CountryISOCode: "ZA", CountryName: "South Africa", CityName: "Cape Town", Lat: -33.9249, Lon: 18.4241, Region: Africa, Weight: 2},
		{CountryISOCode: "ZA", CountryName: "South Africa", CityName: "Durban", Lat: -29.8587, Lon: 31.0218, Region: Africa, Weight: 1},
		{CountryISOCode: "NG", CountryName: "Nigeria", CityName: "Lagos", Lat: 6.5244, Lon: 3.3792, Region: Africa, Weight: 3},
		{CountryISOCode: "NG", CountryName: "Nigeria", CityName: "Abuja", Lat: 9.0765, Lon: 7.3986, Region: Africa, Weight: 1},
		{CountryISOCode: "NG", CountryName: "Nigeria", CityName: "Kano", Lat: 12.0022, Lon: 8.5920, Region: Africa, Weight: 1},
		{CountryISOCode: "EG", CountryName: "Egypt", CityName: "Cairo", Lat: 30.0444, Lon: 31.2357, Region: Africa, Weight: 3},
		{CountryISOCode: "EG", CountryName: "Egypt", CityName: "Alexandria", Lat: 31.2001, Lon: 29.9187, Region: Africa, Weight: 1},
		{CountryISOCode: "EG", CountryName: "Egypt", CityName: "Giza", Lat: 30.0131, Lon: 31.2089, Region: Africa, Weight: 1},

		// Australia
		{CountryISOCode: "AU", CountryName: "Australia", CityName: "Sydney", Lat: -33.8688, Lon: 151.2093, Region: Australia, Weight: 3},
		{CountryISOCode: "AU", CountryName: "Australia", CityName: "Melbourne", Lat: -37.8136, Lon: 144.9631, Region: Australia, Weight: 3},
		{CountryISOCode: "AU", CountryName: "Australia", CityName: "Brisbane", Lat: -27.4698, Lon: 153.0251, Region: Australia, Weight: 1},

		// North America
		{CountryISOCode: "US", CountryName: "United States", CityName: "New York", Lat: 40.7128, Lon: -74.0060, Region: NorthAmerica, Weight: 3},
		{CountryISOCode: "US", CountryName: "United States", CityName: "Los Angeles", Lat: 34.0522, Lon: -118.2437, Region: NorthAmerica, Weight: 3},
		{CountryISOCode: "US", CountryName: "United States", CityName: "Chicago", Lat: 41.8781, Lon: -87.6298, Region: NorthAmerica, Weight: 2},
		{CountryISOCode: "US", CountryName: "United States", CityName: "San Francisco", Lat: 37.7749, Lon: -122.4194, Region: NorthAmerica, Weight: 2},
		{CountryISOCode: "CA", CountryName: "Canada", CityName: "Toronto", Lat: 43.6532, Lon: -79.3832, Region: NorthAmerica, Weight: 2},
		{CountryISOCode: "CA", CountryName: "Canada", CityName: "Vancouver", Lat: 49.2827, Lon: -123.1207, Region: NorthAmerica, Weight: 1},
		{CountryISOCode: "CA", CountryName: "Canada", CityName: "Montreal", Lat: 45.5017, Lon: -73.5673, Region: NorthAmerica, Weight: 1},
	}
}

func defaultRanges() map[Region][]IPRange {
	return map[Region][]IPRange{
		Europe: {
			{Start: [4]int{2, 16, 0, 0}, End: [4]int{2, 31, 255, 255}},
			{Start: [4]int{5, 0, 0, 0}, End: [4]int{5, 255, 255, 255}},
			{Start: [4]int{31, 0, 0, 0}, End: [4]int{31, 255, 255, 255}},
			{Start: [4]int{37, 0, 0, 0}, End: [4]int{37, 255, 255, 255}},
			{Start: [4]int{46, 0, 0, 0}, End: [4]int{46, 255, 255, 255}},
			{Start: [4]int{62, 0, 0, 0}, End: [4]int{62, 255, 255, 255}},
			{Start: [4]int{78, 0, 0, 0}, End: [4]int{78, 255, 255, 255}},
			{Start: [4]int{80, 0, 0, 0}, End: [4]int{80, 255, 255, 255}},
			{Start: [4]int{82, 0, 0, 0}, End: [4]int{82, 255, 255, 255}},
			{Start: [4]int{88, 0, 0, 0}, End: [4]int{88, 255, 255, 255}},
		},
		Asia: {
			{Start: [4]int{1, 0, 0, 0}, End: [4]int{1, 255, 255, 255}},
			{Start: [4]int{14, 0, 0, 0}, End: [4]int{14, 255, 255, 255}},
			{Start: [4]int{27, 0, 0, 0}, End: [4]int{27, 255, 255, 255}},
			{Start: [4]int{36, 0, 0, 0}, End: [4]int{36, 255, 255, 255}},
			{Start: [4]int{42, 0, 0, 0}, End: [4]int{42, 255, 255, 255}},
			{Start: [4]int{58, 0, 0, 0}, End: [4]int{58, 255, 255, 255}},
			{Start: [4]int{103, 0, 0, 0}, End: [4]int{103, 255, 255, 255}},
			{Start: [4]int{110, 0, 0, 0}, End: [4]int{110, 255, 255, 255}},
			{Start: [4]int{116, 0, 0, 0}, End: [4]int{116, 255, 255, 255}},
			{Start: [4]int{125, 0, 0, 0}, End: [4]int{125, 255, 255, 255}},
		},
		SouthAmerica: {
			{Start: [4]int{177, 0, 0, 0}, End: [4]int{177, 255, 255, 255}},
			{Start: [4]int{179, 0, 0, 0}, End: [4]int{179, 255, 255, 255}},
			{Start: [4]int{181, 0, 0, 0}, End: [4]int{181, 255, 255, 255}},
			{Start: [4]int{186, 0, 0, 0}, End: [4]int{186, 255, 255, 255}},
			{Start: [4]int{187, 0, 0, 0}, End: [4]int{187, 255, 255, 255}},
			{Start: [4]int{189, 0, 0, 0}, End: [4]int{189, 255, 255, 255}},
			{Start: [4]int{190, 0, 0, 0}, End: [4]int{190, 255, 255, 255}},
			{Start: [4]int{191, 0, 0, 0}, End: [4]int{191, 255, 255, 255}},
			{Start: [4]int{200, 0, 0, 0}, End: [4]int{200, 255, 255, 255}},
			{Start: [4]int{201, 0, 0, 0}, End: [4]int{201, 255, 255, 255}},
		},
		Africa: {
			{Start: [4]int{41, 0, 0, 0}, End: [4]int{41, 255, 255, 255}},
			{Start: [4]int{102, 0, 0, 0}, End: [4]int{102, 255, 255, 255}},
			{Start: [4]int{105, 0, 0, 0}, End: [4]int{105, 255, 255, 255}},
			{Start: [4]int{129, 0, 0, 0}, End: [4]int{129, 255, 255, 255}},
			{Start: [4]int{154, 0, 0, 0}, End: [4]int{154, 255, 255, 255}},
			{Start: [4]int{155, 0, 0, 0}, End: [4]int{155, 255, 255, 255}},
			{Start: [4]int{160, 0, 0, 0}, End: [4]int{160, 255, 255, 255}},
			{Start: [4]int{169, 0, 0, 0}, End: [4]int{169, 255, 255, 255}},
			{Start: [4]int{196, 0, 0, 0}, End: [4]int{196, 255, 255, 255}},
			{Start: [4]int{197, 0, 0, 0}, End: [4]int{197, 255, 255, 255}},
		},
		Australia: {
			{Start: [4]int{1, 128, 0, 0}, End: [4]int{1, 159, 255, 255}},
			{Start: [4]int{27, 32, 0, 0}, End: [4]int{27, 47, 255, 255}},
			{Start: [4]int{49, 0, 0, 0}, End: [4]int{49, 255, 255, 255}},
			{Start: [4]int{101, 0, 0, 0}, End: [4]int{101, 255, 255, 255}},
			{Start: [4]int{203, 0, 0, 0}, End: [4]int{203, 255, 255, 255}},
		},
		NorthAmerica: {
			{Start: [4]int{8, 0, 0, 0}, End: [4]int{8, 255, 255, 255}},
			{Start: [4]int{12, 0, 0, 0}, End: [4]int{12, 255, 255, 255}},
			{Start: [4]int{24, 0, 0, 0}, End: [4]int{24, 255, 255, 255}},
			{Start: [4]int{50, 0, 0, 0}, End: [4]int{50, 255, 255, 255}},
			{Start: [4]int{66, 0, 0, 0}, End: [4]int{66, 255, 255, 255}},
		},
	}
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultEntries(), defaultRanges())
	if err != nil {
		// built-in data is validated by tests; a bad table is a programming error
		panic(err)
	}
	return c
}

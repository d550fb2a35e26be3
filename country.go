package taxcalc

import "strings"

// Country describes a country of security domicile, with the names the tax
// forms need and the treaty data relevant to dividend withholding.
type Country struct {
	Code               string  // ISO 3166-1 alpha-2 code (e.g. "US", "GB")
	Name               string  // English name, as resolved by the company info service
	NamePL             string  // Polish name, for the tax forms
	ISINPrefix         string  // ISIN country prefix, usually equal to Code
	TaxTreaty          bool    // whether Poland has a tax treaty with this country
	WithholdingPercent float64 // standard treaty withholding rate, 0 when unknown
}

// CountryRegistry indexes countries by code, name and ISIN prefix. It is
// plain data passed explicitly to whoever needs it; there is no process-wide
// registry.
type CountryRegistry struct {
	byKey map[string]Country
}

// NewCountryRegistry creates a registry preloaded with the countries commonly
// seen in Trading212 accounts.
func NewCountryRegistry() *CountryRegistry {
	r := &CountryRegistry{byKey: make(map[string]Country)}
	for _, c := range []Country{
		{"US", "United States", "Stany Zjednoczone", "US", true, 15.0},
		{"GB", "United Kingdom", "Wielka Brytania", "GB", true, 10.0},
		{"DE", "Germany", "Niemcy", "DE", true, 15.0},
		{"FR", "France", "Francja", "FR", true, 15.0},
		{"CH", "Switzerland", "Szwajcaria", "CH", true, 15.0},
		{"IE", "Ireland", "Irlandia", "IE", true, 15.0},
		{"NL", "Netherlands", "Holandia", "NL", true, 15.0},
		{"SE", "Sweden", "Szwecja", "SE", true, 15.0},
		{"ES", "Spain", "Hiszpania", "ES", true, 15.0},
		{"IT", "Italy", "Włochy", "IT", true, 15.0},
		{"JP", "Japan", "Japonia", "JP", true, 10.0},
		{"CA", "Canada", "Kanada", "CA", true, 15.0},
		{"AU", "Australia", "Australia", "AU", true, 15.0},
		{"DK", "Denmark", "Dania", "DK", true, 15.0},
		{"FI", "Finland", "Finlandia", "FI", true, 15.0},
		{"NO", "Norway", "Norwegia", "NO", true, 15.0},
		{"BE", "Belgium", "Belgia", "BE", true, 15.0},
		{"LU", "Luxembourg", "Luksemburg", "LU", true, 15.0},
		{"HK", "Hong Kong", "Hongkong", "HK", false, 0.0},
		{"SG", "Singapore", "Singapur", "SG", true, 10.0},
		{"KR", "South Korea", "Korea Południowa", "KR", true, 10.0},
		{"CN", "China", "Chiny", "CN", true, 10.0},
		{"IN", "India", "Indie", "IN", true, 10.0},
		{"BR", "Brazil", "Brazylia", "BR", true, 15.0},
		{"ZA", "South Africa", "Republika Południowej Afryki", "ZA", true, 10.0},
		{"PL", "Poland", "Polska", "PL", false, 19.0},
	} {
		r.Add(c)
	}
	return r
}

// Add registers a country, indexing it by code, name and ISIN prefix.
func (r *CountryRegistry) Add(c Country) {
	r.byKey[c.Code] = c
	if c.Name != c.Code {
		r.byKey[c.Name] = c
	}
	if c.ISINPrefix != c.Code {
		r.byKey[c.ISINPrefix] = c
	}
}

// Lookup finds a country by code, English name, or ISIN prefix.
func (r *CountryRegistry) Lookup(identifier string) (Country, bool) {
	c, ok := r.byKey[identifier]
	return c, ok
}

// FromISIN resolves the country of an ISIN from its two-letter prefix.
func (r *CountryRegistry) FromISIN(isin string) (Country, bool) {
	if len(isin) < 2 {
		return Country{}, false
	}
	return r.Lookup(strings.ToUpper(isin[:2]))
}

// IsValidISIN performs the structural ISIN check: 12 characters, a two-letter
// country prefix, then alphanumerics. The check digit is not verified.
func IsValidISIN(isin string) bool {
	isin = strings.ToUpper(strings.TrimSpace(isin))
	if len(isin) != 12 {
		return false
	}
	for i, r := range isin {
		switch {
		case i < 2:
			if r < 'A' || r > 'Z' {
				return false
			}
		default:
			if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				return false
			}
		}
	}
	return true
}

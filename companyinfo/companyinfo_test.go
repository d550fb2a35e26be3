package companyinfo

import (
	"testing"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
)

func TestStaticCountryOf(t *testing.T) {
	s := &Static{
		Countries: map[string]string{"US0378331005": "United States"},
		Registry:  taxcalc.NewCountryRegistry(),
	}

	tests := []struct {
		isin string
		want string
	}{
		{"US0378331005", "United States"},
		{"IE00B4L5Y983", "Ireland (from ISIN)"},
		{"XX0000000000", taxcalc.UnknownCountry},
		{"", taxcalc.UnknownCountry},
	}
	for _, tc := range tests {
		if got := s.CountryOf(tc.isin, "any name"); got != tc.want {
			t.Errorf("CountryOf(%q) = %q, want %q", tc.isin, got, tc.want)
		}
	}
}

func TestStaticWithoutRegistry(t *testing.T) {
	s := &Static{}
	if got := s.CountryOf("IE00B4L5Y983", ""); got != taxcalc.UnknownCountry {
		t.Errorf("CountryOf without registry = %q, want Unknown", got)
	}
}

func TestClientFromISINFallback(t *testing.T) {
	c := New(taxcalc.NewCountryRegistry())

	if got := c.fromISIN("IE00B4L5Y983"); got != "Ireland (from ISIN)" {
		t.Errorf("fromISIN = %q", got)
	}
	if got := c.fromISIN("ZZ0000000000"); got != taxcalc.UnknownCountry {
		t.Errorf("fromISIN unknown prefix = %q, want Unknown", got)
	}
}

func TestClientEmptyISIN(t *testing.T) {
	c := New(taxcalc.NewCountryRegistry())
	if got := c.CountryOf("  ", "Some Fund"); got != taxcalc.UnknownCountry {
		t.Errorf("CountryOf(blank) = %q, want Unknown", got)
	}
}

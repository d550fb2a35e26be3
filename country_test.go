package taxcalc

import "testing"

func TestCountryRegistryLookup(t *testing.T) {
	r := NewCountryRegistry()

	tests := []struct {
		identifier string
		wantName   string
	}{
		{"US", "United States"},
		{"United States", "United States"},
		{"GB", "United Kingdom"},
		{"PL", "Poland"},
	}
	for _, tc := range tests {
		c, ok := r.Lookup(tc.identifier)
		if !ok || c.Name != tc.wantName {
			t.Errorf("Lookup(%q) = %+v (%v), want %s", tc.identifier, c, ok, tc.wantName)
		}
	}

	if _, ok := r.Lookup("Atlantis"); ok {
		t.Error("Lookup of unknown country succeeded")
	}
}

func TestCountryFromISIN(t *testing.T) {
	r := NewCountryRegistry()

	if c, ok := r.FromISIN("US0378331005"); !ok || c.Name != "United States" {
		t.Errorf("FromISIN(US...) = %+v (%v)", c, ok)
	}
	if c, ok := r.FromISIN("ie00b4l5y983"); !ok || c.Name != "Ireland" {
		t.Errorf("FromISIN is not case insensitive: %+v (%v)", c, ok)
	}
	if _, ok := r.FromISIN("X"); ok {
		t.Error("FromISIN accepted a one-character string")
	}
	if _, ok := r.FromISIN("XX0000000000"); ok {
		t.Error("FromISIN resolved an unknown prefix")
	}
}

func TestIsValidISIN(t *testing.T) {
	tests := []struct {
		isin string
		want bool
	}{
		{"US0378331005", true},
		{"IE00B4L5Y983", true},
		{" us0378331005 ", true}, // trimmed and case folded
		{"US037833100", false},   // 11 characters
		{"0S0378331005", false},  // digit in the prefix
		{"US03783310-5", false},  // punctuation
		{"", false},
	}
	for _, tc := range tests {
		if got := IsValidISIN(tc.isin); got != tc.want {
			t.Errorf("IsValidISIN(%q) = %v, want %v", tc.isin, got, tc.want)
		}
	}
}

package taxcalc

import (
	"strings"
	"testing"
)

func TestDividendAggregation(t *testing.T) {
	txs := []Transaction{
		dividendOn(t, "2024-03-15", "AAPL", "United States", 1000, 150),
	}

	result := NewDividendCalculator(DefaultTaxRate).Calculate(txs, 0)
	if len(result.Issues) > 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}

	s, ok := result.Summaries["United States"]
	if !ok {
		t.Fatalf("no summary for United States, got %v", result.Countries())
	}
	assertMoney(t, "total", s.TotalDividendPLN, 1000)
	assertMoney(t, "tax due", s.TaxDuePolandPLN, 190)
	assertMoney(t, "paid abroad", s.TaxPaidAbroadPLN, 150)
	assertMoney(t, "to pay", s.TaxToPayPLN, 40)
	if s.Count != 1 {
		t.Errorf("Count = %d, want 1", s.Count)
	}
}

func TestDividendExcessWithholdingFloorsAtZero(t *testing.T) {
	txs := []Transaction{
		dividendOn(t, "2024-03-15", "MC", "France", 1000, 250),
	}

	result := NewDividendCalculator(DefaultTaxRate).Calculate(txs, 0)
	s := result.Summaries["France"]
	if s == nil {
		t.Fatal("no summary for France")
	}
	assertMoney(t, "tax due", s.TaxDuePolandPLN, 190)
	// 250 withheld abroad exceeds the 190 due; the excess is not refunded.
	assertMoney(t, "to pay", s.TaxToPayPLN, 0)
}

func TestDividendMultipleCountries(t *testing.T) {
	txs := []Transaction{
		dividendOn(t, "2024-01-15", "AAPL", "United States", 600, 90),
		dividendOn(t, "2024-04-15", "MSFT", "United States", 400, 60),
		dividendOn(t, "2024-03-15", "SAP", "Germany", 200, 0),
		dividendOn(t, "2024-05-15", "XYZ", UnknownCountry, 100, 0),
	}

	result := NewDividendCalculator(DefaultTaxRate).Calculate(txs, 0)
	wantCountries := []string{"Germany", "United States", UnknownCountry}
	got := result.Countries()
	if len(got) != len(wantCountries) {
		t.Fatalf("countries = %v, want %v", got, wantCountries)
	}
	for i := range wantCountries {
		if got[i] != wantCountries[i] {
			t.Fatalf("countries = %v, want %v", got, wantCountries)
		}
	}

	us := result.Summaries["United States"]
	assertMoney(t, "US total", us.TotalDividendPLN, 1000)
	if us.Count != 2 {
		t.Errorf("US Count = %d, want 2", us.Count)
	}

	assertMoney(t, "stats total", result.Stats.TotalDividendPLN, 1300)
	assertMoney(t, "stats due", result.Stats.TaxDuePolandPLN, 247)
	if result.Stats.Dividends != 4 {
		t.Errorf("Stats.Dividends = %d, want 4", result.Stats.Dividends)
	}
}

func TestDividendYearFilter(t *testing.T) {
	txs := []Transaction{
		dividendOn(t, "2023-03-15", "AAPL", "United States", 500, 75),
		dividendOn(t, "2024-03-15", "AAPL", "United States", 1000, 150),
	}

	result := NewDividendCalculator(DefaultTaxRate).Calculate(txs, 2024)
	s := result.Summaries["United States"]
	if s == nil {
		t.Fatal("no summary for United States")
	}
	assertMoney(t, "total", s.TotalDividendPLN, 1000)
	if result.Stats.TaxYear != 2024 {
		t.Errorf("Stats.TaxYear = %d, want 2024", result.Stats.TaxYear)
	}
}

func TestDividendEmptyBatch(t *testing.T) {
	// Buys and sells only: no dividends is a benign empty result.
	txs := []Transaction{
		buyOn(t, "2024-01-10", "AAPL", 10, 10),
		sellOn(t, "2024-06-10", "AAPL", 10, 15),
	}

	result := NewDividendCalculator(DefaultTaxRate).Calculate(txs, 0)
	if len(result.Summaries) != 0 || len(result.Issues) != 0 {
		t.Errorf("empty batch produced %v / %v", result.Summaries, result.Issues)
	}
}

func TestDividendMissingCountryIsAnIssue(t *testing.T) {
	d := dividendOn(t, "2024-03-15", "AAPL", "", 1000, 150)

	issues := NewDividendCalculator(DefaultTaxRate).Validate([]Dividend{d})
	if len(issues) != 1 || !strings.Contains(issues[0], "has no country information") {
		t.Errorf("issues = %v, want a country issue", issues)
	}

	result := NewDividendCalculator(DefaultTaxRate).Calculate([]Transaction{d}, 0)
	if len(result.Issues) == 0 {
		t.Error("calculation reported no issues for a dividend without country")
	}
}

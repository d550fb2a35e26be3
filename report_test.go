package taxcalc

import (
	"testing"
)

// run computes both calculations and the report over a batch.
func run(t *testing.T, txs []Transaction, year int) *TaxReport {
	t.Helper()
	fifo := FIFOCalculator{}.Calculate(txs, year)
	div := NewDividendCalculator(DefaultTaxRate).Calculate(txs, year)
	return BuildTaxReport(fifo, div, DefaultTaxRate, year)
}

func TestReportProfitTruncation(t *testing.T) {
	txs := []Transaction{
		buyOn(t, "2024-01-10", "AAPL", 1, 0.05),
		sellOn(t, "2024-06-10", "AAPL", 1, 1000.80),
	}

	report := run(t, txs, 2024)
	assertMoney(t, "profit", report.PIT38.ProfitPLN, 1000.75)
	assertMoney(t, "loss", report.PIT38.LossPLN, 0)

	// Form fields truncate to whole PLN: base 1000, tax 190.
	if report.PIT38.TaxBase != 1000 {
		t.Errorf("TaxBase = %d, want 1000", report.PIT38.TaxBase)
	}
	if report.PIT38.TaxDue != 190 {
		t.Errorf("TaxDue = %d, want 190", report.PIT38.TaxDue)
	}
	if report.Year != 2024 {
		t.Errorf("Year = %d, want 2024", report.Year)
	}
}

func TestReportLoss(t *testing.T) {
	txs := []Transaction{
		buyOn(t, "2024-01-10", "AAPL", 10, 20),
		sellOn(t, "2024-06-10", "AAPL", 10, 15),
	}

	report := run(t, txs, 0)
	assertMoney(t, "profit", report.PIT38.ProfitPLN, 0)
	assertMoney(t, "loss", report.PIT38.LossPLN, 50)
	if report.PIT38.TaxBase != 0 || report.PIT38.TaxDue != 0 {
		t.Errorf("a loss year must owe nothing, got base %d due %d", report.PIT38.TaxBase, report.PIT38.TaxDue)
	}
}

func TestReportPITZG(t *testing.T) {
	profitable := []Transaction{
		buyOn(t, "2024-01-10", "AAPL", 10, 10),
		sellOn(t, "2024-06-10", "AAPL", 10, 20),
	}
	losing := []Transaction{
		buyOn(t, "2024-01-10", "SAP", 10, 20),
		sellOn(t, "2024-06-10", "SAP", 10, 10),
	}
	setCountry := func(txs []Transaction, country string) {
		for i, tx := range txs {
			switch v := tx.(type) {
			case Buy:
				v.Country = country
				txs[i] = v
			case Sell:
				v.Country = country
				txs[i] = v
			}
		}
	}
	setCountry(profitable, "United States")
	setCountry(losing, "Germany (from ISIN)")

	report := run(t, append(profitable, losing...), 0)
	if len(report.PITZG) != 2 {
		t.Fatalf("got %d PIT/ZG entries, want 2", len(report.PITZG))
	}

	// Sorted by country: Germany first.
	de, us := report.PITZG[0], report.PITZG[1]

	if de.Country != "Germany (from ISIN)" || !de.RequiresVerification {
		t.Errorf("ISIN-derived country not flagged for verification: %+v", de)
	}
	// A foreign loss is floored at zero and stays off the official form.
	assertMoney(t, "DE profit", de.ProfitPLN, 0)
	if de.IncludeInForm {
		t.Error("losing country must not be included in the official form")
	}

	if us.Country != "United States" || us.RequiresVerification {
		t.Errorf("unexpected US entry: %+v", us)
	}
	assertMoney(t, "US profit", us.ProfitPLN, 100)
	if !us.IncludeInForm || us.IncomeType != "10" {
		t.Errorf("US entry not reportable as income type 10: %+v", us)
	}
}

func TestReportTotalTaxDue(t *testing.T) {
	txs := []Transaction{
		buyOn(t, "2024-01-10", "AAPL", 10, 10),
		sellOn(t, "2024-06-10", "AAPL", 10, 20), // profit 100, tax 19
		dividendOn(t, "2024-03-15", "AAPL", "United States", 1000, 150), // to pay 40
	}

	report := run(t, txs, 0)
	if got := report.PIT38.TotalTaxDue(); got != 59 {
		t.Errorf("TotalTaxDue = %d, want 59", got)
	}
	if len(report.PIT38.Dividends) != 1 {
		t.Fatalf("got %d dividend lines, want 1", len(report.PIT38.Dividends))
	}
	assertMoney(t, "dividend line to pay", report.PIT38.Dividends[0].TaxToPayPLN, 40)
}

func TestReportCollectsIssues(t *testing.T) {
	txs := []Transaction{
		buyOn(t, "2024-01-10", "AAPL", 1, 10),
		sellOn(t, "2024-02-10", "AAPL", 5, 10), // oversell
	}

	report := run(t, txs, 0)
	if len(report.Issues) == 0 {
		t.Error("report dropped the calculation issues")
	}
	if report.ID.String() == "" {
		t.Error("report has no ID")
	}
}

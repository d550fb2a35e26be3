// Package exporter writes the tax report to an Excel workbook laid out after
// the Polish PIT-38 and PIT/ZG forms, with one helper sheet per data set.
package exporter

import (
	"fmt"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/phuslu/log"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the generated workbook.
const (
	sheetPIT38Securities = "PIT-38 - Akcje i Koszty"
	sheetPIT38Dividends  = "PIT-38 - Dywidendy"
	sheetPITZG           = "PIT-ZG"
	sheetMatches         = "Transakcje FIFO"
	sheetHoldings        = "Otwarte pozycje"
)

// WriteExcel writes the report to an .xlsx workbook at path.
func WriteExcel(r *taxcalc.TaxReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := pit38Securities(f, r.PIT38); err != nil {
		return err
	}
	if err := pit38Dividends(f, r.PIT38); err != nil {
		return err
	}
	if err := pitZG(f, r.PITZG); err != nil {
		return err
	}
	if err := matches(f, r.Matches); err != nil {
		return err
	}
	if err := holdings(f, r.Portfolio); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("cannot write report to %q: %w", path, err)
	}
	log.Info().Str("file", path).Msg("excel report written")
	return nil
}

// formRow is one KOMÓRKA / NAZWA / WARTOŚĆ line of a form sheet.
type formRow struct {
	Cell  string
	Label string
	Value any
}

// writeFormSheet creates a sheet with the three-column form layout.
func writeFormSheet(f *excelize.File, sheet string, rows []formRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"KOMÓRKA", "NAZWA", "WARTOŚĆ"}); err != nil {
		return err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{row.Cell, row.Label, row.Value}); err != nil {
			return err
		}
	}
	return nil
}

func pit38Securities(f *excelize.File, s taxcalc.PIT38Summary) error {
	income := amount(s.TotalIncomePLN)
	cost := amount(s.TotalCostPLN)

	// The default sheet becomes the securities sheet.
	f.SetSheetName("Sheet1", sheetPIT38Securities)
	return writeFormSheet(f, sheetPIT38Securities, []formRow{
		{"C.22", "Inne przychody / Przychód", income},
		{"C.23", "Inne przychody / Koszty uzyskania przychodów", cost},
		{"C.24", "Razem (suma kwot z wierszy 1 do 2) / Przychód", income},
		{"C.25", "Razem (suma kwot z wierszy 1 do 2) / Koszty uzyskania przychodów", cost},
		{"C.26", "Dochód (b-c)", amount(s.ProfitPLN)},
		{"C.27", "Strata (b-c)", amount(s.LossPLN)},
		{"D.29", "Podstawa obliczenia podatku (po zaokrągleniu do pełnych złotych)", s.TaxBase},
		{"D.31", "Podatek dochodowy o którym mowa w art. 30b ustawy", s.TaxDue},
		{"D.33", "Podatek należny (po zaokrągleniu do pełnych złotych)", s.TaxDue},
	})
}

func pit38Dividends(f *excelize.File, s taxcalc.PIT38Summary) error {
	var total taxcalc.Money
	for _, d := range s.Dividends {
		total = total.Add(d.DividendPLN)
	}

	rows := []formRow{
		{"-", "Suma wypłat dywidend zagranicznych - podstawa opodatkowania (wiersz pomocniczy)", amount(total)},
	}
	for _, d := range s.Dividends {
		rows = append(rows,
			formRow{"G.45", "Zryczałtowany podatek obliczony od przychodów (dochodów), o których mowa w art. 30a ust. 1 pkt 1-5 ustawy, uzyskanych poza granicami Rzeczypospolitej Polskiej", amount(d.TaxDuePLN)},
			formRow{"G.46", "Podatek zapłacony za granicą, o którym mowa w art. 30a ust. 9 ustawy (przeliczony na złote)", amount(d.TaxPaidAbroad)},
			formRow{"-", "Dokładna wartość podatku do dopłacenia (wiersz pomocniczy)", amount(d.TaxDuePLN.Sub(d.TaxPaidAbroad))},
			formRow{"G.47", "Różnica między zryczałtowanym podatkiem a podatkiem zapłaconym za granicą", amount(d.TaxToPayPLN)},
		)
	}
	return writeFormSheet(f, sheetPIT38Dividends, rows)
}

func pitZG(f *excelize.File, entries []taxcalc.PITZGEntry) error {
	if _, err := f.NewSheet(sheetPITZG); err != nil {
		return err
	}
	header := []any{
		"PAŃSTWO UZYSKANIA PRZYCHODU",
		"KOD KRAJU",
		"UWZGLĘDNIĆ W OFICJALNYM PIT/ZG",
		"WYMAGA WERYFIKACJI",
		"PRZYCHÓD [PLN]",
		"KOSZT UZYSKANIA PRZYCHODU [PLN]",
		"BILANS [PLN]",
		"PODATEK ZAPŁACONY ZA GRANICĄ [PLN]",
	}
	if err := f.SetSheetRow(sheetPITZG, "A1", &header); err != nil {
		return err
	}
	for i, e := range entries {
		row := []any{
			e.Country,
			"",
			takNie(e.IncludeInForm),
			takNie(e.RequiresVerification),
			amount(e.IncomePLN),
			amount(e.CostPLN),
			amount(e.ProfitPLN),
			amount(e.TaxPaidAbroadPLN),
		}
		if err := f.SetSheetRow(sheetPITZG, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func matches(f *excelize.File, results []taxcalc.MatchResult) error {
	if _, err := f.NewSheet(sheetMatches); err != nil {
		return err
	}
	header := []any{"Ticker", "Kraj", "Data zakupu", "Data sprzedaży", "Ilość", "Przychód [PLN]", "Koszt [PLN]", "Zysk [PLN]"}
	if err := f.SetSheetRow(sheetMatches, "A1", &header); err != nil {
		return err
	}
	for i, m := range results {
		row := []any{
			m.Ticker,
			m.Country,
			m.BuyDate.String(),
			m.SellDate.String(),
			m.UsedQuantity.String(),
			amount(m.IncomePLN),
			amount(m.CostPLN),
			amount(m.ProfitPLN),
		}
		if err := f.SetSheetRow(sheetMatches, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func holdings(f *excelize.File, pf *taxcalc.Portfolio) error {
	if _, err := f.NewSheet(sheetHoldings); err != nil {
		return err
	}
	header := []any{"Ticker", "Ilość", "Koszt nabycia [PLN]"}
	if err := f.SetSheetRow(sheetHoldings, "A1", &header); err != nil {
		return err
	}
	for i, ticker := range pf.Tickers() {
		pos := pf.Position(ticker)
		row := []any{ticker, pos.TotalShares().String(), amount(pos.CostBasis())}
		if err := f.SetSheetRow(sheetHoldings, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// amount converts an exact PLN value into the float a spreadsheet cell holds.
func amount(m taxcalc.Money) float64 {
	v, _ := m.Amount().Round(2).Float64()
	return v
}

func takNie(v bool) string {
	if v {
		return "TAK"
	}
	return "NIE"
}

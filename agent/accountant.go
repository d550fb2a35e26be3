package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/R4Sput1n/trading212-tax-calculator-PL/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// ProcessedFile is the JSONL file of processed transactions the accountant
// reads. The command layer points it at the configured location.
var ProcessedFile = "data/processed.jsonl"

// newFacilitator creates the facilitator in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			The user is a Polish retail investor preparing the yearly PIT-38 declaration for
			their Trading212 account. Learn about the experts' skills from the Tools and ask
			them questions; they keep context of your previous questions.

			The Accountant has access to the user's processed transactions and can compute
			realized gains, dividend summaries, open positions and the full tax report.
			The Analyst can search for general information about companies and markets.

			Devise a plan of questions to ask each expert and come up with the best response.
			Never present the figures as tax advice; remind the user to verify before filing
			when it matters.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the search-grounded market expert.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		well aware of financial products, institutions, and the latest news about
		companies. Ask the Analyst whenever you need recent or grounding information,
		for instance the country of domicile of a company.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert market analyst. You can search and find anything related to
			financial institutions, companies and markets. You leverage Google Search to
			ground your assertions.
				`}}},
		},
	}
}

// NewAccountant creates the expert with access to the user's transactions.
func NewAccountant() *Expert {
	lib := []Function{ReportFunc, MatchesFunc, DividendsFunc, HoldingsFunc}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He reads the user's processed Trading212
		transactions and computes the Polish tax figures: FIFO realized gains, dividend
		withholding reconciliation, open positions and the PIT-38 report.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's Trading212 transaction history.
				You know how to use the Tools to compute the user's Polish tax figures:
				  - the full PIT-38 tax report
				  - the FIFO matches behind the realized gains
				  - the per-country dividend summaries
				  - the open positions and their cost basis
				Most tools take a tax year; 0 means all years. Pardon the user's approximative
				language and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements Function from a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

var yearParam = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"year": {
			Type:        genai.TypeInteger,
			Description: "The tax year to compute, e.g. 2025. 0 (the default) covers all years.",
		},
	},
}

var markdownResponse = &genai.Schema{
	Type:        genai.TypeString,
	Description: "A markdown-formatted report.",
}

// ReportFunc computes the full tax report.
var ReportFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "TaxReport",
		Description: `TaxReport computes the complete Polish tax report for a year:
		the PIT-38 securities and dividend figures, the PIT/ZG rows and any issues.`,
		Parameters: yearParam,
		Response:   markdownResponse,
	},
	Func: markdownFunc("TaxReport", func(year int) (string, error) {
		txs, err := loadTransactions()
		if err != nil {
			return "", err
		}
		fifo := taxcalc.FIFOCalculator{}.Calculate(txs, year)
		div := taxcalc.NewDividendCalculator(taxcalc.DefaultTaxRate).Calculate(txs, year)
		report := taxcalc.BuildTaxReport(fifo, div, taxcalc.DefaultTaxRate, year)
		return renderer.ReportMarkdown(report), nil
	}),
}

// MatchesFunc lists the FIFO matches of a year.
var MatchesFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Matches",
		Description: `Matches lists every FIFO match of a year: which purchase lots were
		consumed by which sales, with the income, cost and profit of each match in PLN.`,
		Parameters: yearParam,
		Response:   markdownResponse,
	},
	Func: markdownFunc("Matches", func(year int) (string, error) {
		txs, err := loadTransactions()
		if err != nil {
			return "", err
		}
		return renderer.MatchesMarkdown(taxcalc.FIFOCalculator{}.Calculate(txs, year)), nil
	}),
}

// DividendsFunc aggregates the dividends of a year by country.
var DividendsFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Dividends",
		Description: `Dividends aggregates the dividends of a year by country of source,
		with the Polish tax due, the tax withheld abroad, and the net tax to pay.`,
		Parameters: yearParam,
		Response:   markdownResponse,
	},
	Func: markdownFunc("Dividends", func(year int) (string, error) {
		txs, err := loadTransactions()
		if err != nil {
			return "", err
		}
		return renderer.DividendsMarkdown(taxcalc.NewDividendCalculator(taxcalc.DefaultTaxRate).Calculate(txs, year)), nil
	}),
}

// HoldingsFunc lists the open positions after replaying the full history.
var HoldingsFunc = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Holdings",
		Description: `Holdings lists the user's open positions after replaying the full
		transaction history, with the remaining share count and PLN cost basis.`,
		Parameters: &genai.Schema{Type: genai.TypeObject},
		Response:   markdownResponse,
	},
	Func: markdownFunc("Holdings", func(int) (string, error) {
		txs, err := loadTransactions()
		if err != nil {
			return "", err
		}
		return renderer.HoldingsMarkdown(taxcalc.FIFOCalculator{}.Calculate(txs, 0).Portfolio), nil
	}),
}

// markdownFunc wraps a year-parameterized renderer into a Function callback.
func markdownFunc(name string, render func(year int) (string, error)) func(context.Context, string, map[string]any) *genai.FunctionResponse {
	return func(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
		fresp := &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{}}

		year, err := parseYear(args)
		if err != nil {
			fresp.Response["error"] = err.Error()
			return fresp
		}
		output, err := render(year)
		if err != nil {
			fresp.Response["error"] = err.Error()
			return fresp
		}
		fresp.Response["output"] = output
		return fresp
	}
}

// loadTransactions decodes the processed transactions file. A missing file is
// an empty history.
func loadTransactions() ([]taxcalc.Transaction, error) {
	f, err := os.Open(ProcessedFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open transactions file %q: %w", ProcessedFile, err)
	}
	defer f.Close()

	txs, err := taxcalc.DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode transactions file %q: %w", ProcessedFile, err)
	}
	return txs, nil
}

func parseYear(args map[string]any) (int, error) {
	iyear, ok := args["year"]
	if !ok {
		return 0, nil
	}
	switch y := iyear.(type) {
	case float64:
		return int(y), nil
	case int:
		return y, nil
	default:
		return 0, fmt.Errorf("argument 'year' is not a number but %T", iyear)
	}
}

// Package nbp fetches PLN exchange rates from the table-A API of the
// National Bank of Poland.
//
// Polish tax conversion uses the average (mid) rate published on the last
// business day preceding the trade. NBP does not publish on weekends and
// holidays, so the client walks back through preceding business days until a
// rate is found.
package nbp

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/PaesslerAG/jsonpath"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the NBP table-A endpoint for average exchange rates.
const DefaultBaseURL = "https://api.nbp.pl/api/exchangerates/rates/a"

// maxAttempts bounds the walk through preceding business days when a rate is
// missing (long holiday stretches).
const maxAttempts = 7

// ErrRateUnavailable is returned when no rate could be found within
// maxAttempts preceding business days.
var ErrRateUnavailable = errors.New("nbp: exchange rate unavailable")

// gbxPerGBP converts British pence quotes: Trading212 quotes some LSE
// instruments in GBX, NBP only publishes GBP.
var gbxPerGBP = decimal.NewFromInt(100)

// Client resolves PLN exchange rates against the NBP API. Responses are
// cached in memory per (day, currency); the underlying HTTP client adds a
// daily-expiring disk cache so reruns don't hit the API at all.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[string]decimal.Decimal
}

// New creates a Client for the given base URL ("" selects DefaultBaseURL).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  daily(),
		cache:   make(map[string]decimal.Decimal),
	}
}

// Rate returns the PLN mid rate for one unit of the given currency,
// applicable to a trade on the given date (i.e. the rate of the preceding
// business day). PLN and the empty currency return 1. GBX is converted
// through GBP.
func (c *Client) Rate(day taxcalc.Date, currency string) (decimal.Decimal, error) {
	if currency == "" || currency == taxcalc.Domestic {
		return decimal.NewFromInt(1), nil
	}

	key := day.String() + "_" + currency
	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	// GBX (British pence) is quoted as GBP divided by 100.
	lookup := currency
	divisor := decimal.NewFromInt(1)
	if currency == "GBX" {
		lookup = "GBP"
		divisor = gbxPerGBP
	}

	attempt := day.PreviousBusinessDay()
	for i := 0; i < maxAttempts; i++ {
		rate, err := c.fetch(attempt, lookup)
		if err != nil {
			log.Debug().Str("currency", lookup).Str("date", attempt.String()).Err(err).Msg("no NBP rate, walking back")
			attempt = attempt.PreviousBusinessDay()
			continue
		}

		rate = rate.Div(divisor)
		c.mu.Lock()
		c.cache[key] = rate
		c.mu.Unlock()
		return rate, nil
	}

	log.Warn().Str("currency", currency).Str("date", day.String()).Int("attempts", maxAttempts).Msg("NBP rate unavailable")
	return decimal.Decimal{}, fmt.Errorf("%w: %s on %s", ErrRateUnavailable, currency, day)
}

// fetch requests the mid rate for one exact publication date.
func (c *Client) fetch(day taxcalc.Date, currency string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/%s/%s/?format=json", c.baseURL, currency, day)

	var jobj any
	if err := jwget(c.client, addr, &jobj); err != nil {
		return decimal.Decimal{}, err
	}

	path := "$.rates[0].mid"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("error parsing NBP response: %q %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	mid, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("NBP response %q is not a number: %v", path, jval)
	}
	return decimal.NewFromFloat(mid), nil
}

// Static is a fixed-rate table for tests and offline runs. Unlisted
// currencies resolve to the Default rate.
type Static struct {
	Rates   map[string]decimal.Decimal
	Default decimal.Decimal
}

// NewStatic returns a Static with plausible rates for the usual currencies.
func NewStatic() *Static {
	return &Static{
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromFloat(4.0),
			"EUR": decimal.NewFromFloat(4.5),
			"GBP": decimal.NewFromFloat(5.0),
			"GBX": decimal.NewFromFloat(0.05),
			"PLN": decimal.NewFromInt(1),
		},
		Default: decimal.NewFromInt(4),
	}
}

// Rate returns the fixed rate for the currency, ignoring the date.
func (s *Static) Rate(_ taxcalc.Date, currency string) (decimal.Decimal, error) {
	if currency == "" || currency == taxcalc.Domestic {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := s.Rates[currency]; ok {
		return rate, nil
	}
	return s.Default, nil
}

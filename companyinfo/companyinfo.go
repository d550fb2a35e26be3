// Package companyinfo resolves the country of domicile of a security, which
// determines the dividend bucket on the PIT-38 form.
//
// The primary source is the Yahoo Finance asset profile, queried by ISIN.
// When Yahoo has no answer the country is derived from the ISIN prefix and
// labeled "(from ISIN)" so the report can flag it for manual verification.
// When both fail the security is bucketed under "Unknown".
package companyinfo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/phuslu/log"
)

// fromISINLabel marks a country resolved from the ISIN prefix only.
const fromISINLabel = " (from ISIN)"

// Client resolves company countries, caching each ISIN lookup for the
// lifetime of a run.
type Client struct {
	cli      *http.Client
	registry *taxcalc.CountryRegistry

	mu    sync.Mutex
	cache map[string]string
}

// New creates a Client backed by the given registry for ISIN-prefix fallback.
func New(registry *taxcalc.CountryRegistry) *Client {
	return &Client{
		cli:      &http.Client{Timeout: 8 * time.Second},
		registry: registry,
		cache:    make(map[string]string),
	}
}

// CountryOf returns the country of domicile for a security, or "Unknown".
// It never returns an error: an unresolved country is a reportable issue
// downstream, not a fatal condition during parsing.
func (c *Client) CountryOf(isin, name string) string {
	isin = strings.ToUpper(strings.TrimSpace(isin))
	if isin == "" {
		return taxcalc.UnknownCountry
	}

	c.mu.Lock()
	cached, ok := c.cache[isin]
	c.mu.Unlock()
	if ok {
		return cached
	}

	country, err := c.assetProfileCountry(isin)
	if err != nil || country == "" {
		if err != nil {
			log.Debug().Str("isin", isin).Str("name", name).Err(err).Msg("yahoo profile lookup failed")
		}
		country = c.fromISIN(isin)
	}

	c.mu.Lock()
	c.cache[isin] = country
	c.mu.Unlock()
	return country
}

// assetProfileCountry queries the Yahoo Finance quoteSummary asset profile.
func (c *Client) assetProfileCountry(isin string) (string, error) {
	url := fmt.Sprintf("https://query2.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=assetProfile", isin)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("User-Agent", "t212tax/1.0")

	resp, err := c.cli.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		QuoteSummary struct {
			Result []struct {
				AssetProfile struct {
					Country string `json:"country"`
				} `json:"assetProfile"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"quoteSummary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.QuoteSummary.Result) == 0 {
		return "", fmt.Errorf("yahoo: no result for %s", isin)
	}
	return raw.QuoteSummary.Result[0].AssetProfile.Country, nil
}

// fromISIN derives the country from the two-letter ISIN prefix.
func (c *Client) fromISIN(isin string) string {
	if country, ok := c.registry.FromISIN(isin); ok {
		return country.Name + fromISINLabel
	}
	return taxcalc.UnknownCountry
}

// Static is a fixed ISIN-to-country table for tests and offline runs,
// falling back to the ISIN prefix like the real client.
type Static struct {
	Countries map[string]string
	Registry  *taxcalc.CountryRegistry
}

// CountryOf returns the fixed country for the ISIN, the ISIN-prefix country,
// or "Unknown".
func (s *Static) CountryOf(isin, name string) string {
	if country, ok := s.Countries[isin]; ok {
		return country
	}
	if s.Registry != nil {
		if country, ok := s.Registry.FromISIN(isin); ok {
			return country.Name + fromISINLabel
		}
	}
	return taxcalc.UnknownCountry
}

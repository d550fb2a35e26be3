package nbp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	taxcalc "github.com/R4Sput1n/trading212-tax-calculator-PL"
	"github.com/shopspring/decimal"
)

// rateServer fakes the NBP table-A endpoint: rates maps "CUR/YYYY-MM-DD" to
// the published mid rate; anything else is a 404, like a non-publication day.
func rateServer(t *testing.T, rates map[string]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// path: /{currency}/{date}/
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 {
			http.NotFound(w, r)
			return
		}
		mid, ok := rates[parts[0]+"/"+parts[1]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"table":"A","currency":"test","code":%q,"rates":[{"no":"047/A/NBP/2024","effectiveDate":%q,"mid":%v}]}`,
			parts[0], parts[1], mid)
	}))
}

func TestRatePrecedingBusinessDay(t *testing.T) {
	// Trade on Wednesday; the applicable rate is Tuesday's.
	server := rateServer(t, map[string]float64{"USD/2024-03-12": 4.05})
	defer server.Close()

	client := New(server.URL)
	rate, err := client.Rate(taxcalc.NewDate(2024, time.March, 13), "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !rate.Equal(decimal.NewFromFloat(4.05)) {
		t.Errorf("rate = %s, want 4.05", rate)
	}
}

func TestRateWalksBackOverHoliday(t *testing.T) {
	// Trade on Monday; Friday was a holiday with no publication, so the rate
	// of the preceding Thursday applies.
	server := rateServer(t, map[string]float64{"EUR/2024-03-07": 4.31})
	defer server.Close()

	client := New(server.URL)
	rate, err := client.Rate(taxcalc.NewDate(2024, time.March, 11), "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if !rate.Equal(decimal.NewFromFloat(4.31)) {
		t.Errorf("rate = %s, want 4.31", rate)
	}
}

func TestRateUnavailable(t *testing.T) {
	server := rateServer(t, nil)
	defer server.Close()

	client := New(server.URL)
	_, err := client.Rate(taxcalc.NewDate(2024, time.March, 11), "USD")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "exchange rate unavailable") {
		t.Errorf("err = %v", err)
	}
}

func TestRateGBXThroughGBP(t *testing.T) {
	server := rateServer(t, map[string]float64{"GBP/2024-03-12": 5.10})
	defer server.Close()

	client := New(server.URL)
	rate, err := client.Rate(taxcalc.NewDate(2024, time.March, 13), "GBX")
	if err != nil {
		t.Fatal(err)
	}
	if !rate.Equal(decimal.NewFromFloat(0.051)) {
		t.Errorf("GBX rate = %s, want 0.051", rate)
	}
}

func TestRatePLNIsOne(t *testing.T) {
	client := New("http://unused.invalid")
	for _, currency := range []string{"PLN", ""} {
		rate, err := client.Rate(taxcalc.NewDate(2024, time.March, 13), currency)
		if err != nil {
			t.Fatal(err)
		}
		if !rate.Equal(decimal.NewFromInt(1)) {
			t.Errorf("Rate(%q) = %s, want 1", currency, rate)
		}
	}
}

func TestRateCachesPerDayAndCurrency(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"rates":[{"mid":4.0}]}`)
	}))
	defer server.Close()

	client := New(server.URL)
	day := taxcalc.NewDate(2024, time.March, 13)
	for i := 0; i < 3; i++ {
		if _, err := client.Rate(day, "USD"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1", calls)
	}
}

func TestStatic(t *testing.T) {
	s := NewStatic()
	day := taxcalc.NewDate(2024, time.March, 13)

	rate, err := s.Rate(day, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !rate.Equal(decimal.NewFromFloat(4.0)) {
		t.Errorf("USD = %s", rate)
	}

	rate, err = s.Rate(day, "XXX")
	if err != nil {
		t.Fatal(err)
	}
	if !rate.Equal(s.Default) {
		t.Errorf("unknown currency = %s, want the default", rate)
	}

	rate, err = s.Rate(day, "PLN")
	if err != nil || !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("PLN = %s (%v), want 1", rate, err)
	}
}

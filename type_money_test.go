package taxcalc

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyArithmetic(t *testing.T) {
	a := PLN(10.50)
	b := PLN(2.25)

	assertMoney(t, "add", a.Add(b), 12.75)
	assertMoney(t, "sub", a.Sub(b), 8.25)
	assertMoney(t, "mul", a.Mul(Q(3)), 31.50)
	assertMoney(t, "div", a.Div(Q(2)), 5.25)
	assertMoney(t, "neg", a.Neg(), -10.50)
}

func TestMoneyWeakEmptyCurrency(t *testing.T) {
	// The zero Money acts as a neutral accumulator seed.
	var total Money
	total = total.Add(PLN(5))
	if total.Currency() != Domestic {
		t.Errorf("currency after accumulation = %q, want PLN", total.Currency())
	}
	assertMoney(t, "total", total, 5)
}

func TestMoneyMulRate(t *testing.T) {
	usd := M(100.0, "USD")
	pln := usd.MulRate(decimal.NewFromFloat(4.05))
	if pln.Currency() != Domestic {
		t.Errorf("converted currency = %q, want PLN", pln.Currency())
	}
	assertMoney(t, "converted", pln, 405)
}

func TestMoneyTruncated(t *testing.T) {
	tests := []struct {
		value float64
		want  int64
	}{
		{1000.99, 1000},
		{1000.01, 1000},
		{1000, 1000},
		{0.99, 0},
	}
	for _, tc := range tests {
		if got := PLN(tc.value).Truncated(); got != tc.want {
			t.Errorf("PLN(%v).Truncated() = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := M(6085.125, "USD")
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(m) {
		t.Errorf("round trip = %s %s, want %s %s", back.Amount(), back.Currency(), m.Amount(), m.Currency())
	}
}

func TestSignedString(t *testing.T) {
	if got := PLN(0).SignedString(); got != "-" {
		t.Errorf("zero SignedString = %q, want -", got)
	}
	if got := PLN(1).SignedString(); got[0] != '+' {
		t.Errorf("positive SignedString = %q, want leading +", got)
	}
}

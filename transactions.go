package taxcalc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TxKind is a typed string for identifying transaction kinds.
type TxKind string

// Transaction kinds recognized by the calculators.
const (
	KindBuy      TxKind = "buy"
	KindSell     TxKind = "sell"
	KindDividend TxKind = "dividend"
)

// UnknownCountry is the sentinel bucket for transactions whose country of
// domicile could not be resolved. Such dividends are still aggregated, never
// dropped.
const UnknownCountry = "Unknown"

// Transaction defines the common interface for the three record kinds (buy,
// sell, dividend) produced by the ingestion layer and consumed by the
// calculators. Transactions are immutable once constructed.
type Transaction interface {
	What() TxKind // What returns the kind of the transaction.
	When() Date   // When returns the trade date.
	Equal(Transaction) bool
	Validate() error
}

// baseTx carries the fields shared by every transaction kind.
//
// ExchangeRate, ValuePLN and Country are resolved by external collaborators
// (NBP, company info) before a transaction reaches the calculators; their zero
// values mean "unresolved" and are caught by validation, not by a crash.
type baseTx struct {
	Kind         TxKind
	Date         Date
	Ticker       string
	ISIN         string
	Name         string
	Quantity     Quantity
	Price        Money           // price per share, in the trade currency
	ExchangeRate decimal.Decimal // rate to PLN; zero when unresolved
	ValueForeign Money           // quantity x price, in the trade currency
	ValuePLN     Money           // zero when unresolved
	FeeForeign   Money
	FeePLN       Money
	Country      string // country of the security's domicile; "" when unresolved
}

// What returns the kind of the transaction.
func (t baseTx) What() TxKind { return t.Kind }

// When returns the trade date.
func (t baseTx) When() Date { return t.Date }

// Currency returns the trade currency.
func (t baseTx) Currency() string { return t.Price.Currency() }

// HasRate reports whether an exchange rate has been resolved.
func (t baseTx) HasRate() bool { return !t.ExchangeRate.IsZero() }

// HasPLNValue reports whether the domestic value has been computed.
func (t baseTx) HasPLNValue() bool { return t.ValuePLN.Currency() == Domestic }

// CountryOrUnknown returns the resolved country, or the Unknown sentinel.
func (t baseTx) CountryOrUnknown() string {
	if t.Country == "" {
		return UnknownCountry
	}
	return t.Country
}

// resolve computes the derived values from the exchange rate: the foreign
// total, the PLN total, and the PLN part of any foreign fee.
func (t *baseTx) resolve(rate decimal.Decimal) {
	t.ExchangeRate = rate
	t.ValueForeign = t.Price.Mul(t.Quantity)
	if rate.IsZero() {
		return
	}
	t.ValuePLN = t.ValueForeign.MulRate(rate)
	if !t.FeeForeign.IsZero() {
		t.FeePLN = t.FeePLN.Add(t.FeeForeign.MulRate(rate))
		t.FeeForeign = M(decimal.Zero, t.FeeForeign.Currency())
	}
}

// validate checks the fields every kind must carry.
func (t baseTx) validate() error {
	var errs []error
	if t.Ticker == "" {
		errs = append(errs, errors.New("has no ticker"))
	}
	if !t.Quantity.IsPositive() {
		errs = append(errs, fmt.Errorf("has invalid quantity: %s", t.Quantity))
	}
	if !t.HasRate() && t.Currency() != Domestic {
		errs = append(errs, fmt.Errorf("has no exchange rate for currency: %s", t.Currency()))
	}
	if !t.HasPLNValue() {
		errs = append(errs, errors.New("has no PLN value"))
	}
	return errors.Join(errs...)
}

func (t baseTx) equal(o baseTx) bool {
	return t.Kind == o.Kind && t.Date == o.Date && t.Ticker == o.Ticker &&
		t.ISIN == o.ISIN && t.Name == o.Name && t.Country == o.Country &&
		t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price) &&
		t.ExchangeRate.Equal(o.ExchangeRate) && t.ValuePLN.Equal(o.ValuePLN) &&
		t.FeePLN.Equal(o.FeePLN)
}

// MarshalJSON implements the json.Marshaler interface for baseTx.
func (t baseTx) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind)
	w.Append("date", t.Date)
	w.Append("ticker", t.Ticker)
	w.Optional("isin", t.ISIN)
	w.Optional("name", t.Name)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	w.Optional("exchangeRate", t.ExchangeRate)
	w.Optional("valueForeign", t.ValueForeign)
	w.Optional("valuePLN", t.ValuePLN)
	w.Optional("feeForeign", t.FeeForeign)
	w.Optional("feePLN", t.FeePLN)
	w.Optional("country", t.Country)
	return w.MarshalJSON()
}

// txJSON is a specialized struct to decode any transaction kind from JSONL.
type txJSON struct {
	Kind         TxKind          `json:"kind"`
	Date         Date            `json:"date"`
	Ticker       string          `json:"ticker"`
	ISIN         string          `json:"isin"`
	Name         string          `json:"name"`
	Quantity     Quantity        `json:"quantity"`
	Price        Money           `json:"price"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	ValueForeign Money           `json:"valueForeign"`
	ValuePLN     Money           `json:"valuePLN"`
	FeeForeign   Money           `json:"feeForeign"`
	FeePLN       Money           `json:"feePLN"`
	Country      string          `json:"country"`

	WithholdingForeign Money `json:"withholdingForeign"`
	WithholdingPLN     Money `json:"withholdingPLN"`
}

func (j txJSON) base() baseTx {
	return baseTx{
		Kind:         j.Kind,
		Date:         j.Date,
		Ticker:       j.Ticker,
		ISIN:         j.ISIN,
		Name:         j.Name,
		Quantity:     j.Quantity,
		Price:        j.Price,
		ExchangeRate: j.ExchangeRate,
		ValueForeign: j.ValueForeign,
		ValuePLN:     j.ValuePLN,
		FeeForeign:   j.FeeForeign,
		FeePLN:       j.FeePLN,
		Country:      j.Country,
	}
}

// Buy represents a purchase of a quantity of a security. A Buy establishes
// cost basis and is therefore never filtered by tax year.
type Buy struct {
	baseTx
}

// NewBuy creates a new Buy transaction.
func NewBuy(day Date, ticker, isin, name string, quantity Quantity, price Money) Buy {
	return Buy{baseTx{Kind: KindBuy, Date: day, Ticker: ticker, ISIN: isin, Name: name, Quantity: quantity, Price: price}}
}

// Resolve computes the derived PLN values from the given exchange rate.
func (t *Buy) Resolve(rate decimal.Decimal) { t.resolve(rate) }

// Validate checks the Buy transaction's fields.
func (t Buy) Validate() error { return t.validate() }

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.baseTx.equal(o.baseTx)
}

// Sell represents a disposal of a quantity of a security, realizing a gain or
// loss against the oldest open lots.
type Sell struct {
	baseTx
}

// NewSell creates a new Sell transaction.
func NewSell(day Date, ticker, isin, name string, quantity Quantity, price Money) Sell {
	return Sell{baseTx{Kind: KindSell, Date: day, Ticker: ticker, ISIN: isin, Name: name, Quantity: quantity, Price: price}}
}

// Resolve computes the derived PLN values from the given exchange rate.
func (t *Sell) Resolve(rate decimal.Decimal) { t.resolve(rate) }

// Validate checks the Sell transaction's fields.
func (t Sell) Validate() error { return t.validate() }

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.baseTx.equal(o.baseTx)
}

// Dividend represents a dividend payment, possibly with tax withheld at the
// source country before payment.
type Dividend struct {
	baseTx
	WithholdingForeign Money // tax withheld abroad, in the trade currency
	WithholdingPLN     Money // zero when no withholding or rate unresolved
}

// NewDividend creates a new Dividend transaction.
func NewDividend(day Date, ticker, isin, name string, quantity Quantity, price Money) Dividend {
	return Dividend{baseTx: baseTx{Kind: KindDividend, Date: day, Ticker: ticker, ISIN: isin, Name: name, Quantity: quantity, Price: price}}
}

// Resolve computes the derived PLN values, including the withholding tax,
// from the given exchange rate.
func (t *Dividend) Resolve(rate decimal.Decimal) {
	t.resolve(rate)
	if !rate.IsZero() && !t.WithholdingForeign.IsZero() {
		t.WithholdingPLN = t.WithholdingForeign.MulRate(rate)
	}
}

// Validate checks the Dividend transaction's fields. The country requirement
// is checked by the dividend calculator, not here: a dividend without a
// resolved country is still a structurally valid record.
func (t Dividend) Validate() error { return t.validate() }

func (t Dividend) Equal(other Transaction) bool {
	o, ok := other.(Dividend)
	return ok && t.baseTx.equal(o.baseTx) &&
		t.WithholdingForeign.Equal(o.WithholdingForeign) &&
		t.WithholdingPLN.Equal(o.WithholdingPLN)
}

// MarshalJSON implements the json.Marshaler interface for Dividend.
func (t Dividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseTx)
	w.Optional("withholdingForeign", t.WithholdingForeign)
	w.Optional("withholdingPLN", t.WithholdingPLN)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Buy.
func (t *Buy) UnmarshalJSON(data []byte) error {
	var temp txJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseTx = temp.base()
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for Sell.
func (t *Sell) UnmarshalJSON(data []byte) error {
	var temp txJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseTx = temp.base()
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface for Dividend.
func (t *Dividend) UnmarshalJSON(data []byte) error {
	var temp txJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.baseTx = temp.base()
	t.WithholdingForeign = temp.WithholdingForeign
	t.WithholdingPLN = temp.WithholdingPLN
	return nil
}

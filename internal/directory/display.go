package directory

import (
	"strings"

	"github.com/shopspring/decimal"

	"bouncecure/config"
	"bouncecure/internal/domain"
	"bouncecure/internal/models"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
}

// Normalizer converts stored amounts into the dashboard's base currency for
// display. Only currencies with a configured rate are converted.
type Normalizer struct {
	Base  string
	Rates map[string]decimal.Decimal // units of currency per one base unit
}

func NewNormalizer(cfg config.DisplayConfig) *Normalizer {
	rates := make(map[string]decimal.Decimal, len(cfg.Rates))
	for cur, r := range cfg.Rates {
		if r.IsPositive() {
			rates[cur] = r
		}
	}
	base := cfg.BaseCurrency
	if base == "" {
		base = "USD"
	}
	return &Normalizer{Base: base, Rates: rates}
}

// Normalize divides amount by the currency's rate, rounded to 2 places. Amounts
// in the base currency or in a currency without a rate come back unchanged.
func (n *Normalizer) Normalize(amount decimal.Decimal, currency string) decimal.Decimal {
	if _, ok := n.rate(currency); !ok {
		return amount
	}
	v, _ := n.convert(amount, currency)
	return v
}

func (n *Normalizer) rate(currency string) (decimal.Decimal, bool) {
	if currency == n.Base {
		return decimal.Decimal{}, false
	}
	r, ok := n.Rates[currency]
	return r, ok
}

func (n *Normalizer) convert(amount decimal.Decimal, currency string) (decimal.Decimal, bool) {
	r, ok := n.rate(currency)
	if !ok {
		return amount, false
	}
	return amount.Div(r).Round(2), true
}

// Label renders a normalized amount, followed by the original amount and
// currency when those differ from the base, e.g. "$10.00 (750 INR)".
func (n *Normalizer) Label(amount decimal.Decimal, currency string) string {
	v, converted := n.convert(amount, currency)
	var b strings.Builder
	b.WriteString(n.symbol())
	if converted {
		b.WriteString(v.StringFixed(2))
	} else {
		b.WriteString(v.String())
	}
	if currency != n.Base {
		b.WriteString(" (")
		b.WriteString(amount.String())
		b.WriteString(" ")
		b.WriteString(currency)
		b.WriteString(")")
	}
	return b.String()
}

func (n *Normalizer) symbol() string {
	if s, ok := currencySymbols[n.Base]; ok {
		return s
	}
	return n.Base + " "
}

// DisplayAmounts is the presentation block attached to a record.
type DisplayAmounts struct {
	Currency       string             `json:"currency"`
	Amount         decimal.Decimal    `json:"amount"`
	PlanPrice      decimal.Decimal    `json:"planPrice"`
	AmountLabel    string             `json:"amountLabel"`
	PlanPriceLabel string             `json:"planPriceLabel"`
	StatusClass    domain.StatusClass `json:"statusClass"`
}

// PaymentView is a stored record together with its display block. The stored
// amount and currency stay untouched alongside the normalized values.
type PaymentView struct {
	models.Payment
	Display DisplayAmounts `json:"display"`
}

func (n *Normalizer) Present(p models.Payment) PaymentView {
	return PaymentView{
		Payment: p,
		Display: DisplayAmounts{
			Currency:       n.Base,
			Amount:         n.Normalize(p.Amount, p.Currency),
			PlanPrice:      n.Normalize(p.PlanPrice, p.Currency),
			AmountLabel:    n.Label(p.Amount, p.Currency),
			PlanPriceLabel: n.Label(p.PlanPrice, p.Currency),
			StatusClass:    ClassifyStatus(p.Status),
		},
	}
}

func (n *Normalizer) PresentAll(records []models.Payment) []PaymentView {
	out := make([]PaymentView, len(records))
	for i := range records {
		out[i] = n.Present(records[i])
	}
	return out
}

package domain

import "time"

// LineItem is one travel service line to be priced: a hotel night, transport
// leg, sightseeing ticket or package, costed by the supplier in the supplier's
// currency.
type LineItem struct {
	Description      string
	ServiceType      string
	CountryCode      string
	SupplierCost     *Money
	SupplierCurrency string
	ServiceDate      time.Time

	// Explicit per-person unit prices in supplier currency; required only
	// when the breakdown runs in explicit (non equal-cost) mode.
	AdultPrice  *Money
	ChildPrice  *Money
	InfantPrice *Money
}

// PartyComposition describes the travelling party for per-person splits.
// Discounts are percentage reductions on the adult share (25 means a child
// pays 75% of an adult).
type PartyComposition struct {
	Adults                int
	Children              int
	Infants               int
	ChildDiscountPercent  float64
	InfantDiscountPercent float64
}

// Total returns the number of travellers.
func (p *PartyComposition) Total() int {
	return p.Adults + p.Children + p.Infants
}

// BreakdownOptions controls how a breakdown is computed.
type BreakdownOptions struct {
	// TaxInclusive marks the converted amount as already containing tax.
	TaxInclusive bool

	// EqualCostMode splits the final total evenly across discount-weighted
	// traveller units instead of using the line item's explicit unit prices.
	EqualCostMode bool

	// TargetCurrency forces the quote currency; empty means the country's
	// pricing currency (or its override) decides.
	TargetCurrency string
}

// PerPersonPrice is the per-traveller split of the final total.
type PerPersonPrice struct {
	Adult    *Money
	Child    *Money
	Infant   *Money
	Currency string
}

// PricingBreakdown is the computed, ephemeral output of the engine. Every
// intermediate figure is preserved so quotes can be audited and displayed
// without recomputation. It is never persisted by this engine.
type PricingBreakdown struct {
	Description string
	CountryCode string
	ServiceType string

	BaseAmount       *Money
	SupplierCurrency string

	Markup         *ResolvedMarkup
	MarkupAmount   *Money
	MarkedUpAmount *Money

	Conversion      *Conversion
	ConvertedAmount *Money
	Currency        string

	Tax       *TaxResult
	TaxAmount *Money
	TDSAmount *Money

	FinalTotal *Money
	PerPerson  *PerPersonPrice
}

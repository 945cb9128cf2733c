package domain

import (
	"context"
	"math/big"
)

// BreakdownBuilder orchestrates markup resolution, currency conversion and tax
// calculation into one auditable PricingBreakdown per line item.
//
// The step order is a design decision, not incidental: markup is applied to
// the supplier cost before conversion, and tax is computed on the converted,
// marked-up amount. Any step failure propagates unmodified; the engine never
// substitutes a zero markup or a 1:1 rate.
type BreakdownBuilder struct {
	resolver  *MarkupResolver
	converter *Converter
	taxCalc   *TaxCalculator
}

// NewBreakdownBuilder creates a builder over a conversion settings snapshot
// and rate source.
func NewBreakdownBuilder(settings *ConversionSettings, rates RateSource) *BreakdownBuilder {
	return &BreakdownBuilder{
		resolver:  NewMarkupResolver(),
		converter: NewConverter(settings, rates),
		taxCalc:   NewTaxCalculator(),
	}
}

// Build computes the full pricing breakdown for one line item.
func (b *BreakdownBuilder) Build(ctx context.Context, snap *RuleSnapshot, item *LineItem, party *PartyComposition, opts *BreakdownOptions) (*PricingBreakdown, error) {
	base, err := b.baseAmount(item, party, opts)
	if err != nil {
		return nil, err
	}

	// 1. Markup on supplier cost, in supplier currency.
	markup, err := b.resolver.Resolve(snap, item.ServiceType, base, item.ServiceDate)
	if err != nil {
		return nil, err
	}
	markedUp := b.resolver.Apply(base, markup)

	// 2. Conversion of the marked-up amount into the quote currency.
	target := b.targetCurrency(snap, item, opts)
	var marginOverride *float64
	if snap.CountryRule != nil {
		marginOverride = snap.CountryRule.ConversionMargin
	}
	conv, err := b.converter.Convert(ctx, markedUp, item.SupplierCurrency, target, marginOverride)
	if err != nil {
		return nil, err
	}

	// 3. Tax on the converted amount.
	tax, err := b.taxCalc.Compute(snap.TaxConfig, conv.Amount, item.ServiceType, opts.TaxInclusive)
	if err != nil {
		return nil, err
	}

	final := tax.TotalAmount.RoundForCurrency(target)
	if !final.IsSafeForStorage() {
		return nil, ErrMoneyOverflow
	}

	// 4. Per-person split of the final total.
	perPerson, err := b.splitPerPerson(final, item, party, opts, target)
	if err != nil {
		return nil, err
	}

	return &PricingBreakdown{
		Description:      item.Description,
		CountryCode:      item.CountryCode,
		ServiceType:      item.ServiceType,
		BaseAmount:       base,
		SupplierCurrency: item.SupplierCurrency,
		Markup:           markup,
		MarkupAmount:     markedUp.Subtract(base),
		MarkedUpAmount:   markedUp,
		Conversion:       conv,
		ConvertedAmount:  conv.Amount,
		Currency:         target,
		Tax:              tax,
		TaxAmount:        tax.TaxAmount,
		TDSAmount:        tax.TDSAmount,
		FinalTotal:       final,
		PerPerson:        perPerson,
	}, nil
}

// baseAmount determines the supplier-cost base. Equal-cost mode prices the
// whole line from SupplierCost; explicit mode sums the per-person unit prices.
func (b *BreakdownBuilder) baseAmount(item *LineItem, party *PartyComposition, opts *BreakdownOptions) (*Money, error) {
	if opts.EqualCostMode {
		if item.SupplierCost == nil {
			return nil, ErrInvalidLineItem
		}
		return item.SupplierCost.Copy(), nil
	}

	if item.AdultPrice == nil {
		return nil, ErrMissingExplicitPrices
	}

	total := item.AdultPrice.MultiplyByRat(big.NewRat(int64(party.Adults), 1))
	if party.Children > 0 {
		if item.ChildPrice == nil {
			return nil, ErrMissingExplicitPrices
		}
		total = total.Add(item.ChildPrice.MultiplyByRat(big.NewRat(int64(party.Children), 1)))
	}
	if party.Infants > 0 {
		if item.InfantPrice == nil {
			return nil, ErrMissingExplicitPrices
		}
		total = total.Add(item.InfantPrice.MultiplyByRat(big.NewRat(int64(party.Infants), 1)))
	}

	if !total.IsPositive() {
		return nil, ErrInvalidLineItem
	}
	return total, nil
}

// targetCurrency resolves the quote currency: an explicit option wins, then a
// country-level pricing currency override, then the country's own currency,
// then the supplier currency (no conversion).
func (b *BreakdownBuilder) targetCurrency(snap *RuleSnapshot, item *LineItem, opts *BreakdownOptions) string {
	if opts.TargetCurrency != "" {
		return opts.TargetCurrency
	}
	if rule := snap.CountryRule; rule != nil {
		if rule.PricingCurrencyOverride != "" {
			return rule.PricingCurrencyOverride
		}
		if rule.Currency != "" {
			return rule.Currency
		}
	}
	return item.SupplierCurrency
}

// splitPerPerson divides the final total across the party. Both modes split
// the same final total, so the per-person figures always sum back to it
// (within one minor unit of rounding per category).
func (b *BreakdownBuilder) splitPerPerson(final *Money, item *LineItem, party *PartyComposition, opts *BreakdownOptions, currency string) (*PerPersonPrice, error) {
	if party == nil || party.Total() == 0 {
		return nil, nil
	}

	var adultWeight, childWeight, infantWeight *big.Rat
	if opts.EqualCostMode {
		adultWeight = big.NewRat(1, 1)
		childWeight = discountWeight(party.ChildDiscountPercent)
		infantWeight = discountWeight(party.InfantDiscountPercent)
	} else {
		// Weights proportional to the explicit unit prices, so the split
		// preserves the line item's own adult/child/infant ratios.
		if item.AdultPrice == nil || !item.AdultPrice.IsPositive() {
			return nil, ErrMissingExplicitPrices
		}
		adultWeight = big.NewRat(1, 1)
		childWeight = big.NewRat(0, 1)
		infantWeight = big.NewRat(0, 1)
		if party.Children > 0 && item.ChildPrice != nil {
			childWeight = new(big.Rat).Quo(item.ChildPrice.Rat(), item.AdultPrice.Rat())
		}
		if party.Infants > 0 && item.InfantPrice != nil {
			infantWeight = new(big.Rat).Quo(item.InfantPrice.Rat(), item.AdultPrice.Rat())
		}
	}

	totalWeight := new(big.Rat).Mul(big.NewRat(int64(party.Adults), 1), adultWeight)
	totalWeight.Add(totalWeight, new(big.Rat).Mul(big.NewRat(int64(party.Children), 1), childWeight))
	totalWeight.Add(totalWeight, new(big.Rat).Mul(big.NewRat(int64(party.Infants), 1), infantWeight))
	if totalWeight.Sign() <= 0 {
		return nil, ErrInvalidPartyComposition
	}

	perUnit, err := final.DivideByRat(totalWeight)
	if err != nil {
		return nil, err
	}

	decimals := MinorUnits(currency)
	return &PerPersonPrice{
		Adult:    perUnit.MultiplyByRat(adultWeight).RoundHalfUp(decimals),
		Child:    perUnit.MultiplyByRat(childWeight).RoundHalfUp(decimals),
		Infant:   perUnit.MultiplyByRat(infantWeight).RoundHalfUp(decimals),
		Currency: currency,
	}, nil
}

// discountWeight converts a discount percentage into a weight multiplier.
func discountWeight(discountPercent float64) *big.Rat {
	weight := new(big.Rat).Sub(
		big.NewRat(1, 1),
		new(big.Rat).Quo(new(big.Rat).SetFloat64(discountPercent), big.NewRat(100, 1)),
	)
	if weight.Sign() < 0 {
		return big.NewRat(0, 1)
	}
	return weight
}

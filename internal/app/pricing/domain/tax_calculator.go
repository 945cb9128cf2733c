package domain

import "math/big"

// TaxBreakdownItem is one audited component of a tax calculation.
type TaxBreakdownItem struct {
	Type        string
	Rate        float64
	Amount      *Money
	Description string
}

// TaxResult is the full outcome of a tax calculation for one amount.
// TDSAmount is reported separately and is never subtracted from TotalAmount:
// it is a withholding against the payout, not a price reduction.
type TaxResult struct {
	BaseAmount  *Money
	TaxAmount   *Money
	TDSAmount   *Money
	TotalAmount *Money
	RateApplied float64
	Exempt      bool
	Breakdown   []TaxBreakdownItem
}

// TaxCalculator computes tax and TDS breakdowns from a country's tax
// configuration. Pure over its inputs; safe for concurrent use.
type TaxCalculator struct{}

// NewTaxCalculator creates a new TaxCalculator.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{}
}

// Compute resolves the applicable rate and produces the tax breakdown.
// When inclusive is true the supplied amount already contains tax and the base
// is backed out; otherwise tax is added on top.
func (tc *TaxCalculator) Compute(cfg *TaxConfiguration, amount *Money, serviceType string, inclusive bool) (*TaxResult, error) {
	if cfg == nil || cfg.TaxType == TaxNone {
		return &TaxResult{
			BaseAmount:  amount.Copy(),
			TaxAmount:   Zero(),
			TDSAmount:   Zero(),
			TotalAmount: amount.Copy(),
			Breakdown:   []TaxBreakdownItem{},
		}, nil
	}

	rate, err := cfg.RateFor(serviceType)
	if err != nil {
		return nil, err
	}

	effectiveRate := rate.Rate
	exempt := cfg.IsExempt(serviceType)
	if exempt {
		effectiveRate = 0
	}

	rateRat := new(big.Rat).Quo(new(big.Rat).SetFloat64(effectiveRate), big.NewRat(100, 1))

	var base, tax, total *Money
	if inclusive {
		divisor := new(big.Rat).Add(big.NewRat(1, 1), rateRat)
		base, err = amount.DivideByRat(divisor)
		if err != nil {
			return nil, err
		}
		tax = amount.Subtract(base)
		total = amount.Copy()
	} else {
		base = amount.Copy()
		tax = amount.MultiplyByRat(rateRat)
		total = amount.Add(tax)
	}

	result := &TaxResult{
		BaseAmount:  base,
		TaxAmount:   tax,
		TDSAmount:   Zero(),
		TotalAmount: total,
		RateApplied: effectiveRate,
		Exempt:      exempt,
		Breakdown: []TaxBreakdownItem{
			{
				Type:        string(cfg.TaxType),
				Rate:        effectiveRate,
				Amount:      tax.Copy(),
				Description: rate.Description,
			},
		},
	}

	if tds := tc.computeTDS(cfg.TDS, base); tds != nil {
		result.TDSAmount = tds.Amount
		result.Breakdown = append(result.Breakdown, *tds)
	}

	return result, nil
}

// computeTDS returns the withholding item, or nil when TDS does not apply.
// TDS applies only above both the threshold and the exemption limit.
func (tc *TaxCalculator) computeTDS(cfg *TDSConfiguration, base *Money) *TaxBreakdownItem {
	if cfg == nil || !cfg.IsApplicable {
		return nil
	}

	threshold := new(big.Rat).SetFloat64(cfg.Threshold)
	exemptionLimit := new(big.Rat).SetFloat64(cfg.ExemptionLimit)
	if base.Rat().Cmp(threshold) <= 0 || base.Rat().Cmp(exemptionLimit) <= 0 {
		return nil
	}

	rateRat := new(big.Rat).Quo(new(big.Rat).SetFloat64(cfg.Rate), big.NewRat(100, 1))
	amount := base.MultiplyByRat(rateRat)

	return &TaxBreakdownItem{
		Type:        "TDS",
		Rate:        cfg.Rate,
		Amount:      amount,
		Description: "tax deducted at source (withheld from payout)",
	}
}

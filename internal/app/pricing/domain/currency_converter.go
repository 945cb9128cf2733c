package domain

import (
	"context"
	"fmt"
	"math/big"
)

// RateSource supplies market exchange rates. Implementations live outside the
// domain (Redis cache, static tables); a timeout is reported the same way as a
// missing rate so the fallback chain treats both identically.
type RateSource interface {
	// Rate returns the market rate for one unit of from in units of to.
	// Returns ErrRateUnavailable (possibly wrapped) when no rate is known.
	Rate(ctx context.Context, from, to string) (*big.Rat, error)
}

// Conversion is the audited result of one currency conversion.
type Conversion struct {
	Amount        *Money
	FromCurrency  string
	ToCurrency    string
	Rate          *big.Rat
	EffectiveRate *big.Rat
	MarginApplied float64
	UsedFallback  bool
}

// Converter converts amounts between currencies, applying the configured
// conversion margin on top of the market rate. It is a pure function of the
// settings snapshot it was built with plus the rate source.
type Converter struct {
	settings *ConversionSettings
	rates    RateSource
}

// NewConverter creates a Converter over a settings snapshot.
// rates may be nil, in which case only fallback rates are used.
func NewConverter(settings *ConversionSettings, rates RateSource) *Converter {
	return &Converter{settings: settings, rates: rates}
}

// Convert converts amount from one currency to another.
// marginOverride is the country-specific margin when the country rule carries
// one; pass nil to use the global per-currency margin.
func (c *Converter) Convert(ctx context.Context, amount *Money, from, to string, marginOverride *float64) (*Conversion, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("currency pair %q/%q: %w", from, to, ErrUnknownCurrency)
	}

	if from == to {
		return &Conversion{
			Amount:        amount.Copy(),
			FromCurrency:  from,
			ToCurrency:    to,
			Rate:          big.NewRat(1, 1),
			EffectiveRate: big.NewRat(1, 1),
		}, nil
	}

	rate, usedFallback, err := c.lookupRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	margin := c.marginFor(to, marginOverride)
	effectiveRate := new(big.Rat).Mul(rate, new(big.Rat).Add(
		big.NewRat(1, 1),
		new(big.Rat).SetFloat64(margin),
	))

	converted := amount.MultiplyByRat(effectiveRate).RoundForCurrency(to)

	return &Conversion{
		Amount:        converted,
		FromCurrency:  from,
		ToCurrency:    to,
		Rate:          rate,
		EffectiveRate: effectiveRate,
		MarginApplied: margin,
		UsedFallback:  usedFallback,
	}, nil
}

// lookupRate tries the live rate source first, then the configured fallback
// rates. Fallback rates are quoted against the base currency, so cross pairs
// are derived from the two base-relative rates.
func (c *Converter) lookupRate(ctx context.Context, from, to string) (*big.Rat, bool, error) {
	if c.rates != nil {
		// Any provider failure (miss, timeout, outage) degrades to the
		// fallback table; a bad rate must never become a silent 1:1.
		rate, err := c.rates.Rate(ctx, from, to)
		if err == nil && rate != nil && rate.Sign() > 0 {
			return rate, false, nil
		}
	}

	rate, ok := c.fallbackRate(from, to)
	if !ok {
		return nil, false, fmt.Errorf("%s to %s: %w", from, to, ErrConversionRateUnavailable)
	}
	return rate, true, nil
}

func (c *Converter) fallbackRate(from, to string) (*big.Rat, bool) {
	if c.settings == nil || len(c.settings.FallbackRates) == 0 {
		return nil, false
	}

	toRate, toOK := c.settings.FallbackRates[to]
	if from == c.settings.BaseCurrency {
		if !toOK || toRate <= 0 {
			return nil, false
		}
		return new(big.Rat).SetFloat64(toRate), true
	}

	fromRate, fromOK := c.settings.FallbackRates[from]
	if !toOK || !fromOK || toRate <= 0 || fromRate <= 0 {
		return nil, false
	}
	return new(big.Rat).Quo(
		new(big.Rat).SetFloat64(toRate),
		new(big.Rat).SetFloat64(fromRate),
	), true
}

func (c *Converter) marginFor(to string, override *float64) float64 {
	if override != nil {
		return *override
	}
	if c.settings != nil {
		if margin, ok := c.settings.ConversionMargins[to]; ok {
			return margin
		}
	}
	return 0
}

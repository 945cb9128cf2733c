package domain

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thailandSnapshot mirrors a typical production setup: 10% country markup,
// THB quotes with a 2% conversion margin, 7% VAT.
func thailandSnapshot() *RuleSnapshot {
	return &RuleSnapshot{
		CountryRule: &CountryPricingRule{
			CountryCode:   "TH",
			Currency:      "THB",
			DefaultMarkup: 10,
			MarkupType:    MarkupPercentage,
			IsActive:      true,
		},
		TaxConfig: thailandVAT(),
		Settings: &ConversionSettings{
			BaseCurrency:      "USD",
			FallbackRates:     map[string]float64{"THB": 35.0},
			ConversionMargins: map[string]float64{"THB": 0.02},
		},
	}
}

func hotelNight(t *testing.T, cost float64) *LineItem {
	t.Helper()
	return &LineItem{
		Description:      "Bangkok hotel night",
		ServiceType:      "hotel",
		CountryCode:      "TH",
		SupplierCost:     money(t, cost),
		SupplierCurrency: "USD",
		ServiceDate:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestBreakdownBuilder_Build(t *testing.T) {
	ctx := context.Background()
	src := &fakeRateSource{rates: map[string]*big.Rat{"USD/THB": big.NewRat(35, 1)}}

	t.Run("full pipeline in strict order", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		bd, err := b.Build(ctx, snap, hotelNight(t, 100), nil, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)

		// markup: 100 * 1.10 = 110 USD
		assert.Equal(t, "110.00", bd.MarkedUpAmount.StringWithDecimals(2))
		assert.Equal(t, "10.00", bd.MarkupAmount.StringWithDecimals(2))
		// conversion: 110 * 35 * 1.02 = 3927.00 THB
		assert.Equal(t, "3927.00", bd.ConvertedAmount.StringWithDecimals(2))
		assert.Equal(t, "THB", bd.Currency)
		// tax: 3927 * 7% = 274.89
		assert.Equal(t, "274.89", bd.TaxAmount.StringWithDecimals(2))
		assert.Equal(t, "4201.89", bd.FinalTotal.StringWithDecimals(2))
		assert.True(t, bd.TDSAmount.IsZero())
	})

	t.Run("target currency option wins over country currency", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		bd, err := b.Build(ctx, snap, hotelNight(t, 100), nil, &BreakdownOptions{
			EqualCostMode:  true,
			TargetCurrency: "USD",
		})
		require.NoError(t, err)
		assert.Equal(t, "USD", bd.Currency)
		// no conversion, VAT still applies
		assert.Equal(t, "110.00", bd.ConvertedAmount.StringWithDecimals(2))
	})

	t.Run("pricing currency override redirects the quote", func(t *testing.T) {
		snap := thailandSnapshot()
		snap.CountryRule.PricingCurrencyOverride = "USD"
		b := NewBreakdownBuilder(snap.Settings, src)

		bd, err := b.Build(ctx, snap, hotelNight(t, 100), nil, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)
		assert.Equal(t, "USD", bd.Currency)
	})

	t.Run("total beyond int64 storage is rejected", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		_, err := b.Build(ctx, snap, hotelNight(t, 1e30), nil, &BreakdownOptions{
			EqualCostMode:  true,
			TargetCurrency: "USD",
		})
		assert.ErrorIs(t, err, ErrMoneyOverflow)
	})

	t.Run("country margin override feeds the converter", func(t *testing.T) {
		snap := thailandSnapshot()
		override := 0.05
		snap.CountryRule.ConversionMargin = &override
		b := NewBreakdownBuilder(snap.Settings, src)

		bd, err := b.Build(ctx, snap, hotelNight(t, 100), nil, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)
		// 110 * 35 * 1.05 = 4042.50
		assert.Equal(t, "4042.50", bd.ConvertedAmount.StringWithDecimals(2))
		assert.Equal(t, 0.05, bd.Conversion.MarginApplied)
	})

	t.Run("markup resolution failure aborts the build", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		_, err := b.Build(ctx, &RuleSnapshot{Settings: snap.Settings}, hotelNight(t, 100), nil, &BreakdownOptions{EqualCostMode: true})
		assert.ErrorIs(t, err, ErrMarkupRuleNotFound)
	})

	t.Run("conversion failure aborts the build", func(t *testing.T) {
		snap := thailandSnapshot()
		snap.Settings = &ConversionSettings{BaseCurrency: "USD"}
		b := NewBreakdownBuilder(snap.Settings, &fakeRateSource{err: ErrRateUnavailable})

		_, err := b.Build(ctx, snap, hotelNight(t, 100), nil, &BreakdownOptions{EqualCostMode: true})
		assert.ErrorIs(t, err, ErrConversionRateUnavailable)
	})

	t.Run("missing supplier cost in equal mode", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		item := hotelNight(t, 100)
		item.SupplierCost = nil
		_, err := b.Build(ctx, snap, item, nil, &BreakdownOptions{EqualCostMode: true})
		assert.ErrorIs(t, err, ErrInvalidLineItem)
	})
}

func TestBreakdownBuilder_PerPersonSplit(t *testing.T) {
	ctx := context.Background()
	src := &fakeRateSource{rates: map[string]*big.Rat{"USD/THB": big.NewRat(35, 1)}}

	t.Run("equal mode splits by discount weights", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		party := &PartyComposition{Adults: 2, Children: 1, ChildDiscountPercent: 50}
		bd, err := b.Build(ctx, snap, hotelNight(t, 100), party, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)

		require.NotNil(t, bd.PerPerson)
		// weights: 2 adults + 0.5 child = 2.5 units over 4201.89
		assert.Equal(t, "1680.76", bd.PerPerson.Adult.StringWithDecimals(2))
		assert.Equal(t, "840.38", bd.PerPerson.Child.StringWithDecimals(2))
		assert.Equal(t, "THB", bd.PerPerson.Currency)
	})

	t.Run("free infant pays nothing", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		party := &PartyComposition{Adults: 1, Infants: 1, InfantDiscountPercent: 100}
		bd, err := b.Build(ctx, snap, hotelNight(t, 100), party, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)

		assert.True(t, bd.PerPerson.Infant.IsZero())
		assert.Equal(t, bd.FinalTotal.StringWithDecimals(2), bd.PerPerson.Adult.StringWithDecimals(2))
	})

	t.Run("explicit mode uses unit prices for base and split", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		item := hotelNight(t, 0)
		item.SupplierCost = nil
		item.AdultPrice = money(t, 40)
		item.ChildPrice = money(t, 20)
		party := &PartyComposition{Adults: 2, Children: 1}

		bd, err := b.Build(ctx, snap, item, party, &BreakdownOptions{EqualCostMode: false})
		require.NoError(t, err)

		// base = 2*40 + 1*20 = 100, same pipeline as equal mode
		assert.Equal(t, "100.00", bd.BaseAmount.StringWithDecimals(2))
		assert.Equal(t, "4201.89", bd.FinalTotal.StringWithDecimals(2))
		// split preserves the 40:20 ratio: 2a + 0.5a-equivalent child
		assert.Equal(t, "1680.76", bd.PerPerson.Adult.StringWithDecimals(2))
		assert.Equal(t, "840.38", bd.PerPerson.Child.StringWithDecimals(2))
	})

	t.Run("both modes agree on the final total", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		equalItem := hotelNight(t, 100)
		party := &PartyComposition{Adults: 2, Children: 1, ChildDiscountPercent: 50}
		equalBD, err := b.Build(ctx, snap, equalItem, party, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)

		explicitItem := hotelNight(t, 0)
		explicitItem.SupplierCost = nil
		explicitItem.AdultPrice = money(t, 40)
		explicitItem.ChildPrice = money(t, 20)
		explicitBD, err := b.Build(ctx, snap, explicitItem, party, &BreakdownOptions{EqualCostMode: false})
		require.NoError(t, err)

		assert.True(t, equalBD.FinalTotal.Equals(explicitBD.FinalTotal))
	})

	t.Run("split sums back to the final total within rounding", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		party := &PartyComposition{Adults: 2, Children: 2, Infants: 1, ChildDiscountPercent: 25, InfantDiscountPercent: 90}
		bd, err := b.Build(ctx, snap, hotelNight(t, 137.50), party, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)

		sum := bd.PerPerson.Adult.MultiplyByRat(big.NewRat(2, 1)).
			Add(bd.PerPerson.Child.MultiplyByRat(big.NewRat(2, 1))).
			Add(bd.PerPerson.Infant)
		diff := sum.Subtract(bd.FinalTotal)
		if diff.IsNegative() {
			diff = Zero().Subtract(diff)
		}
		tolerance, _ := NewMoney(5, 100) // one minor unit per rounded category
		assert.True(t, diff.LessThan(tolerance) || diff.Equals(tolerance))
	})

	t.Run("missing party means no split", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		bd, err := b.Build(ctx, snap, hotelNight(t, 100), nil, &BreakdownOptions{EqualCostMode: true})
		require.NoError(t, err)
		assert.Nil(t, bd.PerPerson)
	})

	t.Run("all weights zero is invalid", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		party := &PartyComposition{Infants: 2, InfantDiscountPercent: 100}
		_, err := b.Build(ctx, snap, hotelNight(t, 100), party, &BreakdownOptions{EqualCostMode: true})
		assert.ErrorIs(t, err, ErrInvalidPartyComposition)
	})

	t.Run("explicit mode without adult price", func(t *testing.T) {
		snap := thailandSnapshot()
		b := NewBreakdownBuilder(snap.Settings, src)

		item := hotelNight(t, 0)
		item.SupplierCost = nil
		party := &PartyComposition{Adults: 1}
		_, err := b.Build(ctx, snap, item, party, &BreakdownOptions{EqualCostMode: false})
		assert.ErrorIs(t, err, ErrMissingExplicitPrices)
	})
}

package domain

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRateSource serves canned rates and optionally fails every lookup.
type fakeRateSource struct {
	rates map[string]*big.Rat
	err   error
}

func (f *fakeRateSource) Rate(_ context.Context, from, to string) (*big.Rat, error) {
	if f.err != nil {
		return nil, f.err
	}
	rate, ok := f.rates[from+"/"+to]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", from, to, ErrRateUnavailable)
	}
	return rate, nil
}

func testSettings() *ConversionSettings {
	return &ConversionSettings{
		BaseCurrency: "USD",
		FallbackRates: map[string]float64{
			"THB": 35.0,
			"INR": 83.0,
			"EUR": 0.92,
		},
		ConversionMargins: map[string]float64{
			"THB": 0.02,
		},
	}
}

func TestConverter_Convert(t *testing.T) {
	ctx := context.Background()

	t.Run("identity conversion", func(t *testing.T) {
		c := NewConverter(testSettings(), nil)

		conv, err := c.Convert(ctx, money(t, 100), "USD", "USD", nil)
		require.NoError(t, err)
		assert.Equal(t, "100.00", conv.Amount.StringWithDecimals(2))
		assert.Equal(t, 0, conv.Rate.Cmp(big.NewRat(1, 1)))
		assert.False(t, conv.UsedFallback)
	})

	t.Run("live rate with margin", func(t *testing.T) {
		src := &fakeRateSource{rates: map[string]*big.Rat{"USD/THB": big.NewRat(35, 1)}}
		c := NewConverter(testSettings(), src)

		conv, err := c.Convert(ctx, money(t, 110), "USD", "THB", nil)
		require.NoError(t, err)
		// 110 * 35 * 1.02 = 3927.00
		assert.Equal(t, "3927.00", conv.Amount.StringWithDecimals(2))
		assert.Equal(t, 0.02, conv.MarginApplied)
		assert.False(t, conv.UsedFallback)
	})

	t.Run("margin override beats global margin", func(t *testing.T) {
		src := &fakeRateSource{rates: map[string]*big.Rat{"USD/THB": big.NewRat(35, 1)}}
		c := NewConverter(testSettings(), src)

		override := 0.05
		conv, err := c.Convert(ctx, money(t, 100), "USD", "THB", &override)
		require.NoError(t, err)
		// 100 * 35 * 1.05 = 3675.00
		assert.Equal(t, "3675.00", conv.Amount.StringWithDecimals(2))
		assert.Equal(t, 0.05, conv.MarginApplied)
	})

	t.Run("no configured margin means none applied", func(t *testing.T) {
		src := &fakeRateSource{rates: map[string]*big.Rat{"USD/INR": big.NewRat(83, 1)}}
		c := NewConverter(testSettings(), src)

		conv, err := c.Convert(ctx, money(t, 100), "USD", "INR", nil)
		require.NoError(t, err)
		assert.Equal(t, "8300.00", conv.Amount.StringWithDecimals(2))
		assert.Equal(t, 0.0, conv.MarginApplied)
	})

	t.Run("provider failure degrades to fallback rate", func(t *testing.T) {
		src := &fakeRateSource{err: ErrRateUnavailable}
		c := NewConverter(testSettings(), src)

		conv, err := c.Convert(ctx, money(t, 100), "USD", "THB", nil)
		require.NoError(t, err)
		assert.True(t, conv.UsedFallback)
		// 100 * 35 * 1.02 = 3570.00
		assert.Equal(t, "3570.00", conv.Amount.StringWithDecimals(2))
	})

	t.Run("cross rate derived from base-relative fallbacks", func(t *testing.T) {
		c := NewConverter(testSettings(), nil)

		conv, err := c.Convert(ctx, money(t, 92), "EUR", "INR", nil)
		require.NoError(t, err)
		assert.True(t, conv.UsedFallback)
		// 92 * (83 / 0.92) = 8300.00
		assert.Equal(t, "8300.00", conv.Amount.StringWithDecimals(2))
	})

	t.Run("zero-decimal currency rounds to whole units", func(t *testing.T) {
		src := &fakeRateSource{rates: map[string]*big.Rat{"USD/JPY": big.NewRat(1497, 10)}} // 149.7
		c := NewConverter(testSettings(), src)

		conv, err := c.Convert(ctx, money(t, 10), "USD", "JPY", nil)
		require.NoError(t, err)
		// 10 * 149.7 = 1497, already whole yen
		assert.Equal(t, "1497", conv.Amount.StringWithDecimals(0))
	})

	t.Run("no rate anywhere yields conversion error", func(t *testing.T) {
		c := NewConverter(testSettings(), &fakeRateSource{err: ErrRateUnavailable})

		_, err := c.Convert(ctx, money(t, 100), "USD", "CHF", nil)
		assert.ErrorIs(t, err, ErrConversionRateUnavailable)
	})

	t.Run("provider returning nonpositive rate is not trusted", func(t *testing.T) {
		src := &fakeRateSource{rates: map[string]*big.Rat{"USD/THB": big.NewRat(0, 1)}}
		c := NewConverter(testSettings(), src)

		conv, err := c.Convert(ctx, money(t, 100), "USD", "THB", nil)
		require.NoError(t, err)
		assert.True(t, conv.UsedFallback)
	})

	t.Run("empty currency code rejected", func(t *testing.T) {
		c := NewConverter(testSettings(), nil)
		_, err := c.Convert(ctx, money(t, 100), "", "THB", nil)
		assert.ErrorIs(t, err, ErrUnknownCurrency)
	})
}

package rates

import (
	"context"
	"fmt"
	"math/big"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// StaticProvider serves rates from a fixed in-memory table. Used in tests and
// as a bootstrap provider when no Redis cache is configured.
type StaticProvider struct {
	rates map[string]*big.Rat
}

// NewStaticProvider creates a provider from a map of "FROM/TO" pairs to rates.
func NewStaticProvider(pairs map[string]float64) *StaticProvider {
	rates := make(map[string]*big.Rat, len(pairs))
	for pair, rate := range pairs {
		rates[pair] = new(big.Rat).SetFloat64(rate)
	}
	return &StaticProvider{rates: rates}
}

// Set adds or replaces the rate for a currency pair.
func (p *StaticProvider) Set(from, to string, rate *big.Rat) {
	if p.rates == nil {
		p.rates = make(map[string]*big.Rat)
	}
	p.rates[pairKey(from, to)] = new(big.Rat).Set(rate)
}

// Rate returns the configured rate for the pair, or ErrRateUnavailable.
func (p *StaticProvider) Rate(_ context.Context, from, to string) (*big.Rat, error) {
	if rate, ok := p.rates[pairKey(from, to)]; ok {
		return new(big.Rat).Set(rate), nil
	}
	return nil, fmt.Errorf("%s/%s: %w", from, to, domain.ErrRateUnavailable)
}

func pairKey(from, to string) string {
	return from + "/" + to
}

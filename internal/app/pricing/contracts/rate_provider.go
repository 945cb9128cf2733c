package contracts

import (
	"context"
	"math/big"
)

// RateProvider supplies live market exchange rates. Providers report a miss or
// timeout as domain.ErrRateUnavailable (possibly wrapped); the converter then
// falls back to the configured fallback rates.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (*big.Rat, error)
}

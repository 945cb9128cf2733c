package http

import (
	"errors"
	"net/http"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// statusFor maps domain sentinels onto HTTP statuses. Configuration the
// operator got wrong is 422, missing data is 404, caller mistakes are 400,
// and a dead rate source is 502 so load balancers retry elsewhere.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCountryRuleNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrMarkupRuleNotFound),
		errors.Is(err, domain.ErrTaxRateNotFound),
		errors.Is(err, domain.ErrInvalidSlabConfiguration),
		errors.Is(err, domain.ErrInactiveRule):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrConversionRateUnavailable),
		errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusBadGateway

	case errors.Is(err, domain.ErrInvalidLineItem),
		errors.Is(err, domain.ErrInvalidPartyComposition),
		errors.Is(err, domain.ErrMissingExplicitPrices),
		errors.Is(err, domain.ErrUnknownBulkOperation),
		errors.Is(err, domain.ErrSourceRuleRequired),
		errors.Is(err, domain.ErrInvalidMarkupValue),
		errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrMoneyOverflow):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

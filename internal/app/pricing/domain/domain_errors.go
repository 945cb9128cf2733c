package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Rule resolution errors
	ErrMarkupRuleNotFound       = errors.New("no markup rule found for country")
	ErrCountryRuleNotFound      = errors.New("country pricing rule not found")
	ErrInvalidSlabConfiguration = errors.New("slab configuration is invalid")
	ErrInactiveRule             = errors.New("rule is not active")

	// Conversion errors
	ErrConversionRateUnavailable = errors.New("conversion rate unavailable")
	ErrRateUnavailable           = errors.New("rate provider has no rate for currency pair")
	ErrUnknownCurrency           = errors.New("currency code is not recognized")

	// Tax errors
	ErrTaxRateNotFound = errors.New("no applicable tax rate found")

	// Breakdown errors
	ErrInvalidLineItem          = errors.New("line item is missing required pricing fields")
	ErrInvalidPartyComposition  = errors.New("party composition must include at least one traveller")
	ErrMissingExplicitPrices    = errors.New("explicit pricing mode requires per-person unit prices")

	// Bulk operation errors
	ErrUnknownBulkOperation = errors.New("unknown bulk operation")
	ErrSourceRuleRequired   = errors.New("copy operation requires a source country")
	ErrInvalidMarkupValue   = errors.New("markup value must not be negative")

	// Storage errors
	ErrMoneyOverflow = errors.New("money value exceeds storage capacity")
)

// CountryOperationError reports a per-country failure inside a bulk operation.
// The batch continues past it; callers inspect the collected errors afterwards.
type CountryOperationError struct {
	CountryCode string
	Err         error
}

// Error implements the error interface.
func (e *CountryOperationError) Error() string {
	return fmt.Sprintf("country %s: %v", e.CountryCode, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CountryOperationError) Unwrap() error {
	return e.Err
}

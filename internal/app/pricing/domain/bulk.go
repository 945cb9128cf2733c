package domain

import "fmt"

// BulkOperationType enumerates the administrative bulk pricing operations.
type BulkOperationType string

const (
	BulkSet    BulkOperationType = "set"
	BulkAdjust BulkOperationType = "adjust"
	BulkCopy   BulkOperationType = "copy"
)

// AdjustmentType controls how a bulk "adjust" modifies the stored markup.
type AdjustmentType string

const (
	// AdjustPercentage scales the current markup by (1 + value/100).
	AdjustPercentage AdjustmentType = "percentage"
	// AdjustFixed adds the value to the current markup.
	AdjustFixed AdjustmentType = "fixed"
)

// BulkPricingOperation is the ephemeral command object for bulk rule changes.
// Lifecycle is create, apply, discard; the engine never persists it.
//
// "set" and "copy" are idempotent. "adjust" is NOT: re-applying the same
// adjust operation compounds the change on the then-current stored value.
type BulkPricingOperation struct {
	Operation       BulkOperationType
	TargetCountries []string
	SourceCountry   string
	AdjustmentValue float64
	AdjustmentType  AdjustmentType
	MarkupType      MarkupType
}

// Validate checks the command shape before any country is touched.
func (op *BulkPricingOperation) Validate() error {
	if len(op.TargetCountries) == 0 {
		return fmt.Errorf("bulk operation has no target countries: %w", ErrUnknownBulkOperation)
	}

	switch op.Operation {
	case BulkSet:
		if op.AdjustmentValue < 0 {
			return ErrInvalidMarkupValue
		}
		if op.MarkupType != "" && !op.MarkupType.Valid() {
			return fmt.Errorf("markup type %q: %w", op.MarkupType, ErrInvalidMarkupValue)
		}
	case BulkAdjust:
		if op.AdjustmentType != AdjustPercentage && op.AdjustmentType != AdjustFixed {
			return fmt.Errorf("adjustment type %q: %w", op.AdjustmentType, ErrUnknownBulkOperation)
		}
	case BulkCopy:
		if op.SourceCountry == "" {
			return ErrSourceRuleRequired
		}
	default:
		return fmt.Errorf("operation %q: %w", op.Operation, ErrUnknownBulkOperation)
	}

	return nil
}

// ApplyToRule applies the operation to a single country rule in place.
// The source rule is only consulted for copy operations.
func (op *BulkPricingOperation) ApplyToRule(rule *CountryPricingRule, source *CountryPricingRule) error {
	switch op.Operation {
	case BulkSet:
		markupType := op.MarkupType
		if markupType == "" {
			markupType = rule.MarkupType
		}
		return rule.SetMarkup(op.AdjustmentValue, markupType)

	case BulkAdjust:
		return rule.AdjustMarkup(op.AdjustmentValue, op.AdjustmentType)

	case BulkCopy:
		if source == nil {
			return ErrSourceRuleRequired
		}
		rule.CopyFrom(source)
		return nil

	default:
		return fmt.Errorf("operation %q: %w", op.Operation, ErrUnknownBulkOperation)
	}
}

// CountryRuleUpdate records a successful per-country bulk change for reporting.
type CountryRuleUpdate struct {
	CountryCode    string
	PreviousMarkup float64
	NewMarkup      float64
	MarkupType     MarkupType
}

// BulkResult is the outcome of a bulk operation: best-effort per-country
// updates plus the failures that were skipped over.
type BulkResult struct {
	Updated []CountryRuleUpdate
	Errors  []*CountryOperationError
}

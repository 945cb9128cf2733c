package domain

import (
	"fmt"
	"math/big"
	"sort"
	"time"
)

// Field names for change tracking on CountryPricingRule.
const (
	FieldDefaultMarkup = "default_markup"
	FieldMarkupType    = "markup_type"
	FieldTier          = "tier"
	FieldSeasonal      = "seasonal_adjustment"
	FieldIsActive      = "is_active"
)

// MarkupType distinguishes percentage markups from fixed-value markups.
type MarkupType string

const (
	MarkupPercentage MarkupType = "percentage"
	MarkupFixed      MarkupType = "fixed"
)

// Valid reports whether the markup type is one of the known values.
func (t MarkupType) Valid() bool {
	return t == MarkupPercentage || t == MarkupFixed
}

// PricingTier represents the product tier a country rule belongs to.
type PricingTier string

const (
	TierBudget   PricingTier = "budget"
	TierStandard PricingTier = "standard"
	TierPremium  PricingTier = "premium"
	TierLuxury   PricingTier = "luxury"
)

// Valid reports whether the tier is one of the known values.
func (t PricingTier) Valid() bool {
	switch t {
	case TierBudget, TierStandard, TierPremium, TierLuxury:
		return true
	}
	return false
}

// SeasonalAdjustment adds (or subtracts) percentage points from a resolved markup
// while the as-of date falls inside its window. The window is inclusive on both ends.
type SeasonalAdjustment struct {
	Adjustment float64
	StartDate  time.Time
	EndDate    time.Time
}

// InWindow checks if the adjustment applies at the given time.
func (s *SeasonalAdjustment) InWindow(t time.Time) bool {
	return !t.Before(s.StartDate) && !t.After(s.EndDate)
}

// CountryPricingRule is the per-country default markup configuration.
// The country code is the natural key; one rule per country.
type CountryPricingRule struct {
	CountryCode    string
	Currency       string
	CurrencySymbol string
	DefaultMarkup  float64
	MarkupType     MarkupType
	Tier           PricingTier
	Region         string

	// ConversionMargin overrides the global per-currency margin when set.
	ConversionMargin *float64

	// PricingCurrencyOverride forces quotes for this country into a specific
	// currency instead of the country's own currency.
	PricingCurrencyOverride string

	Seasonal *SeasonalAdjustment
	IsActive bool

	changes *ChangeTracker
}

// Changes returns the change tracker, initialising it on first use.
func (r *CountryPricingRule) Changes() *ChangeTracker {
	if r.changes == nil {
		r.changes = NewChangeTracker()
	}
	return r.changes
}

// SetMarkup overwrites the markup value and type. Used by bulk "set" operations;
// re-applying the same value is idempotent by construction.
func (r *CountryPricingRule) SetMarkup(value float64, markupType MarkupType) error {
	if value < 0 {
		return ErrInvalidMarkupValue
	}
	if !markupType.Valid() {
		return fmt.Errorf("markup type %q: %w", markupType, ErrInvalidMarkupValue)
	}

	r.DefaultMarkup = value
	r.MarkupType = markupType
	r.Changes().MarkDirty(FieldDefaultMarkup)
	r.Changes().MarkDirty(FieldMarkupType)
	return nil
}

// AdjustMarkup applies a relative adjustment to the current markup value.
// A percentage adjustment scales the stored value, a fixed adjustment adds to it.
// Applying the same adjustment twice compounds; this is intentional.
func (r *CountryPricingRule) AdjustMarkup(value float64, adjustmentType AdjustmentType) error {
	var next float64
	switch adjustmentType {
	case AdjustPercentage:
		next = r.DefaultMarkup * (1 + value/100)
	case AdjustFixed:
		next = r.DefaultMarkup + value
	default:
		return fmt.Errorf("adjustment type %q: %w", adjustmentType, ErrUnknownBulkOperation)
	}

	if next < 0 {
		return ErrInvalidMarkupValue
	}

	r.DefaultMarkup = next
	r.Changes().MarkDirty(FieldDefaultMarkup)
	return nil
}

// CopyFrom replicates the pricing-relevant fields of a source rule onto this rule.
// Identity fields (country code, currency, region) are kept.
func (r *CountryPricingRule) CopyFrom(src *CountryPricingRule) {
	r.DefaultMarkup = src.DefaultMarkup
	r.MarkupType = src.MarkupType
	r.Tier = src.Tier
	if src.Seasonal != nil {
		seasonal := *src.Seasonal
		r.Seasonal = &seasonal
	} else {
		r.Seasonal = nil
	}
	r.Changes().MarkDirty(FieldDefaultMarkup)
	r.Changes().MarkDirty(FieldMarkupType)
	r.Changes().MarkDirty(FieldTier)
	r.Changes().MarkDirty(FieldSeasonal)
}

// MarkupSlabRule applies a markup percentage within an amount range.
// The range is inclusive of MinAmount and exclusive of MaxAmount.
type MarkupSlabRule struct {
	MinAmount            float64
	MaxAmount            float64
	AdditionalPercentage float64
	FixedAmount          *float64
}

// EnhancedMarkupRule is the slab-and-tier aware markup rule. When present and
// active it supersedes the country's default markup. At most one active rule
// per country.
type EnhancedMarkupRule struct {
	RuleID               string
	CountryCode          string
	BaseMarkupPercentage float64
	SlabMarkupEnabled    bool
	SlabRules            []MarkupSlabRule
	TierMultiplier       float64
	Seasonal             *SeasonalAdjustment
	MinimumMarkup        *float64
	MaximumMarkup        *float64
	IsActive             bool
}

// CloneFor deep-copies the rule for another country under a new identity.
// Bulk copy uses it so a source country's slab configuration travels with the
// rest of its pricing setup.
func (r *EnhancedMarkupRule) CloneFor(countryCode, ruleID string) *EnhancedMarkupRule {
	clone := *r
	clone.RuleID = ruleID
	clone.CountryCode = countryCode

	if r.SlabRules != nil {
		clone.SlabRules = make([]MarkupSlabRule, len(r.SlabRules))
		copy(clone.SlabRules, r.SlabRules)
		for i := range clone.SlabRules {
			if fixed := r.SlabRules[i].FixedAmount; fixed != nil {
				v := *fixed
				clone.SlabRules[i].FixedAmount = &v
			}
		}
	}
	if r.Seasonal != nil {
		seasonal := *r.Seasonal
		clone.Seasonal = &seasonal
	}
	if r.MinimumMarkup != nil {
		v := *r.MinimumMarkup
		clone.MinimumMarkup = &v
	}
	if r.MaximumMarkup != nil {
		v := *r.MaximumMarkup
		clone.MaximumMarkup = &v
	}
	return &clone
}

// ValidateSlabs sorts the slabs ascending by MinAmount and checks for
// malformed or overlapping ranges. Rule tables arrive from external storage
// with no ordering guarantee, so the slabs are sorted defensively here rather
// than trusted.
func ValidateSlabs(slabs []MarkupSlabRule) ([]MarkupSlabRule, error) {
	sorted := make([]MarkupSlabRule, len(slabs))
	copy(sorted, slabs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinAmount < sorted[j].MinAmount
	})

	for i, slab := range sorted {
		if slab.MinAmount < 0 {
			return nil, fmt.Errorf("slab %d has negative min amount: %w", i, ErrInvalidSlabConfiguration)
		}
		if slab.MaxAmount <= slab.MinAmount {
			return nil, fmt.Errorf("slab %d range [%v, %v) is empty: %w", i, slab.MinAmount, slab.MaxAmount, ErrInvalidSlabConfiguration)
		}
		if i > 0 && slab.MinAmount < sorted[i-1].MaxAmount {
			return nil, fmt.Errorf("slab %d overlaps previous slab: %w", i, ErrInvalidSlabConfiguration)
		}
	}

	return sorted, nil
}

// matchSlab returns the slab covering the given amount, or nil when none does.
// Slabs must already be validated/sorted. The highest slab's upper bound is
// treated as unbounded.
func matchSlab(sorted []MarkupSlabRule, amount *Money) *MarkupSlabRule {
	for i := range sorted {
		slab := &sorted[i]
		min := new(big.Rat).SetFloat64(slab.MinAmount)
		max := new(big.Rat).SetFloat64(slab.MaxAmount)

		if amount.Rat().Cmp(min) < 0 {
			continue
		}
		last := i == len(sorted)-1
		if amount.Rat().Cmp(max) < 0 || last {
			return slab
		}
	}
	return nil
}

// RegionalPricingTemplate groups countries under one default markup. It is the
// final fallback when neither an enhanced rule nor a country rule exists.
type RegionalPricingTemplate struct {
	TemplateID    string
	Region        string
	Countries     []string
	DefaultMarkup float64
	MarkupType    MarkupType
}

// Includes checks whether the template covers the given country code.
func (t *RegionalPricingTemplate) Includes(countryCode string) bool {
	for _, c := range t.Countries {
		if c == countryCode {
			return true
		}
	}
	return false
}

// ConversionSettings holds the process-wide currency conversion defaults.
// Per-country rules may override the margin for their own currency.
type ConversionSettings struct {
	BaseCurrency      string
	AutoUpdateRates   bool
	UpdateFrequency   string
	FallbackRates     map[string]float64
	ConversionMargins map[string]float64
}

// RuleSnapshot bundles every rule record relevant to one computation.
// It is assembled by the caller from the rule store and treated as read-only
// for the duration of the call, so the engine always computes against a
// consistent view.
type RuleSnapshot struct {
	CountryRule  *CountryPricingRule
	EnhancedRule *EnhancedMarkupRule
	Template     *RegionalPricingTemplate
	TaxConfig    *TaxConfiguration
	Settings     *ConversionSettings
}

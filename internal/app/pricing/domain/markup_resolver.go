package domain

import (
	"math/big"
	"time"
)

// MarkupSource identifies which layer of the rule cascade produced a markup.
type MarkupSource string

const (
	SourceEnhancedRule MarkupSource = "enhanced_rule"
	SourceCountryRule  MarkupSource = "country_rule"
	SourceRegional     MarkupSource = "regional_template"
)

// ResolvedMarkup is the single effective markup for one line item.
// RuleID and Source are carried into the breakdown for auditability.
type ResolvedMarkup struct {
	Percentage  float64
	FixedAmount *Money
	Type        MarkupType
	RuleID      string
	Source      MarkupSource
}

// MarkupResolver resolves the effective markup for a country through an
// ordered cascade: active enhanced rule, then country rule, then regional
// template. It never invents a markup; when no layer applies the caller gets
// ErrMarkupRuleNotFound and decides what to do.
type MarkupResolver struct{}

// NewMarkupResolver creates a new MarkupResolver.
func NewMarkupResolver() *MarkupResolver {
	return &MarkupResolver{}
}

// Resolve returns the effective markup for the snapshot's country.
// serviceType is part of the resolution contract for future service-specific
// rules; current rule records do not discriminate by service type.
func (mr *MarkupResolver) Resolve(snap *RuleSnapshot, serviceType string, amount *Money, asOf time.Time) (*ResolvedMarkup, error) {
	_ = serviceType

	if rule := snap.EnhancedRule; rule != nil && rule.IsActive {
		return mr.resolveEnhanced(rule, amount, asOf)
	}

	if rule := snap.CountryRule; rule != nil && rule.IsActive {
		return mr.resolveCountry(rule, asOf)
	}

	if tpl := snap.Template; tpl != nil {
		return &ResolvedMarkup{
			Percentage:  percentageOf(tpl.MarkupType, tpl.DefaultMarkup),
			FixedAmount: fixedOf(tpl.MarkupType, tpl.DefaultMarkup),
			Type:        tpl.MarkupType,
			RuleID:      tpl.TemplateID,
			Source:      SourceRegional,
		}, nil
	}

	return nil, ErrMarkupRuleNotFound
}

func (mr *MarkupResolver) resolveEnhanced(rule *EnhancedMarkupRule, amount *Money, asOf time.Time) (*ResolvedMarkup, error) {
	percentage := rule.BaseMarkupPercentage
	var fixed *Money

	if rule.SlabMarkupEnabled && len(rule.SlabRules) > 0 {
		sorted, err := ValidateSlabs(rule.SlabRules)
		if err != nil {
			return nil, err
		}
		if slab := matchSlab(sorted, amount); slab != nil {
			percentage = slab.AdditionalPercentage
			if slab.FixedAmount != nil {
				m, err := NewMoneyFromFloat(*slab.FixedAmount)
				if err != nil {
					return nil, err
				}
				fixed = m
			}
		}
	}

	multiplier := rule.TierMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	percentage *= multiplier

	if rule.Seasonal != nil && rule.Seasonal.InWindow(asOf) {
		percentage += rule.Seasonal.Adjustment
	}

	if rule.MinimumMarkup != nil && percentage < *rule.MinimumMarkup {
		percentage = *rule.MinimumMarkup
	}
	if rule.MaximumMarkup != nil && percentage > *rule.MaximumMarkup {
		percentage = *rule.MaximumMarkup
	}

	return &ResolvedMarkup{
		Percentage:  percentage,
		FixedAmount: fixed,
		Type:        MarkupPercentage,
		RuleID:      rule.RuleID,
		Source:      SourceEnhancedRule,
	}, nil
}

func (mr *MarkupResolver) resolveCountry(rule *CountryPricingRule, asOf time.Time) (*ResolvedMarkup, error) {
	value := rule.DefaultMarkup
	if rule.Seasonal != nil && rule.Seasonal.InWindow(asOf) {
		value += rule.Seasonal.Adjustment
	}

	return &ResolvedMarkup{
		Percentage:  percentageOf(rule.MarkupType, value),
		FixedAmount: fixedOf(rule.MarkupType, value),
		Type:        rule.MarkupType,
		RuleID:      rule.CountryCode,
		Source:      SourceCountryRule,
	}, nil
}

// Apply computes the marked-up amount: percentage markups multiply the base,
// fixed markups add to it, and a slab's fixed component stacks on top of its
// percentage.
func (mr *MarkupResolver) Apply(base *Money, markup *ResolvedMarkup) *Money {
	result := base.Copy()

	if markup.Percentage != 0 {
		factor := new(big.Rat).Add(
			big.NewRat(1, 1),
			new(big.Rat).Quo(new(big.Rat).SetFloat64(markup.Percentage), big.NewRat(100, 1)),
		)
		result = result.MultiplyByRat(factor)
	}

	if markup.FixedAmount != nil {
		result = result.Add(markup.FixedAmount)
	}

	return result
}

func percentageOf(t MarkupType, value float64) float64 {
	if t == MarkupPercentage {
		return value
	}
	return 0
}

func fixedOf(t MarkupType, value float64) *Money {
	if t != MarkupFixed {
		return nil
	}
	m, err := NewMoneyFromFloat(value)
	if err != nil {
		return Zero()
	}
	return m
}

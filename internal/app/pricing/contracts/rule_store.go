package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// RuleStore supplies rule configuration records for the pricing engine.
// Lookups that find no record return (nil, nil); the engine's cascade decides
// whether a missing layer is an error. Records are never cached beyond one
// computation so the engine always prices against the latest configuration.
type RuleStore interface {
	GetCountryRule(ctx context.Context, countryCode string) (*domain.CountryPricingRule, error)
	GetEnhancedMarkupRule(ctx context.Context, countryCode string) (*domain.EnhancedMarkupRule, error)
	GetRegionalTemplate(ctx context.Context, countryCode string) (*domain.RegionalPricingTemplate, error)
	GetTaxConfiguration(ctx context.Context, countryCode string) (*domain.TaxConfiguration, error)
	GetConversionSettings(ctx context.Context) (*domain.ConversionSettings, error)
}

// BulkRuleReader reads the rules for many countries in one round trip.
// Countries without a rule are absent from the returned map.
type BulkRuleReader interface {
	GetCountryRules(ctx context.Context, countryCodes []string) (map[string]*domain.CountryPricingRule, error)
}

// RuleWriter persists rule changes for the bulk operator. Writers return
// mutations, they don't apply them (Golden Mutation Pattern); the usecase
// collects mutations into a commit plan per country.
type RuleWriter interface {
	// UpsertCountryRuleMut creates a mutation writing the full rule.
	UpsertCountryRuleMut(rule *domain.CountryPricingRule) (*spanner.Mutation, error)

	// UpdateCountryRuleMut creates a mutation for only the rule's dirty fields.
	UpdateCountryRuleMut(rule *domain.CountryPricingRule) (*spanner.Mutation, error)

	// UpsertEnhancedRuleMut creates a mutation writing a full enhanced markup
	// rule, slabs included. Bulk copy uses it to replicate slab tables.
	UpsertEnhancedRuleMut(rule *domain.EnhancedMarkupRule) (*spanner.Mutation, error)
}

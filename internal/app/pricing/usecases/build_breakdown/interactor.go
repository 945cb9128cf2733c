package build_breakdown

import (
	"context"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/pkg/clock"
)

// Request contains one line item to price.
type Request struct {
	Item    *domain.LineItem
	Party   *domain.PartyComposition
	Options *domain.BreakdownOptions
}

// Interactor handles the build breakdown use case. It assembles a rule
// snapshot from the store and hands it to the pure domain engine; no rule
// record outlives the call.
type Interactor struct {
	store    contracts.RuleStore
	rates    contracts.RateProvider
	defaults *domain.ConversionSettings
	clock    clock.Clock
}

// NewInteractor creates a new build breakdown interactor.
// defaults may be nil; it seeds conversion settings when the store has none.
func NewInteractor(
	store contracts.RuleStore,
	rates contracts.RateProvider,
	defaults *domain.ConversionSettings,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		store:    store,
		rates:    rates,
		defaults: defaults,
		clock:    clk,
	}
}

// Execute prices one line item and returns the full breakdown.
// Resolver, converter and calculator failures propagate unmodified; nothing
// here substitutes defaults for money-affecting errors.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.PricingBreakdown, error) {
	if req.Item == nil {
		return nil, domain.ErrInvalidLineItem
	}

	item := *req.Item
	if item.ServiceDate.IsZero() {
		item.ServiceDate = i.clock.Now()
	}

	snap, err := i.loadSnapshot(ctx, item.CountryCode)
	if err != nil {
		return nil, err
	}

	opts := req.Options
	if opts == nil {
		opts = &domain.BreakdownOptions{EqualCostMode: true}
	}

	builder := domain.NewBreakdownBuilder(snap.Settings, i.rates)
	return builder.Build(ctx, snap, &item, req.Party, opts)
}

// loadSnapshot reads every rule record relevant to the country. Layers that
// do not exist stay nil; the domain cascade decides what that means.
func (i *Interactor) loadSnapshot(ctx context.Context, countryCode string) (*domain.RuleSnapshot, error) {
	countryRule, err := i.store.GetCountryRule(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	enhancedRule, err := i.store.GetEnhancedMarkupRule(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	template, err := i.store.GetRegionalTemplate(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	taxConfig, err := i.store.GetTaxConfiguration(ctx, countryCode)
	if err != nil {
		return nil, err
	}

	settings, err := i.store.GetConversionSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = i.defaults
	}

	return &domain.RuleSnapshot{
		CountryRule:  countryRule,
		EnhancedRule: enhancedRule,
		Template:     template,
		TaxConfig:    taxConfig,
		Settings:     settings,
	}, nil
}

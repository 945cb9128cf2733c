//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/app/pricing/repo"
	"github.com/voyantra/pricing-engine/tests/testutil"
)

func TestRuleRepo_CountryRuleRoundTrip(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewRuleRepo(client)

	margin := 0.02
	rule := &domain.CountryPricingRule{
		CountryCode:      "TH",
		Currency:         "THB",
		CurrencySymbol:   "฿",
		DefaultMarkup:    10,
		MarkupType:       domain.MarkupPercentage,
		Tier:             domain.TierStandard,
		Region:           "Southeast Asia",
		ConversionMargin: &margin,
		Seasonal: &domain.SeasonalAdjustment{
			Adjustment: 5,
			StartDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		IsActive: true,
	}

	mut, err := repository.UpsertCountryRuleMut(rule)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{mut})
	require.NoError(t, err)

	retrieved, err := repository.GetCountryRule(ctx, "TH")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, 10.0, retrieved.DefaultMarkup)
	assert.Equal(t, domain.MarkupPercentage, retrieved.MarkupType)
	require.NotNil(t, retrieved.ConversionMargin)
	assert.Equal(t, 0.02, *retrieved.ConversionMargin)
	require.NotNil(t, retrieved.Seasonal)
	assert.Equal(t, 5.0, retrieved.Seasonal.Adjustment)
}

func TestRuleRepo_EnhancedRuleRoundTrip(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewRuleRepo(client)

	fixed := 50.0
	minimum := 5.0
	rule := &domain.EnhancedMarkupRule{
		RuleID:               "rule-th",
		CountryCode:          "TH",
		BaseMarkupPercentage: 12,
		SlabMarkupEnabled:    true,
		SlabRules: []domain.MarkupSlabRule{
			{MinAmount: 0, MaxAmount: 1000, AdditionalPercentage: 12, FixedAmount: &fixed},
			{MinAmount: 1000, MaxAmount: 50000, AdditionalPercentage: 8},
		},
		TierMultiplier: 1.5,
		MinimumMarkup:  &minimum,
		IsActive:       true,
	}

	mut, err := repository.UpsertEnhancedRuleMut(rule)
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{mut})
	require.NoError(t, err)

	retrieved, err := repository.GetEnhancedMarkupRule(ctx, "TH")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, 12.0, retrieved.BaseMarkupPercentage)
	require.Len(t, retrieved.SlabRules, 2)
	assert.Equal(t, 12.0, retrieved.SlabRules[0].AdditionalPercentage)
	require.NotNil(t, retrieved.SlabRules[0].FixedAmount)
	assert.Equal(t, 50.0, *retrieved.SlabRules[0].FixedAmount)
	require.NotNil(t, retrieved.MinimumMarkup)
	assert.Equal(t, 5.0, *retrieved.MinimumMarkup)
}

func TestRuleRepo_MissingRecordsReadAsNil(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewRuleRepo(client)

	rule, err := repository.GetCountryRule(ctx, "XX")
	require.NoError(t, err)
	assert.Nil(t, rule)

	enhanced, err := repository.GetEnhancedMarkupRule(ctx, "XX")
	require.NoError(t, err)
	assert.Nil(t, enhanced)

	tpl, err := repository.GetRegionalTemplate(ctx, "XX")
	require.NoError(t, err)
	assert.Nil(t, tpl)

	tax, err := repository.GetTaxConfiguration(ctx, "XX")
	require.NoError(t, err)
	assert.Nil(t, tax)

	settings, err := repository.GetConversionSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestRuleRepo_UpdateMutOnlyWritesDirtyFields(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewRuleRepo(client)
	testutil.CreateTestCountryRule(t, client, "TH", "THB", 10)

	rule, err := repository.GetCountryRule(ctx, "TH")
	require.NoError(t, err)

	require.NoError(t, rule.SetMarkup(12, domain.MarkupPercentage))

	mut, err := repository.UpdateCountryRuleMut(rule)
	require.NoError(t, err)
	require.NotNil(t, mut)
	_, err = client.Apply(ctx, []*spanner.Mutation{mut})
	require.NoError(t, err)

	updated, err := repository.GetCountryRule(ctx, "TH")
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.DefaultMarkup)
	// untouched fields survive the partial update
	assert.Equal(t, "Southeast Asia", updated.Region)
}

func TestRuleRepo_UpdateMutWithoutChangesIsNil(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	repository := repo.NewRuleRepo(client)

	rule := &domain.CountryPricingRule{CountryCode: "TH", DefaultMarkup: 10}
	mut, err := repository.UpdateCountryRuleMut(rule)
	require.NoError(t, err)
	assert.Nil(t, mut)
}

func TestRuleRepo_GetCountryRules(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewRuleRepo(client)
	testutil.CreateTestCountryRule(t, client, "TH", "THB", 10)
	testutil.CreateTestCountryRule(t, client, "VN", "VND", 8)

	rules, err := repository.GetCountryRules(ctx, []string{"TH", "VN", "XX"})
	require.NoError(t, err)

	assert.Len(t, rules, 2)
	assert.Equal(t, 10.0, rules["TH"].DefaultMarkup)
	assert.Equal(t, 8.0, rules["VN"].DefaultMarkup)
	assert.NotContains(t, rules, "XX")
}

func TestRuleRepo_TaxConfigurationDecoding(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	repository := repo.NewRuleRepo(client)
	testutil.CreateTestTaxConfig(t, client, "TH", "VAT", 7)

	cfg, err := repository.GetTaxConfiguration(ctx, "TH")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, domain.TaxVAT, cfg.TaxType)
	require.Len(t, cfg.TaxRates, 1)
	assert.Equal(t, 7.0, cfg.TaxRates[0].Rate)
	assert.True(t, cfg.TaxRates[0].IsDefault)
}

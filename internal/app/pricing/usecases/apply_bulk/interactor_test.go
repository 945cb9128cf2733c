package apply_bulk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/pkg/clock"
	"github.com/voyantra/pricing-engine/tests/testutil"
)

type fixture struct {
	store     *testutil.MemRuleStore
	history   *testutil.MemHistoryRepo
	outbox    *testutil.MemOutboxRepo
	committer *testutil.MemCommitter
	in        *Interactor
}

func newFixture() *fixture {
	store := testutil.NewMemRuleStore()
	history := &testutil.MemHistoryRepo{}
	outbox := &testutil.MemOutboxRepo{}
	comm := &testutil.MemCommitter{}
	clk := clock.NewMockClock(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC))

	return &fixture{
		store:     store,
		history:   history,
		outbox:    outbox,
		committer: comm,
		in:        NewInteractor(store, store, store, history, outbox, comm, clk),
	}
}

func (f *fixture) addRule(code, currency string, markup float64) *domain.CountryPricingRule {
	rule := &domain.CountryPricingRule{
		CountryCode:   code,
		Currency:      currency,
		DefaultMarkup: markup,
		MarkupType:    domain.MarkupPercentage,
		Region:        "Southeast Asia",
		IsActive:      true,
	}
	f.store.CountryRules[code] = rule
	return rule
}

func TestInteractor_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("sets markup across countries", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)
		f.addRule("VN", "VND", 8)

		result, err := f.in.Execute(ctx, &Request{
			Op: &domain.BulkPricingOperation{
				Operation:       domain.BulkSet,
				TargetCountries: []string{"TH", "VN"},
				AdjustmentValue: 12,
			},
			ChangedBy: "ops@example.com",
		})
		require.NoError(t, err)

		assert.Len(t, result.Updated, 2)
		assert.Empty(t, result.Errors)
		assert.Equal(t, 12.0, f.store.CountryRules["TH"].DefaultMarkup)
		assert.Equal(t, 12.0, f.store.CountryRules["VN"].DefaultMarkup)
	})

	t.Run("reports previous and new markup", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)

		result, err := f.in.Execute(ctx, &Request{
			Op: &domain.BulkPricingOperation{
				Operation:       domain.BulkSet,
				TargetCountries: []string{"TH"},
				AdjustmentValue: 12,
			},
		})
		require.NoError(t, err)

		require.Len(t, result.Updated, 1)
		assert.Equal(t, 10.0, result.Updated[0].PreviousMarkup)
		assert.Equal(t, 12.0, result.Updated[0].NewMarkup)
	})

	t.Run("applying the same set twice is idempotent", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)

		req := &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkSet,
			TargetCountries: []string{"TH"},
			AdjustmentValue: 12,
		}}
		_, err := f.in.Execute(ctx, req)
		require.NoError(t, err)
		_, err = f.in.Execute(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, 12.0, f.store.CountryRules["TH"].DefaultMarkup)
	})

	t.Run("inactive rule is a per-country error", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10).IsActive = false
		f.addRule("VN", "VND", 8)

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkSet,
			TargetCountries: []string{"TH", "VN"},
			AdjustmentValue: 12,
		}})
		require.NoError(t, err)

		require.Len(t, result.Errors, 1)
		assert.Equal(t, "TH", result.Errors[0].CountryCode)
		assert.ErrorIs(t, result.Errors[0], domain.ErrInactiveRule)
		assert.Equal(t, 10.0, f.store.CountryRules["TH"].DefaultMarkup)
		assert.Equal(t, 12.0, f.store.CountryRules["VN"].DefaultMarkup)
	})

	t.Run("missing rule is a per-country error", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkSet,
			TargetCountries: []string{"TH", "XX"},
			AdjustmentValue: 12,
		}})
		require.NoError(t, err)

		assert.Len(t, result.Updated, 1)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "XX", result.Errors[0].CountryCode)
		assert.ErrorIs(t, result.Errors[0], domain.ErrCountryRuleNotFound)
		// the good country still committed
		assert.Equal(t, 12.0, f.store.CountryRules["TH"].DefaultMarkup)
	})
}

func TestInteractor_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("adjust compounds on reapplication", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)

		req := &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkAdjust,
			TargetCountries: []string{"TH"},
			AdjustmentValue: 10,
			AdjustmentType:  domain.AdjustPercentage,
		}}
		_, err := f.in.Execute(ctx, req)
		require.NoError(t, err)
		_, err = f.in.Execute(ctx, req)
		require.NoError(t, err)

		assert.InDelta(t, 12.1, f.store.CountryRules["TH"].DefaultMarkup, 1e-9)
	})

	t.Run("invalid adjustment is per-country, not batch-fatal", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 1)
		f.addRule("VN", "VND", 20)

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkAdjust,
			TargetCountries: []string{"TH", "VN"},
			AdjustmentValue: -5,
			AdjustmentType:  domain.AdjustFixed,
		}})
		require.NoError(t, err)

		// TH would go negative and is skipped; VN succeeds.
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "TH", result.Errors[0].CountryCode)
		assert.Equal(t, 1.0, f.store.CountryRules["TH"].DefaultMarkup)
		assert.Equal(t, 15.0, f.store.CountryRules["VN"].DefaultMarkup)
	})
}

func TestInteractor_Copy(t *testing.T) {
	ctx := context.Background()

	t.Run("copies source configuration onto targets", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 15).Tier = domain.TierPremium
		f.addRule("VN", "VND", 8)

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkCopy,
			TargetCountries: []string{"VN"},
			SourceCountry:   "TH",
		}})
		require.NoError(t, err)

		assert.Len(t, result.Updated, 1)
		vn := f.store.CountryRules["VN"]
		assert.Equal(t, 15.0, vn.DefaultMarkup)
		assert.Equal(t, domain.TierPremium, vn.Tier)
		// identity preserved
		assert.Equal(t, "VND", vn.Currency)
	})

	t.Run("copy creates a rule where none exists", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 15)

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkCopy,
			TargetCountries: []string{"KH"},
			SourceCountry:   "TH",
		}})
		require.NoError(t, err)

		assert.Len(t, result.Updated, 1)
		require.NotNil(t, f.store.CountryRules["KH"])
		assert.Equal(t, 15.0, f.store.CountryRules["KH"].DefaultMarkup)
		assert.Equal(t, 1, f.store.UpsertCount)
	})

	t.Run("replicates the source slab configuration", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 15)
		f.addRule("VN", "VND", 8)
		f.store.EnhancedRules["TH"] = &domain.EnhancedMarkupRule{
			RuleID:               "rule-th",
			CountryCode:          "TH",
			BaseMarkupPercentage: 12,
			SlabMarkupEnabled:    true,
			SlabRules: []domain.MarkupSlabRule{
				{MinAmount: 0, MaxAmount: 1000, AdditionalPercentage: 12},
				{MinAmount: 1000, MaxAmount: 50000, AdditionalPercentage: 8},
			},
			TierMultiplier: 1.5,
			IsActive:       true,
		}

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkCopy,
			TargetCountries: []string{"VN"},
			SourceCountry:   "TH",
		}})
		require.NoError(t, err)
		assert.Empty(t, result.Errors)

		replicated := f.store.EnhancedRules["VN"]
		require.NotNil(t, replicated)
		assert.Equal(t, "VN", replicated.CountryCode)
		assert.NotEqual(t, "rule-th", replicated.RuleID)
		assert.NotEmpty(t, replicated.RuleID)
		assert.Equal(t, 12.0, replicated.BaseMarkupPercentage)
		require.Len(t, replicated.SlabRules, 2)
		assert.Equal(t, 8.0, replicated.SlabRules[1].AdditionalPercentage)
		assert.Equal(t, 1, f.store.EnhancedUpsertCount)
		// rule update + enhanced rule + history + outbox in one plan
		require.Len(t, f.committer.Applied, 1)
		assert.Equal(t, 4, f.committer.Applied[0].Count())
	})

	t.Run("source without an enhanced rule copies the country rule only", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 15)
		f.addRule("VN", "VND", 8)

		_, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkCopy,
			TargetCountries: []string{"VN"},
			SourceCountry:   "TH",
		}})
		require.NoError(t, err)

		assert.Equal(t, 0, f.store.EnhancedUpsertCount)
		assert.Nil(t, f.store.EnhancedRules["VN"])
	})

	t.Run("copy may overwrite an inactive rule", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 15)
		f.addRule("VN", "VND", 8).IsActive = false

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkCopy,
			TargetCountries: []string{"VN"},
			SourceCountry:   "TH",
		}})
		require.NoError(t, err)

		assert.Empty(t, result.Errors)
		assert.Equal(t, 15.0, f.store.CountryRules["VN"].DefaultMarkup)
	})

	t.Run("missing source fails the whole batch", func(t *testing.T) {
		f := newFixture()
		f.addRule("VN", "VND", 8)

		_, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkCopy,
			TargetCountries: []string{"VN"},
			SourceCountry:   "XX",
		}})
		assert.ErrorIs(t, err, domain.ErrCountryRuleNotFound)
		assert.Equal(t, 8.0, f.store.CountryRules["VN"].DefaultMarkup)
	})
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("nil operation rejected", func(t *testing.T) {
		f := newFixture()
		_, err := f.in.Execute(ctx, &Request{})
		assert.ErrorIs(t, err, domain.ErrUnknownBulkOperation)
	})

	t.Run("validation failure happens before any write", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)

		_, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkSet,
			TargetCountries: []string{"TH"},
			AdjustmentValue: -1,
		}})
		assert.ErrorIs(t, err, domain.ErrInvalidMarkupValue)
		assert.Empty(t, f.committer.Applied)
	})

	t.Run("each country commits its own plan with history and event", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)
		f.addRule("VN", "VND", 8)

		_, err := f.in.Execute(ctx, &Request{
			Op: &domain.BulkPricingOperation{
				Operation:       domain.BulkSet,
				TargetCountries: []string{"TH", "VN"},
				AdjustmentValue: 12,
			},
			ChangedBy: "ops@example.com",
		})
		require.NoError(t, err)

		require.Len(t, f.committer.Applied, 2)
		// rule update + history insert + outbox insert per country
		assert.Equal(t, 3, f.committer.Applied[0].Count())
		require.Len(t, f.history.Entries, 2)
		assert.Equal(t, "ops@example.com", f.history.Entries[0].ChangedBy)
		require.Len(t, f.outbox.Events, 2)
		assert.Equal(t, "pricing.rule_changed", f.outbox.Events[0].EventType)
		assert.Equal(t, "pending", f.outbox.Events[0].Status)
	})

	t.Run("commit failure is reported per country", func(t *testing.T) {
		f := newFixture()
		f.addRule("TH", "THB", 10)
		f.committer.Err = errors.New("spanner unavailable")

		result, err := f.in.Execute(ctx, &Request{Op: &domain.BulkPricingOperation{
			Operation:       domain.BulkSet,
			TargetCountries: []string{"TH"},
			AdjustmentValue: 12,
		}})
		require.NoError(t, err)

		assert.Empty(t, result.Updated)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0].Error(), "spanner unavailable")
	})
}

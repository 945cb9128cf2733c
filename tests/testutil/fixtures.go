package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/voyantra/pricing-engine/internal/models/m_country_rule"
	"github.com/voyantra/pricing-engine/internal/models/m_tax_config"
)

// CreateTestCountryRule inserts a percentage country rule directly in the database.
func CreateTestCountryRule(t *testing.T, client *spanner.Client, countryCode, currency string, markup float64) {
	t.Helper()

	now := time.Now()
	model := m_country_rule.NewModel()
	data := &m_country_rule.Data{
		CountryCode:   countryCode,
		Currency:      currency,
		DefaultMarkup: markup,
		MarkupType:    "percentage",
		Tier:          "standard",
		Region:        "Southeast Asia",
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{model.UpsertMut(data)})
	require.NoError(t, err, "failed to create test country rule")
}

// CreateTestTaxConfig inserts a single-rate tax configuration for a country.
func CreateTestTaxConfig(t *testing.T, client *spanner.Client, countryCode, taxType string, rate float64) {
	t.Helper()

	now := time.Now()
	model := m_tax_config.NewModel()
	data := &m_tax_config.Data{
		CountryCode: countryCode,
		TaxType:     taxType,
		TaxRates: spanner.NullJSON{
			Valid: true,
			Value: []map[string]interface{}{
				{"ServiceType": "all", "Rate": rate, "IsDefault": true},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{model.UpsertMut(data)})
	require.NoError(t, err, "failed to create test tax config")
}

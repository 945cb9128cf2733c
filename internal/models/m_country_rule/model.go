package m_country_rule

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the country_pricing_rules table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// ReadColumns returns the column names for reading a full rule row.
func (m *Model) ReadColumns() []string {
	return []string{
		CountryCode,
		Currency,
		CurrencySymbol,
		DefaultMarkup,
		MarkupType,
		Tier,
		Region,
		ConversionMargin,
		PricingCurrencyOverride,
		SeasonalAdjustment,
		SeasonalStartDate,
		SeasonalEndDate,
		IsActive,
		CreatedAt,
		UpdatedAt,
	}
}

// UpsertMut creates a Spanner mutation writing the full rule row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		m.ReadColumns(),
		[]interface{}{
			data.CountryCode,
			data.Currency,
			data.CurrencySymbol,
			data.DefaultMarkup,
			data.MarkupType,
			data.Tier,
			data.Region,
			data.ConversionMargin,
			data.PricingCurrencyOverride,
			data.SeasonalAdjustment,
			data.SeasonalStartDate,
			data.SeasonalEndDate,
			data.IsActive,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific rule fields.
// The updates map should contain field names as keys and new values.
func (m *Model) UpdateMut(countryCode string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	// Always update the UpdatedAt timestamp
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, CountryCode)
	values = append(values, countryCode)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a rule (hard delete).
func (m *Model) DeleteMut(countryCode string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{countryCode})
}

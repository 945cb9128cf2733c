package m_markup_rule

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the enhanced_markup_rules table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// ReadColumns returns the column names for reading a full rule row.
func (m *Model) ReadColumns() []string {
	return []string{
		RuleID,
		CountryCode,
		BaseMarkupPercentage,
		SlabMarkupEnabled,
		SlabRules,
		TierMultiplier,
		SeasonalAdjustment,
		SeasonalStartDate,
		SeasonalEndDate,
		MinimumMarkup,
		MaximumMarkup,
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
			data.RuleID,
			data.CountryCode,
			data.BaseMarkupPercentage,
			data.SlabMarkupEnabled,
			data.SlabRules,
			data.TierMultiplier,
			data.SeasonalAdjustment,
			data.SeasonalStartDate,
			data.SeasonalEndDate,
			data.MinimumMarkup,
			data.MaximumMarkup,
			data.IsActive,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut creates a Spanner mutation for deleting a rule.
func (m *Model) DeleteMut(ruleID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{ruleID})
}

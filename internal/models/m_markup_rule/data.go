package m_markup_rule

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents an enhanced markup rule row in the database.
// Slab rules are stored as a JSON document; the repository owns the
// serialization to and from domain slab structs.
type Data struct {
	RuleID               string              `spanner:"rule_id"`
	CountryCode          string              `spanner:"country_code"`
	BaseMarkupPercentage float64             `spanner:"base_markup_percentage"`
	SlabMarkupEnabled    bool                `spanner:"slab_markup_enabled"`
	SlabRules            spanner.NullJSON    `spanner:"slab_rules"`
	TierMultiplier       float64             `spanner:"tier_multiplier"`
	SeasonalAdjustment   spanner.NullFloat64 `spanner:"seasonal_adjustment"`
	SeasonalStartDate    spanner.NullTime    `spanner:"seasonal_start_date"`
	SeasonalEndDate      spanner.NullTime    `spanner:"seasonal_end_date"`
	MinimumMarkup        spanner.NullFloat64 `spanner:"minimum_markup"`
	MaximumMarkup        spanner.NullFloat64 `spanner:"maximum_markup"`
	IsActive             bool                `spanner:"is_active"`
	CreatedAt            time.Time           `spanner:"created_at"`
	UpdatedAt            time.Time           `spanner:"updated_at"`
}

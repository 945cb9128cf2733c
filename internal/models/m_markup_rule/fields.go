package m_markup_rule

// Field name constants for the enhanced_markup_rules table.
const (
	TableName = "enhanced_markup_rules"

	RuleID               = "rule_id"
	CountryCode          = "country_code"
	BaseMarkupPercentage = "base_markup_percentage"
	SlabMarkupEnabled    = "slab_markup_enabled"
	SlabRules            = "slab_rules"
	TierMultiplier       = "tier_multiplier"
	SeasonalAdjustment   = "seasonal_adjustment"
	SeasonalStartDate    = "seasonal_start_date"
	SeasonalEndDate      = "seasonal_end_date"
	MinimumMarkup        = "minimum_markup"
	MaximumMarkup        = "maximum_markup"
	IsActive             = "is_active"
	CreatedAt            = "created_at"
	UpdatedAt            = "updated_at"
)

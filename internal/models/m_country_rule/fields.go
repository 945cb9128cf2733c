package m_country_rule

// Field name constants for the country_pricing_rules table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "country_pricing_rules"

	CountryCode             = "country_code"
	Currency                = "currency"
	CurrencySymbol          = "currency_symbol"
	DefaultMarkup           = "default_markup"
	MarkupType              = "markup_type"
	Tier                    = "tier"
	Region                  = "region"
	ConversionMargin        = "conversion_margin"
	PricingCurrencyOverride = "pricing_currency_override"
	SeasonalAdjustment      = "seasonal_adjustment"
	SeasonalStartDate       = "seasonal_start_date"
	SeasonalEndDate         = "seasonal_end_date"
	IsActive                = "is_active"
	CreatedAt               = "created_at"
	UpdatedAt               = "updated_at"
)

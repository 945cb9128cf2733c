package m_country_rule

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a country pricing rule row in the database.
type Data struct {
	CountryCode             string              `spanner:"country_code"`
	Currency                string              `spanner:"currency"`
	CurrencySymbol          string              `spanner:"currency_symbol"`
	DefaultMarkup           float64             `spanner:"default_markup"`
	MarkupType              string              `spanner:"markup_type"`
	Tier                    string              `spanner:"tier"`
	Region                  string              `spanner:"region"`
	ConversionMargin        spanner.NullFloat64 `spanner:"conversion_margin"`
	PricingCurrencyOverride spanner.NullString  `spanner:"pricing_currency_override"`
	SeasonalAdjustment      spanner.NullFloat64 `spanner:"seasonal_adjustment"`
	SeasonalStartDate       spanner.NullTime    `spanner:"seasonal_start_date"`
	SeasonalEndDate         spanner.NullTime    `spanner:"seasonal_end_date"`
	IsActive                bool                `spanner:"is_active"`
	CreatedAt               time.Time           `spanner:"created_at"`
	UpdatedAt               time.Time           `spanner:"updated_at"`
}

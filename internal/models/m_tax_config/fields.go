package m_tax_config

// Field name constants for the tax_configurations table.
const (
	TableName = "tax_configurations"

	CountryCode = "country_code"
	TaxType     = "tax_type"
	TaxRates    = "tax_rates"
	TDSConfig   = "tds_config"
	Exemptions  = "exemptions"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"
)

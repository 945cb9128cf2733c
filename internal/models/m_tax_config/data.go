package m_tax_config

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a tax configuration row in the database.
// Rates, TDS and exemptions are stored as JSON documents.
type Data struct {
	CountryCode string           `spanner:"country_code"`
	TaxType     string           `spanner:"tax_type"`
	TaxRates    spanner.NullJSON `spanner:"tax_rates"`
	TDSConfig   spanner.NullJSON `spanner:"tds_config"`
	Exemptions  spanner.NullJSON `spanner:"exemptions"`
	CreatedAt   time.Time        `spanner:"created_at"`
	UpdatedAt   time.Time        `spanner:"updated_at"`
}

// Model provides type-safe database operations for tax configurations.
type Model struct{}

// NewModel creates a new tax configuration model.
func NewModel() *Model {
	return &Model{}
}

// ReadColumns returns the column names for reading a configuration row.
func (m *Model) ReadColumns() []string {
	return []string{
		CountryCode,
		TaxType,
		TaxRates,
		TDSConfig,
		Exemptions,
		CreatedAt,
		UpdatedAt,
	}
}

// UpsertMut creates a mutation writing the full configuration row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		m.ReadColumns(),
		[]interface{}{
			data.CountryCode,
			data.TaxType,
			data.TaxRates,
			data.TDSConfig,
			data.Exemptions,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

package m_conversion_settings

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the conversion_settings table.
// The table holds a single process-wide row keyed by SingletonID.
const (
	TableName = "conversion_settings"

	SettingsID        = "settings_id"
	BaseCurrency      = "base_currency"
	AutoUpdateRates   = "auto_update_rates"
	UpdateFrequency   = "update_frequency"
	FallbackRates     = "fallback_rates"
	ConversionMargins = "conversion_margins"
	UpdatedAt         = "updated_at"
)

// SingletonID is the fixed key of the only settings row.
const SingletonID = "global"

// Data represents the conversion settings row in the database.
// Rate and margin tables are stored as JSON documents.
type Data struct {
	SettingsID        string           `spanner:"settings_id"`
	BaseCurrency      string           `spanner:"base_currency"`
	AutoUpdateRates   bool             `spanner:"auto_update_rates"`
	UpdateFrequency   string           `spanner:"update_frequency"`
	FallbackRates     spanner.NullJSON `spanner:"fallback_rates"`
	ConversionMargins spanner.NullJSON `spanner:"conversion_margins"`
	UpdatedAt         time.Time        `spanner:"updated_at"`
}

// Model provides type-safe database operations for conversion settings.
type Model struct{}

// NewModel creates a new conversion settings model.
func NewModel() *Model {
	return &Model{}
}

// ReadColumns returns the column names for reading the settings row.
func (m *Model) ReadColumns() []string {
	return []string{
		SettingsID,
		BaseCurrency,
		AutoUpdateRates,
		UpdateFrequency,
		FallbackRates,
		ConversionMargins,
		UpdatedAt,
	}
}

// UpsertMut creates a mutation writing the settings row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		m.ReadColumns(),
		[]interface{}{
			SingletonID,
			data.BaseCurrency,
			data.AutoUpdateRates,
			data.UpdateFrequency,
			data.FallbackRates,
			data.ConversionMargins,
			spanner.CommitTimestamp,
		},
	)
}

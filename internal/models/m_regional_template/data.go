package m_regional_template

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the regional_pricing_templates table.
const (
	TableName = "regional_pricing_templates"

	TemplateID    = "template_id"
	Region        = "region"
	Countries     = "countries"
	DefaultMarkup = "default_markup"
	MarkupType    = "markup_type"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)

// Data represents a regional pricing template row in the database.
type Data struct {
	TemplateID    string    `spanner:"template_id"`
	Region        string    `spanner:"region"`
	Countries     []string  `spanner:"countries"`
	DefaultMarkup float64   `spanner:"default_markup"`
	MarkupType    string    `spanner:"markup_type"`
	CreatedAt     time.Time `spanner:"created_at"`
	UpdatedAt     time.Time `spanner:"updated_at"`
}

// Model provides type-safe database operations for regional templates.
type Model struct{}

// NewModel creates a new regional template model.
func NewModel() *Model {
	return &Model{}
}

// ReadColumns returns the column names for reading a template row.
func (m *Model) ReadColumns() []string {
	return []string{
		TemplateID,
		Region,
		Countries,
		DefaultMarkup,
		MarkupType,
		CreatedAt,
		UpdatedAt,
	}
}

// UpsertMut creates a mutation writing the full template row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		m.ReadColumns(),
		[]interface{}{
			data.TemplateID,
			data.Region,
			data.Countries,
			data.DefaultMarkup,
			data.MarkupType,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

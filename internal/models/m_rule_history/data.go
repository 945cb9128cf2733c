package m_rule_history

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the rule_history table.
const (
	TableName = "rule_history"

	HistoryID      = "history_id"
	CountryCode    = "country_code"
	PreviousMarkup = "previous_markup"
	NewMarkup      = "new_markup"
	MarkupType     = "markup_type"
	Operation      = "operation"
	ChangedBy      = "changed_by"
	ChangedAt      = "changed_at"
)

// Data represents a rule change audit record in the database.
type Data struct {
	HistoryID      string             `spanner:"history_id"`
	CountryCode    string             `spanner:"country_code"`
	PreviousMarkup spanner.NullFloat64 `spanner:"previous_markup"`
	NewMarkup      float64            `spanner:"new_markup"`
	MarkupType     string             `spanner:"markup_type"`
	Operation      string             `spanner:"operation"`
	ChangedBy      spanner.NullString `spanner:"changed_by"`
	ChangedAt      time.Time          `spanner:"changed_at"`
}

// Model provides type-safe database operations for rule history.
type Model struct{}

// NewModel creates a new rule history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a rule history record.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	mut, _ := spanner.InsertStruct(TableName, data)
	return mut
}

// ReadColumns returns the column names for reading rule history.
func (m *Model) ReadColumns() []string {
	return []string{
		HistoryID,
		CountryCode,
		PreviousMarkup,
		NewMarkup,
		MarkupType,
		Operation,
		ChangedBy,
		ChangedAt,
	}
}

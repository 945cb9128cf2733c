package contracts

import (
	"time"

	"cloud.google.com/go/spanner"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// RuleHistoryEntry records one markup change for audit.
type RuleHistoryEntry struct {
	HistoryID      string
	CountryCode    string
	PreviousMarkup float64
	NewMarkup      float64
	MarkupType     domain.MarkupType
	Operation      string
	ChangedBy      string
	ChangedAt      time.Time
}

// RuleHistoryRepository persists the audit trail of rule changes.
type RuleHistoryRepository interface {
	// InsertMut creates a mutation for inserting a history entry
	InsertMut(entry *RuleHistoryEntry) *spanner.Mutation
}

package repo

import (
	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/models/m_rule_history"
)

// RuleHistoryRepo implements RuleHistoryRepository for Spanner.
type RuleHistoryRepo struct {
	client *spanner.Client
	model  *m_rule_history.Model
}

// NewRuleHistoryRepo creates a new RuleHistoryRepo.
func NewRuleHistoryRepo(client *spanner.Client) contracts.RuleHistoryRepository {
	return &RuleHistoryRepo{
		client: client,
		model:  m_rule_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a rule history entry.
func (r *RuleHistoryRepo) InsertMut(entry *contracts.RuleHistoryEntry) *spanner.Mutation {
	historyID := entry.HistoryID
	if historyID == "" {
		historyID = uuid.New().String()
	}

	data := &m_rule_history.Data{
		HistoryID:      historyID,
		CountryCode:    entry.CountryCode,
		PreviousMarkup: spanner.NullFloat64{Float64: entry.PreviousMarkup, Valid: true},
		NewMarkup:      entry.NewMarkup,
		MarkupType:     string(entry.MarkupType),
		Operation:      entry.Operation,
		ChangedBy:      spanner.NullString{StringVal: entry.ChangedBy, Valid: entry.ChangedBy != ""},
		ChangedAt:      entry.ChangedAt,
	}

	return r.model.InsertMut(data)
}

package testutil

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/pkg/committer"
)

// MemRuleStore is an in-memory RuleStore, BulkRuleReader and RuleWriter for
// unit tests. Mutations are counted, not applied; committed rule state lives
// in the maps and is mutated in place by the usecases.
type MemRuleStore struct {
	CountryRules  map[string]*domain.CountryPricingRule
	EnhancedRules map[string]*domain.EnhancedMarkupRule
	Templates     []*domain.RegionalPricingTemplate
	TaxConfigs    map[string]*domain.TaxConfiguration
	Settings      *domain.ConversionSettings

	UpsertCount         int
	UpdateCount         int
	EnhancedUpsertCount int
}

// NewMemRuleStore creates an empty in-memory rule store.
func NewMemRuleStore() *MemRuleStore {
	return &MemRuleStore{
		CountryRules:  make(map[string]*domain.CountryPricingRule),
		EnhancedRules: make(map[string]*domain.EnhancedMarkupRule),
		TaxConfigs:    make(map[string]*domain.TaxConfiguration),
	}
}

func (s *MemRuleStore) GetCountryRule(_ context.Context, countryCode string) (*domain.CountryPricingRule, error) {
	return s.CountryRules[countryCode], nil
}

func (s *MemRuleStore) GetEnhancedMarkupRule(_ context.Context, countryCode string) (*domain.EnhancedMarkupRule, error) {
	return s.EnhancedRules[countryCode], nil
}

func (s *MemRuleStore) GetRegionalTemplate(_ context.Context, countryCode string) (*domain.RegionalPricingTemplate, error) {
	for _, tpl := range s.Templates {
		if tpl.Includes(countryCode) {
			return tpl, nil
		}
	}
	return nil, nil
}

func (s *MemRuleStore) GetTaxConfiguration(_ context.Context, countryCode string) (*domain.TaxConfiguration, error) {
	return s.TaxConfigs[countryCode], nil
}

func (s *MemRuleStore) GetConversionSettings(_ context.Context) (*domain.ConversionSettings, error) {
	return s.Settings, nil
}

func (s *MemRuleStore) GetCountryRules(_ context.Context, countryCodes []string) (map[string]*domain.CountryPricingRule, error) {
	rules := make(map[string]*domain.CountryPricingRule, len(countryCodes))
	for _, code := range countryCodes {
		if rule, ok := s.CountryRules[code]; ok {
			rules[code] = rule
		}
	}
	return rules, nil
}

func (s *MemRuleStore) UpsertCountryRuleMut(rule *domain.CountryPricingRule) (*spanner.Mutation, error) {
	s.UpsertCount++
	s.CountryRules[rule.CountryCode] = rule
	return spanner.InsertOrUpdate("country_pricing_rules", []string{"country_code"}, []interface{}{rule.CountryCode}), nil
}

func (s *MemRuleStore) UpdateCountryRuleMut(rule *domain.CountryPricingRule) (*spanner.Mutation, error) {
	s.UpdateCount++
	return spanner.Update("country_pricing_rules", []string{"country_code"}, []interface{}{rule.CountryCode}), nil
}

func (s *MemRuleStore) UpsertEnhancedRuleMut(rule *domain.EnhancedMarkupRule) (*spanner.Mutation, error) {
	s.EnhancedUpsertCount++
	s.EnhancedRules[rule.CountryCode] = rule
	return spanner.InsertOrUpdate("enhanced_markup_rules", []string{"rule_id"}, []interface{}{rule.RuleID}), nil
}

var _ contracts.RuleStore = (*MemRuleStore)(nil)
var _ contracts.BulkRuleReader = (*MemRuleStore)(nil)
var _ contracts.RuleWriter = (*MemRuleStore)(nil)

// MemHistoryRepo records history entries instead of persisting them.
type MemHistoryRepo struct {
	Entries []*contracts.RuleHistoryEntry
}

func (r *MemHistoryRepo) InsertMut(entry *contracts.RuleHistoryEntry) *spanner.Mutation {
	r.Entries = append(r.Entries, entry)
	return spanner.Insert("rule_history", []string{"history_id"}, []interface{}{uuid.New().String()})
}

var _ contracts.RuleHistoryRepository = (*MemHistoryRepo)(nil)

// MemOutboxRepo records enriched events instead of persisting them.
type MemOutboxRepo struct {
	Events []*contracts.OutboxEvent
}

func (r *MemOutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	r.Events = append(r.Events, event)
	return spanner.Insert("outbox_events", []string{"event_id"}, []interface{}{event.EventID})
}

func (r *MemOutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      "pending",
	}
}

var _ contracts.OutboxRepository = (*MemOutboxRepo)(nil)

// MemCommitter records applied plans; set Err to make every commit fail.
type MemCommitter struct {
	Applied []*committer.CommitPlan
	Err     error
}

func (c *MemCommitter) Apply(_ context.Context, plan *committer.CommitPlan) error {
	if c.Err != nil {
		return c.Err
	}
	c.Applied = append(c.Applied, plan)
	return nil
}

var _ committer.Applier = (*MemCommitter)(nil)

package apply_bulk

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/pkg/clock"
	"github.com/voyantra/pricing-engine/internal/pkg/committer"
)

// Request carries the bulk operation command.
type Request struct {
	Op        *domain.BulkPricingOperation
	ChangedBy string
}

// Interactor handles the bulk rule operation use case.
//
// Each target country is processed independently with its own commit plan:
// a failed country goes into the error list and never blocks or rolls back
// the rest of the batch. Within one country, the rule update, its history row
// and its outbox event commit atomically.
type Interactor struct {
	store       contracts.RuleStore
	bulkReader  contracts.BulkRuleReader
	writer      contracts.RuleWriter
	historyRepo contracts.RuleHistoryRepository
	outboxRepo  contracts.OutboxRepository
	committer   committer.Applier
	clock       clock.Clock
}

// NewInteractor creates a new bulk operation interactor.
func NewInteractor(
	store contracts.RuleStore,
	bulkReader contracts.BulkRuleReader,
	writer contracts.RuleWriter,
	historyRepo contracts.RuleHistoryRepository,
	outboxRepo contracts.OutboxRepository,
	comm committer.Applier,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		store:       store,
		bulkReader:  bulkReader,
		writer:      writer,
		historyRepo: historyRepo,
		outboxRepo:  outboxRepo,
		committer:   comm,
		clock:       clk,
	}
}

// Execute applies the bulk operation across its target countries.
// A malformed command or missing copy source fails the whole batch before any
// write; everything after that is per-country best effort.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.BulkResult, error) {
	op := req.Op
	if op == nil {
		return nil, domain.ErrUnknownBulkOperation
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	var source *domain.CountryPricingRule
	var sourceEnhanced *domain.EnhancedMarkupRule
	if op.Operation == domain.BulkCopy {
		var err error
		source, err = i.store.GetCountryRule(ctx, op.SourceCountry)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return nil, fmt.Errorf("source country %s: %w", op.SourceCountry, domain.ErrCountryRuleNotFound)
		}
		// The source's slab configuration travels with the copy. Absent one,
		// targets keep whatever enhanced rule they already have.
		sourceEnhanced, err = i.store.GetEnhancedMarkupRule(ctx, op.SourceCountry)
		if err != nil {
			return nil, err
		}
	}

	rules, err := i.bulkReader.GetCountryRules(ctx, op.TargetCountries)
	if err != nil {
		return nil, err
	}

	result := &domain.BulkResult{}
	for _, countryCode := range op.TargetCountries {
		update, err := i.applyToCountry(ctx, op, req.ChangedBy, countryCode, rules[countryCode], source, sourceEnhanced)
		if err != nil {
			result.Errors = append(result.Errors, &domain.CountryOperationError{
				CountryCode: countryCode,
				Err:         err,
			})
			continue
		}
		result.Updated = append(result.Updated, *update)
	}

	return result, nil
}

// applyToCountry mutates one country's rule and commits it with its audit
// trail in a single plan.
func (i *Interactor) applyToCountry(
	ctx context.Context,
	op *domain.BulkPricingOperation,
	changedBy string,
	countryCode string,
	rule *domain.CountryPricingRule,
	source *domain.CountryPricingRule,
	sourceEnhanced *domain.EnhancedMarkupRule,
) (*domain.CountryRuleUpdate, error) {
	created := false
	if rule == nil {
		// Only copy may create a rule where none exists; set and adjust
		// modify a stored value, so a missing rule is a per-country error.
		if op.Operation != domain.BulkCopy {
			return nil, domain.ErrCountryRuleNotFound
		}
		rule = &domain.CountryPricingRule{
			CountryCode: countryCode,
			Currency:    source.Currency,
			Region:      source.Region,
			IsActive:    true,
		}
		created = true
	}

	// Set and adjust tune a live value; copy overwrites the configuration
	// wholesale, so it may target inactive rules.
	if !created && !rule.IsActive && op.Operation != domain.BulkCopy {
		return nil, domain.ErrInactiveRule
	}

	previousMarkup := rule.DefaultMarkup

	if err := op.ApplyToRule(rule, source); err != nil {
		return nil, err
	}

	now := i.clock.Now()

	var mut *spanner.Mutation
	var err error
	if created {
		mut, err = i.writer.UpsertCountryRuleMut(rule)
	} else {
		mut, err = i.writer.UpdateCountryRuleMut(rule)
	}
	if err != nil {
		return nil, err
	}

	var enhancedMut *spanner.Mutation
	if op.Operation == domain.BulkCopy && sourceEnhanced != nil {
		clone := sourceEnhanced.CloneFor(countryCode, uuid.New().String())
		enhancedMut, err = i.writer.UpsertEnhancedRuleMut(clone)
		if err != nil {
			return nil, err
		}
	}

	historyMut := i.historyRepo.InsertMut(&contracts.RuleHistoryEntry{
		CountryCode:    countryCode,
		PreviousMarkup: previousMarkup,
		NewMarkup:      rule.DefaultMarkup,
		MarkupType:     rule.MarkupType,
		Operation:      string(op.Operation),
		ChangedBy:      changedBy,
		ChangedAt:      now,
	})

	event := &domain.PricingRuleChangedEvent{
		CountryCode:    countryCode,
		Operation:      string(op.Operation),
		PreviousMarkup: previousMarkup,
		NewMarkup:      rule.DefaultMarkup,
		MarkupType:     string(rule.MarkupType),
		SourceCountry:  op.SourceCountry,
		ChangedAt:      now,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event: %w", err)
	}
	outboxMut := i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, string(payload)))

	plan := committer.NewPlan()
	plan.AddMultiple([]*spanner.Mutation{mut, enhancedMut, historyMut, outboxMut})

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit rule change: %w", err)
	}

	return &domain.CountryRuleUpdate{
		CountryCode:    countryCode,
		PreviousMarkup: previousMarkup,
		NewMarkup:      rule.DefaultMarkup,
		MarkupType:     rule.MarkupType,
	}, nil
}

package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// PricingRuleChangedEvent is emitted when a bulk operation changes a country's
// markup. Downstream consumers use it to invalidate cached quotes.
type PricingRuleChangedEvent struct {
	CountryCode    string
	Operation      string
	PreviousMarkup float64
	NewMarkup      float64
	MarkupType     string
	SourceCountry  string
	ChangedAt      time.Time
}

func (e *PricingRuleChangedEvent) EventType() string {
	return "pricing.rule_changed"
}

func (e *PricingRuleChangedEvent) AggregateID() string {
	return e.CountryCode
}

package contracts

import (
	"context"
	"time"
)

// CountryRuleDTO is a data transfer object for rule queries.
type CountryRuleDTO struct {
	CountryCode        string
	Currency           string
	CurrencySymbol     string
	DefaultMarkup      float64
	MarkupType         string
	Tier               string
	Region             string
	ConversionMargin   *float64
	SeasonalAdjustment *float64
	IsActive           bool
	UpdatedAt          time.Time
}

// ListFilter defines filtering options for listing country rules.
type ListFilter struct {
	Region    string
	Tier      string
	PageSize  int
	PageToken string
}

// ListResult contains paginated rule list results.
type ListResult struct {
	Rules         []*CountryRuleDTO
	NextPageToken string
	TotalCount    int64
}

// ReadModel defines the interface for rule queries.
// Read models can bypass the domain layer for performance.
type ReadModel interface {
	// GetCountryRule retrieves a rule DTO by country code
	GetCountryRule(ctx context.Context, countryCode string) (*CountryRuleDTO, error)

	// ListCountryRules retrieves a paginated list of rules with filtering
	ListCountryRules(ctx context.Context, filter *ListFilter) (*ListResult, error)
}

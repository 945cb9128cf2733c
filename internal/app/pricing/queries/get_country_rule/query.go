package get_country_rule

import (
	"context"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
)

// Request contains the country code to retrieve.
type Request struct {
	CountryCode string
}

// Query handles the get country rule query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new get country rule query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a rule by country code.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.CountryRuleDTO, error) {
	return q.readModel.GetCountryRule(ctx, req.CountryCode)
}

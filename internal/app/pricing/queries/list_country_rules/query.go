package list_country_rules

import (
	"context"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
)

// Request contains the filter for listing rules.
type Request struct {
	Region    string
	Tier      string
	PageSize  int
	PageToken string
}

// Query handles the list country rules query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list country rules query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a paginated rule list.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	return q.readModel.ListCountryRules(ctx, &contracts.ListFilter{
		Region:    req.Region,
		Tier:      req.Tier,
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
	})
}

package repo

import (
	"context"
	"fmt"
	"strconv"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/models/m_country_rule"
	"github.com/voyantra/pricing-engine/internal/pkg/query"
)

const defaultPageSize = 50

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
	model  *m_country_rule.Model
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{
		client: client,
		model:  m_country_rule.NewModel(),
	}
}

// GetCountryRule retrieves a rule DTO by country code.
func (rm *ReadModelImpl) GetCountryRule(ctx context.Context, countryCode string) (*contracts.CountryRuleDTO, error) {
	row, err := rm.client.Single().ReadRow(ctx, m_country_rule.TableName, spanner.Key{countryCode}, rm.model.ReadColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrCountryRuleNotFound
		}
		return nil, fmt.Errorf("failed to read country rule: %w", err)
	}

	var data m_country_rule.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse country rule: %w", err)
	}

	return dataToDTO(&data), nil
}

// ListCountryRules retrieves a paginated list of rules with filtering.
func (rm *ReadModelImpl) ListCountryRules(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	offset := int64(0)
	if filter.PageToken != "" {
		parsed, err := strconv.ParseInt(filter.PageToken, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid page token %q", filter.PageToken)
		}
		offset = parsed
	}

	builder := query.From(m_country_rule.TableName).Select(rm.model.ReadColumns()...)
	if filter.Region != "" {
		builder = builder.Where(query.Eq(m_country_rule.Region, filter.Region))
	}
	if filter.Tier != "" {
		builder = builder.Where(query.Eq(m_country_rule.Tier, filter.Tier))
	}

	// Fetch one extra row to decide whether there is a next page.
	stmt := builder.
		OrderBy(m_country_rule.CountryCode, query.Asc).
		Limit(int64(pageSize) + 1).
		Offset(offset).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	rules := make([]*contracts.CountryRuleDTO, 0, pageSize)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list country rules: %w", err)
		}

		var data m_country_rule.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse country rule: %w", err)
		}
		rules = append(rules, dataToDTO(&data))
	}

	nextPageToken := ""
	if len(rules) > pageSize {
		rules = rules[:pageSize]
		nextPageToken = strconv.FormatInt(offset+int64(pageSize), 10)
	}

	total, err := rm.count(ctx, builder)
	if err != nil {
		return nil, err
	}

	return &contracts.ListResult{
		Rules:         rules,
		NextPageToken: nextPageToken,
		TotalCount:    total,
	}, nil
}

// count runs the COUNT(*) variant of the list query.
func (rm *ReadModelImpl) count(ctx context.Context, builder *query.Builder) (int64, error) {
	iter := rm.client.Single().Query(ctx, builder.Count().Build())
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count country rules: %w", err)
	}

	var total int64
	if err := row.Column(0, &total); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return total, nil
}

// dataToDTO maps a database row onto the query DTO.
func dataToDTO(data *m_country_rule.Data) *contracts.CountryRuleDTO {
	dto := &contracts.CountryRuleDTO{
		CountryCode:    data.CountryCode,
		Currency:       data.Currency,
		CurrencySymbol: data.CurrencySymbol,
		DefaultMarkup:  data.DefaultMarkup,
		MarkupType:     data.MarkupType,
		Tier:           data.Tier,
		Region:         data.Region,
		IsActive:       data.IsActive,
		UpdatedAt:      data.UpdatedAt,
	}

	if data.ConversionMargin.Valid {
		margin := data.ConversionMargin.Float64
		dto.ConversionMargin = &margin
	}
	if data.SeasonalAdjustment.Valid {
		adjustment := data.SeasonalAdjustment.Float64
		dto.SeasonalAdjustment = &adjustment
	}

	return dto
}

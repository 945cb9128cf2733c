package http

import (
	"time"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// breakdownRequest is the wire shape for POST /api/v1/pricing/breakdown.
type breakdownRequest struct {
	Description      string   `json:"description"`
	ServiceType      string   `json:"serviceType"`
	CountryCode      string   `json:"countryCode"`
	SupplierCost     float64  `json:"supplierCost"`
	SupplierCurrency string   `json:"supplierCurrency"`
	ServiceDate      string   `json:"serviceDate,omitempty"`
	AdultPrice       *float64 `json:"adultPrice,omitempty"`
	ChildPrice       *float64 `json:"childPrice,omitempty"`
	InfantPrice      *float64 `json:"infantPrice,omitempty"`

	Party *partyRequest `json:"party,omitempty"`

	TaxInclusive   bool   `json:"taxInclusive"`
	EqualCostMode  *bool  `json:"equalCostMode,omitempty"`
	TargetCurrency string `json:"targetCurrency,omitempty"`
}

type partyRequest struct {
	Adults                int     `json:"adults"`
	Children              int     `json:"children"`
	Infants               int     `json:"infants"`
	ChildDiscountPercent  float64 `json:"childDiscountPercent"`
	InfantDiscountPercent float64 `json:"infantDiscountPercent"`
}

func (r *breakdownRequest) toDomain() (*domain.LineItem, *domain.PartyComposition, *domain.BreakdownOptions, error) {
	cost, err := domain.NewMoneyFromFloat(r.SupplierCost)
	if err != nil {
		return nil, nil, nil, err
	}

	item := &domain.LineItem{
		Description:      r.Description,
		ServiceType:      r.ServiceType,
		CountryCode:      r.CountryCode,
		SupplierCost:     cost,
		SupplierCurrency: r.SupplierCurrency,
	}

	if r.ServiceDate != "" {
		d, err := time.Parse(time.RFC3339, r.ServiceDate)
		if err != nil {
			// Date-only inputs are common from the admin tooling.
			d, err = time.Parse("2006-01-02", r.ServiceDate)
			if err != nil {
				return nil, nil, nil, domain.ErrInvalidLineItem
			}
		}
		item.ServiceDate = d
	}

	if item.AdultPrice, err = optionalMoney(r.AdultPrice); err != nil {
		return nil, nil, nil, err
	}
	if item.ChildPrice, err = optionalMoney(r.ChildPrice); err != nil {
		return nil, nil, nil, err
	}
	if item.InfantPrice, err = optionalMoney(r.InfantPrice); err != nil {
		return nil, nil, nil, err
	}

	var party *domain.PartyComposition
	if r.Party != nil {
		party = &domain.PartyComposition{
			Adults:                r.Party.Adults,
			Children:              r.Party.Children,
			Infants:               r.Party.Infants,
			ChildDiscountPercent:  r.Party.ChildDiscountPercent,
			InfantDiscountPercent: r.Party.InfantDiscountPercent,
		}
	}

	opts := &domain.BreakdownOptions{
		TaxInclusive:   r.TaxInclusive,
		EqualCostMode:  true,
		TargetCurrency: r.TargetCurrency,
	}
	if r.EqualCostMode != nil {
		opts.EqualCostMode = *r.EqualCostMode
	}

	return item, party, opts, nil
}

func optionalMoney(v *float64) (*domain.Money, error) {
	if v == nil {
		return nil, nil
	}
	return domain.NewMoneyFromFloat(*v)
}

// breakdownResponse exposes every intermediate figure of a quote. Amounts are
// decimal strings so the wire format never loses cents to float encoding.
type breakdownResponse struct {
	Description string `json:"description,omitempty"`
	CountryCode string `json:"countryCode"`
	ServiceType string `json:"serviceType,omitempty"`

	BaseAmount       string `json:"baseAmount"`
	SupplierCurrency string `json:"supplierCurrency"`

	Markup         *markupResponse `json:"markup"`
	MarkupAmount   string          `json:"markupAmount"`
	MarkedUpAmount string          `json:"markedUpAmount"`

	Conversion      *conversionResponse `json:"conversion"`
	ConvertedAmount string              `json:"convertedAmount"`
	Currency        string              `json:"currency"`

	Tax       *taxResponse `json:"tax"`
	TaxAmount string       `json:"taxAmount"`
	TDSAmount string       `json:"tdsAmount"`

	FinalTotal string             `json:"finalTotal"`
	PerPerson  *perPersonResponse `json:"perPerson,omitempty"`
}

type markupResponse struct {
	Percentage  float64 `json:"percentage"`
	FixedAmount string  `json:"fixedAmount,omitempty"`
	Type        string  `json:"type"`
	RuleID      string  `json:"ruleId"`
	Source      string  `json:"source"`
}

type conversionResponse struct {
	FromCurrency  string  `json:"fromCurrency"`
	ToCurrency    string  `json:"toCurrency"`
	Rate          string  `json:"rate"`
	EffectiveRate string  `json:"effectiveRate"`
	MarginApplied float64 `json:"marginApplied"`
	UsedFallback  bool    `json:"usedFallback"`
}

type taxResponse struct {
	BaseAmount  string              `json:"baseAmount"`
	TaxAmount   string              `json:"taxAmount"`
	TDSAmount   string              `json:"tdsAmount"`
	TotalAmount string              `json:"totalAmount"`
	RateApplied float64             `json:"rateApplied"`
	Exempt      bool                `json:"exempt"`
	Breakdown   []taxItemResponse   `json:"breakdown,omitempty"`
}

type taxItemResponse struct {
	Type        string  `json:"type"`
	Rate        float64 `json:"rate"`
	Amount      string  `json:"amount"`
	Description string  `json:"description,omitempty"`
}

type perPersonResponse struct {
	Adult    string `json:"adult"`
	Child    string `json:"child,omitempty"`
	Infant   string `json:"infant,omitempty"`
	Currency string `json:"currency"`
}

func breakdownToResponse(b *domain.PricingBreakdown) *breakdownResponse {
	decimals := domain.MinorUnits(b.Currency)

	resp := &breakdownResponse{
		Description:      b.Description,
		CountryCode:      b.CountryCode,
		ServiceType:      b.ServiceType,
		BaseAmount:       b.BaseAmount.StringWithDecimals(domain.MinorUnits(b.SupplierCurrency)),
		SupplierCurrency: b.SupplierCurrency,
		MarkupAmount:     b.MarkupAmount.StringWithDecimals(domain.MinorUnits(b.SupplierCurrency)),
		MarkedUpAmount:   b.MarkedUpAmount.StringWithDecimals(domain.MinorUnits(b.SupplierCurrency)),
		ConvertedAmount:  b.ConvertedAmount.StringWithDecimals(decimals),
		Currency:         b.Currency,
		TaxAmount:        b.TaxAmount.StringWithDecimals(decimals),
		TDSAmount:        b.TDSAmount.StringWithDecimals(decimals),
		FinalTotal:       b.FinalTotal.StringWithDecimals(decimals),
	}

	if b.Markup != nil {
		resp.Markup = &markupResponse{
			Percentage: b.Markup.Percentage,
			Type:       string(b.Markup.Type),
			RuleID:     b.Markup.RuleID,
			Source:     string(b.Markup.Source),
		}
		if b.Markup.FixedAmount != nil {
			resp.Markup.FixedAmount = b.Markup.FixedAmount.String()
		}
	}

	if b.Conversion != nil {
		resp.Conversion = &conversionResponse{
			FromCurrency:  b.Conversion.FromCurrency,
			ToCurrency:    b.Conversion.ToCurrency,
			Rate:          b.Conversion.Rate.FloatString(6),
			EffectiveRate: b.Conversion.EffectiveRate.FloatString(6),
			MarginApplied: b.Conversion.MarginApplied,
			UsedFallback:  b.Conversion.UsedFallback,
		}
	}

	if b.Tax != nil {
		tax := &taxResponse{
			BaseAmount:  b.Tax.BaseAmount.StringWithDecimals(decimals),
			TaxAmount:   b.Tax.TaxAmount.StringWithDecimals(decimals),
			TDSAmount:   b.Tax.TDSAmount.StringWithDecimals(decimals),
			TotalAmount: b.Tax.TotalAmount.StringWithDecimals(decimals),
			RateApplied: b.Tax.RateApplied,
			Exempt:      b.Tax.Exempt,
		}
		for _, it := range b.Tax.Breakdown {
			tax.Breakdown = append(tax.Breakdown, taxItemResponse{
				Type:        it.Type,
				Rate:        it.Rate,
				Amount:      it.Amount.StringWithDecimals(decimals),
				Description: it.Description,
			})
		}
		resp.Tax = tax
	}

	if b.PerPerson != nil {
		pp := &perPersonResponse{
			Adult:    b.PerPerson.Adult.StringWithDecimals(decimals),
			Currency: b.PerPerson.Currency,
		}
		if b.PerPerson.Child != nil {
			pp.Child = b.PerPerson.Child.StringWithDecimals(decimals)
		}
		if b.PerPerson.Infant != nil {
			pp.Infant = b.PerPerson.Infant.StringWithDecimals(decimals)
		}
		resp.PerPerson = pp
	}

	return resp
}

// bulkRequest is the wire shape for POST /api/v1/pricing/bulk.
type bulkRequest struct {
	Operation       string   `json:"operation"`
	TargetCountries []string `json:"targetCountries"`
	SourceCountry   string   `json:"sourceCountry,omitempty"`
	AdjustmentValue float64  `json:"adjustmentValue"`
	AdjustmentType  string   `json:"adjustmentType,omitempty"`
	MarkupType      string   `json:"markupType,omitempty"`
	ChangedBy       string   `json:"changedBy,omitempty"`
}

func (r *bulkRequest) toDomain() *domain.BulkPricingOperation {
	return &domain.BulkPricingOperation{
		Operation:       domain.BulkOperationType(r.Operation),
		TargetCountries: r.TargetCountries,
		SourceCountry:   r.SourceCountry,
		AdjustmentValue: r.AdjustmentValue,
		AdjustmentType:  domain.AdjustmentType(r.AdjustmentType),
		MarkupType:      domain.MarkupType(r.MarkupType),
	}
}

type bulkResponse struct {
	Updated []bulkUpdateResponse `json:"updated"`
	Errors  []bulkErrorResponse  `json:"errors"`
}

type bulkUpdateResponse struct {
	CountryCode    string  `json:"countryCode"`
	PreviousMarkup float64 `json:"previousMarkup"`
	NewMarkup      float64 `json:"newMarkup"`
	MarkupType     string  `json:"markupType"`
}

type bulkErrorResponse struct {
	CountryCode string `json:"countryCode"`
	Error       string `json:"error"`
}

func bulkToResponse(res *domain.BulkResult) *bulkResponse {
	resp := &bulkResponse{
		Updated: make([]bulkUpdateResponse, 0, len(res.Updated)),
		Errors:  make([]bulkErrorResponse, 0, len(res.Errors)),
	}
	for _, u := range res.Updated {
		resp.Updated = append(resp.Updated, bulkUpdateResponse{
			CountryCode:    u.CountryCode,
			PreviousMarkup: u.PreviousMarkup,
			NewMarkup:      u.NewMarkup,
			MarkupType:     string(u.MarkupType),
		})
	}
	for _, e := range res.Errors {
		resp.Errors = append(resp.Errors, bulkErrorResponse{
			CountryCode: e.CountryCode,
			Error:       e.Err.Error(),
		})
	}
	return resp
}

type countryRuleResponse struct {
	CountryCode        string   `json:"countryCode"`
	Currency           string   `json:"currency"`
	CurrencySymbol     string   `json:"currencySymbol,omitempty"`
	DefaultMarkup      float64  `json:"defaultMarkup"`
	MarkupType         string   `json:"markupType"`
	Tier               string   `json:"tier,omitempty"`
	Region             string   `json:"region,omitempty"`
	ConversionMargin   *float64 `json:"conversionMargin,omitempty"`
	SeasonalAdjustment *float64 `json:"seasonalAdjustment,omitempty"`
	IsActive           bool     `json:"isActive"`
	UpdatedAt          string   `json:"updatedAt"`
}

func ruleToResponse(dto *contracts.CountryRuleDTO) *countryRuleResponse {
	return &countryRuleResponse{
		CountryCode:        dto.CountryCode,
		Currency:           dto.Currency,
		CurrencySymbol:     dto.CurrencySymbol,
		DefaultMarkup:      dto.DefaultMarkup,
		MarkupType:         dto.MarkupType,
		Tier:               dto.Tier,
		Region:             dto.Region,
		ConversionMargin:   dto.ConversionMargin,
		SeasonalAdjustment: dto.SeasonalAdjustment,
		IsActive:           dto.IsActive,
		UpdatedAt:          dto.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type listRulesResponse struct {
	Rules         []*countryRuleResponse `json:"rules"`
	NextPageToken string                 `json:"nextPageToken,omitempty"`
	TotalCount    int64                  `json:"totalCount"`
}

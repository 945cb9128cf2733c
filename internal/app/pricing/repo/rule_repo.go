package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/voyantra/pricing-engine/internal/app/pricing/contracts"
	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
	"github.com/voyantra/pricing-engine/internal/models/m_conversion_settings"
	"github.com/voyantra/pricing-engine/internal/models/m_country_rule"
	"github.com/voyantra/pricing-engine/internal/models/m_markup_rule"
	"github.com/voyantra/pricing-engine/internal/models/m_regional_template"
	"github.com/voyantra/pricing-engine/internal/models/m_tax_config"
	"github.com/voyantra/pricing-engine/internal/pkg/query"
)

// RuleRepo implements RuleStore and RuleWriter for Spanner.
//
// Missing records read as (nil, nil): a missing cascade layer is a normal
// condition the resolver handles, not a storage failure. Nothing read here is
// cached; every computation sees the latest configuration.
type RuleRepo struct {
	client        *spanner.Client
	countryModel  *m_country_rule.Model
	markupModel   *m_markup_rule.Model
	templateModel *m_regional_template.Model
	taxModel      *m_tax_config.Model
	settingsModel *m_conversion_settings.Model
}

// NewRuleRepo creates a new RuleRepo.
func NewRuleRepo(client *spanner.Client) *RuleRepo {
	return &RuleRepo{
		client:        client,
		countryModel:  m_country_rule.NewModel(),
		markupModel:   m_markup_rule.NewModel(),
		templateModel: m_regional_template.NewModel(),
		taxModel:      m_tax_config.NewModel(),
		settingsModel: m_conversion_settings.NewModel(),
	}
}

var _ contracts.RuleStore = (*RuleRepo)(nil)
var _ contracts.RuleWriter = (*RuleRepo)(nil)

// GetCountryRule retrieves the country pricing rule for a country code.
func (r *RuleRepo) GetCountryRule(ctx context.Context, countryCode string) (*domain.CountryPricingRule, error) {
	row, err := r.client.Single().ReadRow(ctx, m_country_rule.TableName, spanner.Key{countryCode}, r.countryModel.ReadColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read country rule: %w", err)
	}

	var data m_country_rule.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse country rule: %w", err)
	}

	return countryDataToDomain(&data), nil
}

// GetEnhancedMarkupRule retrieves the active enhanced markup rule for a
// country, or nil when none is active.
func (r *RuleRepo) GetEnhancedMarkupRule(ctx context.Context, countryCode string) (*domain.EnhancedMarkupRule, error) {
	stmt := query.From(m_markup_rule.TableName).
		Select(r.markupModel.ReadColumns()...).
		Where(query.Eq(m_markup_rule.CountryCode, countryCode)).
		Where(query.Eq(m_markup_rule.IsActive, true)).
		OrderBy(m_markup_rule.UpdatedAt, query.Desc).
		Limit(1).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query enhanced markup rule: %w", err)
	}

	var data m_markup_rule.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse enhanced markup rule: %w", err)
	}

	return markupDataToDomain(&data)
}

// GetRegionalTemplate retrieves the regional template listing the country,
// or nil when no template covers it.
func (r *RuleRepo) GetRegionalTemplate(ctx context.Context, countryCode string) (*domain.RegionalPricingTemplate, error) {
	stmt := spanner.Statement{
		SQL: "SELECT template_id, region, countries, default_markup, markup_type, created_at, updated_at " +
			"FROM regional_pricing_templates WHERE @code IN UNNEST(countries) LIMIT 1",
		Params: map[string]interface{}{"code": countryCode},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query regional template: %w", err)
	}

	var data m_regional_template.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse regional template: %w", err)
	}

	return &domain.RegionalPricingTemplate{
		TemplateID:    data.TemplateID,
		Region:        data.Region,
		Countries:     data.Countries,
		DefaultMarkup: data.DefaultMarkup,
		MarkupType:    domain.MarkupType(data.MarkupType),
	}, nil
}

// GetTaxConfiguration retrieves the tax configuration for a country,
// or nil when the country has none.
func (r *RuleRepo) GetTaxConfiguration(ctx context.Context, countryCode string) (*domain.TaxConfiguration, error) {
	row, err := r.client.Single().ReadRow(ctx, m_tax_config.TableName, spanner.Key{countryCode}, r.taxModel.ReadColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tax configuration: %w", err)
	}

	var data m_tax_config.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse tax configuration: %w", err)
	}

	return taxDataToDomain(&data)
}

// GetConversionSettings retrieves the process-wide conversion settings,
// or nil when the singleton row has not been seeded.
func (r *RuleRepo) GetConversionSettings(ctx context.Context) (*domain.ConversionSettings, error) {
	row, err := r.client.Single().ReadRow(ctx, m_conversion_settings.TableName, spanner.Key{m_conversion_settings.SingletonID}, r.settingsModel.ReadColumns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read conversion settings: %w", err)
	}

	var data m_conversion_settings.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse conversion settings: %w", err)
	}

	settings := &domain.ConversionSettings{
		BaseCurrency:    data.BaseCurrency,
		AutoUpdateRates: data.AutoUpdateRates,
		UpdateFrequency: data.UpdateFrequency,
	}
	if err := decodeJSONColumn(data.FallbackRates, &settings.FallbackRates); err != nil {
		return nil, fmt.Errorf("failed to decode fallback rates: %w", err)
	}
	if err := decodeJSONColumn(data.ConversionMargins, &settings.ConversionMargins); err != nil {
		return nil, fmt.Errorf("failed to decode conversion margins: %w", err)
	}

	return settings, nil
}

// GetCountryRules reads the rules for a set of countries in one query.
// Countries without a rule are simply absent from the result map.
func (r *RuleRepo) GetCountryRules(ctx context.Context, countryCodes []string) (map[string]*domain.CountryPricingRule, error) {
	stmt := query.From(m_country_rule.TableName).
		Select(r.countryModel.ReadColumns()...).
		Where(query.In(m_country_rule.CountryCode, countryCodes)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	rules := make(map[string]*domain.CountryPricingRule, len(countryCodes))
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query country rules: %w", err)
		}

		var data m_country_rule.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse country rule: %w", err)
		}
		rules[data.CountryCode] = countryDataToDomain(&data)
	}

	return rules, nil
}

// UpsertCountryRuleMut creates a mutation writing the full rule.
func (r *RuleRepo) UpsertCountryRuleMut(rule *domain.CountryPricingRule) (*spanner.Mutation, error) {
	return r.countryModel.UpsertMut(countryDomainToData(rule)), nil
}

// UpsertEnhancedRuleMut creates a mutation writing a full enhanced markup rule.
func (r *RuleRepo) UpsertEnhancedRuleMut(rule *domain.EnhancedMarkupRule) (*spanner.Mutation, error) {
	return r.markupModel.UpsertMut(markupDomainToData(rule)), nil
}

// UpdateCountryRuleMut creates a mutation for only the rule's dirty fields.
func (r *RuleRepo) UpdateCountryRuleMut(rule *domain.CountryPricingRule) (*spanner.Mutation, error) {
	changes := rule.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldDefaultMarkup) {
		updates[m_country_rule.DefaultMarkup] = rule.DefaultMarkup
	}
	if changes.Dirty(domain.FieldMarkupType) {
		updates[m_country_rule.MarkupType] = string(rule.MarkupType)
	}
	if changes.Dirty(domain.FieldTier) {
		updates[m_country_rule.Tier] = string(rule.Tier)
	}
	if changes.Dirty(domain.FieldSeasonal) {
		if s := rule.Seasonal; s != nil {
			updates[m_country_rule.SeasonalAdjustment] = spanner.NullFloat64{Float64: s.Adjustment, Valid: true}
			updates[m_country_rule.SeasonalStartDate] = spanner.NullTime{Time: s.StartDate, Valid: true}
			updates[m_country_rule.SeasonalEndDate] = spanner.NullTime{Time: s.EndDate, Valid: true}
		} else {
			updates[m_country_rule.SeasonalAdjustment] = spanner.NullFloat64{}
			updates[m_country_rule.SeasonalStartDate] = spanner.NullTime{}
			updates[m_country_rule.SeasonalEndDate] = spanner.NullTime{}
		}
	}
	if changes.Dirty(domain.FieldIsActive) {
		updates[m_country_rule.IsActive] = rule.IsActive
	}

	if len(updates) == 0 {
		return nil, nil
	}

	return r.countryModel.UpdateMut(rule.CountryCode, updates), nil
}

// countryDataToDomain reconstructs a domain rule from a database row.
func countryDataToDomain(data *m_country_rule.Data) *domain.CountryPricingRule {
	rule := &domain.CountryPricingRule{
		CountryCode:    data.CountryCode,
		Currency:       data.Currency,
		CurrencySymbol: data.CurrencySymbol,
		DefaultMarkup:  data.DefaultMarkup,
		MarkupType:     domain.MarkupType(data.MarkupType),
		Tier:           domain.PricingTier(data.Tier),
		Region:         data.Region,
		IsActive:       data.IsActive,
	}

	if data.ConversionMargin.Valid {
		margin := data.ConversionMargin.Float64
		rule.ConversionMargin = &margin
	}
	if data.PricingCurrencyOverride.Valid {
		rule.PricingCurrencyOverride = data.PricingCurrencyOverride.StringVal
	}
	rule.Seasonal = seasonalFromColumns(data.SeasonalAdjustment, data.SeasonalStartDate, data.SeasonalEndDate)

	return rule
}

// countryDomainToData maps a domain rule onto a database row.
func countryDomainToData(rule *domain.CountryPricingRule) *m_country_rule.Data {
	data := &m_country_rule.Data{
		CountryCode:    rule.CountryCode,
		Currency:       rule.Currency,
		CurrencySymbol: rule.CurrencySymbol,
		DefaultMarkup:  rule.DefaultMarkup,
		MarkupType:     string(rule.MarkupType),
		Tier:           string(rule.Tier),
		Region:         rule.Region,
		IsActive:       rule.IsActive,
	}

	if rule.ConversionMargin != nil {
		data.ConversionMargin = spanner.NullFloat64{Float64: *rule.ConversionMargin, Valid: true}
	}
	if rule.PricingCurrencyOverride != "" {
		data.PricingCurrencyOverride = spanner.NullString{StringVal: rule.PricingCurrencyOverride, Valid: true}
	}
	if s := rule.Seasonal; s != nil {
		data.SeasonalAdjustment = spanner.NullFloat64{Float64: s.Adjustment, Valid: true}
		data.SeasonalStartDate = spanner.NullTime{Time: s.StartDate, Valid: true}
		data.SeasonalEndDate = spanner.NullTime{Time: s.EndDate, Valid: true}
	}

	return data
}

// markupDataToDomain reconstructs an enhanced markup rule from a database row.
func markupDataToDomain(data *m_markup_rule.Data) (*domain.EnhancedMarkupRule, error) {
	rule := &domain.EnhancedMarkupRule{
		RuleID:               data.RuleID,
		CountryCode:          data.CountryCode,
		BaseMarkupPercentage: data.BaseMarkupPercentage,
		SlabMarkupEnabled:    data.SlabMarkupEnabled,
		TierMultiplier:       data.TierMultiplier,
		IsActive:             data.IsActive,
	}

	if err := decodeJSONColumn(data.SlabRules, &rule.SlabRules); err != nil {
		return nil, fmt.Errorf("failed to decode slab rules: %w", err)
	}

	if data.MinimumMarkup.Valid {
		minimum := data.MinimumMarkup.Float64
		rule.MinimumMarkup = &minimum
	}
	if data.MaximumMarkup.Valid {
		maximum := data.MaximumMarkup.Float64
		rule.MaximumMarkup = &maximum
	}
	rule.Seasonal = seasonalFromColumns(data.SeasonalAdjustment, data.SeasonalStartDate, data.SeasonalEndDate)

	return rule, nil
}

// markupDomainToData maps an enhanced markup rule onto a database row.
func markupDomainToData(rule *domain.EnhancedMarkupRule) *m_markup_rule.Data {
	data := &m_markup_rule.Data{
		RuleID:               rule.RuleID,
		CountryCode:          rule.CountryCode,
		BaseMarkupPercentage: rule.BaseMarkupPercentage,
		SlabMarkupEnabled:    rule.SlabMarkupEnabled,
		TierMultiplier:       rule.TierMultiplier,
		IsActive:             rule.IsActive,
	}

	if len(rule.SlabRules) > 0 {
		data.SlabRules = spanner.NullJSON{Value: rule.SlabRules, Valid: true}
	}
	if rule.MinimumMarkup != nil {
		data.MinimumMarkup = spanner.NullFloat64{Float64: *rule.MinimumMarkup, Valid: true}
	}
	if rule.MaximumMarkup != nil {
		data.MaximumMarkup = spanner.NullFloat64{Float64: *rule.MaximumMarkup, Valid: true}
	}
	if s := rule.Seasonal; s != nil {
		data.SeasonalAdjustment = spanner.NullFloat64{Float64: s.Adjustment, Valid: true}
		data.SeasonalStartDate = spanner.NullTime{Time: s.StartDate, Valid: true}
		data.SeasonalEndDate = spanner.NullTime{Time: s.EndDate, Valid: true}
	}

	return data
}

// taxDataToDomain reconstructs a tax configuration from a database row.
func taxDataToDomain(data *m_tax_config.Data) (*domain.TaxConfiguration, error) {
	cfg := &domain.TaxConfiguration{
		CountryCode: data.CountryCode,
		TaxType:     domain.TaxType(data.TaxType),
	}

	if err := decodeJSONColumn(data.TaxRates, &cfg.TaxRates); err != nil {
		return nil, fmt.Errorf("failed to decode tax rates: %w", err)
	}
	if err := decodeJSONColumn(data.Exemptions, &cfg.Exemptions); err != nil {
		return nil, fmt.Errorf("failed to decode exemptions: %w", err)
	}
	if data.TDSConfig.Valid {
		var tds domain.TDSConfiguration
		if err := decodeJSONColumn(data.TDSConfig, &tds); err != nil {
			return nil, fmt.Errorf("failed to decode TDS configuration: %w", err)
		}
		cfg.TDS = &tds
	}

	return cfg, nil
}

// seasonalFromColumns assembles a seasonal adjustment when all three columns
// are present.
func seasonalFromColumns(adjustment spanner.NullFloat64, start, end spanner.NullTime) *domain.SeasonalAdjustment {
	if !adjustment.Valid || !start.Valid || !end.Valid {
		return nil
	}
	return &domain.SeasonalAdjustment{
		Adjustment: adjustment.Float64,
		StartDate:  start.Time,
		EndDate:    end.Time,
	}
}

// decodeJSONColumn unmarshals a NullJSON column into the target. The Spanner
// client hands JSON values back as decoded interface{} trees, so the value is
// round-tripped through encoding/json to reach typed structs.
func decodeJSONColumn(col spanner.NullJSON, target interface{}) error {
	if !col.Valid || col.Value == nil {
		return nil
	}
	raw, err := json.Marshal(col.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

package domain

// ServiceTypeAll matches any service type in tax rates and exemptions.
const ServiceTypeAll = "all"

// TaxType identifies the tax regime of a country.
type TaxType string

const (
	TaxGST      TaxType = "GST"
	TaxVAT      TaxType = "VAT"
	TaxSalesTax TaxType = "SALES_TAX"
	TaxNone     TaxType = "NONE"
)

// TaxRate is one rate entry inside a country's tax configuration.
// Rate is expressed in percent (7 means 7%).
type TaxRate struct {
	ServiceType string
	Rate        float64
	IsDefault   bool
	Description string
}

// TaxExemption zeroes the tax for a matching service type while active.
type TaxExemption struct {
	ServiceType string
	Reason      string
	IsActive    bool
}

// TDSConfiguration describes the withholding (Tax Deducted at Source) regime.
// TDS is a payout-side withholding, not a customer price component.
type TDSConfiguration struct {
	IsApplicable   bool
	Rate           float64
	Threshold      float64
	ExemptionLimit float64
}

// TaxConfiguration is the per-country tax regime record.
type TaxConfiguration struct {
	CountryCode string
	TaxType     TaxType
	TaxRates    []TaxRate
	TDS         *TDSConfiguration
	Exemptions  []TaxExemption
}

// RateFor resolves the applicable rate for a service type: an exact
// service-type match wins, then the entry flagged as default, then the "all"
// entry. Input ordering is not trusted; each pass scans the full list.
func (c *TaxConfiguration) RateFor(serviceType string) (*TaxRate, error) {
	for i := range c.TaxRates {
		if c.TaxRates[i].ServiceType == serviceType {
			return &c.TaxRates[i], nil
		}
	}
	for i := range c.TaxRates {
		if c.TaxRates[i].IsDefault {
			return &c.TaxRates[i], nil
		}
	}
	for i := range c.TaxRates {
		if c.TaxRates[i].ServiceType == ServiceTypeAll {
			return &c.TaxRates[i], nil
		}
	}
	return nil, ErrTaxRateNotFound
}

// IsExempt checks whether an active exemption covers the service type.
func (c *TaxConfiguration) IsExempt(serviceType string) bool {
	for _, e := range c.Exemptions {
		if !e.IsActive {
			continue
		}
		if e.ServiceType == serviceType || e.ServiceType == ServiceTypeAll {
			return true
		}
	}
	return false
}

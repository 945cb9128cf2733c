package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voyantra/pricing-engine/internal/app/pricing/domain"
)

// conversionDefaultsFile mirrors the YAML layout of the conversion defaults
// file shipped alongside the service.
type conversionDefaultsFile struct {
	BaseCurrency      string             `yaml:"base_currency"`
	AutoUpdateRates   bool               `yaml:"auto_update_rates"`
	UpdateFrequency   string             `yaml:"update_frequency"`
	FallbackRates     map[string]float64 `yaml:"fallback_rates"`
	ConversionMargins map[string]float64 `yaml:"conversion_margins"`
}

// LoadConversionDefaults reads conversion settings from a YAML file. These
// seed the engine when the rule store has no settings row yet.
func LoadConversionDefaults(path string) (*domain.ConversionSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion defaults %s: %w", path, err)
	}

	var file conversionDefaultsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversion defaults: %w", err)
	}

	if file.BaseCurrency == "" {
		return nil, fmt.Errorf("conversion defaults %s: base_currency is required", path)
	}

	return &domain.ConversionSettings{
		BaseCurrency:      file.BaseCurrency,
		AutoUpdateRates:   file.AutoUpdateRates,
		UpdateFrequency:   file.UpdateFrequency,
		FallbackRates:     file.FallbackRates,
		ConversionMargins: file.ConversionMargins,
	}, nil
}

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/scan-io-git/qgate/internal/findings"
)

// ValidateConfig checks if the global configuration has valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("YAML global config: %w", err)
	}

	if err := validateSeverities(cfg.Rules.Severity); err != nil {
		return fmt.Errorf("YAML global config: rules directive is invalid: %w", err)
	}
	return nil
}

// validateSeverities checks that every severity override names a known level.
func validateSeverities(overrides map[string]string) error {
	for rule, level := range overrides {
		if _, err := findings.ParseSeverity(level); err != nil {
			return fmt.Errorf("severity override for %q: %w", rule, err)
		}
	}
	return nil
}

// SeverityOverrides returns the parsed severity overrides. It assumes ValidateConfig passed.
func (c *Config) SeverityOverrides() map[string]findings.Severity {
	out := make(map[string]findings.Severity, len(c.Rules.Severity))
	for rule, level := range c.Rules.Severity {
		if sev, err := findings.ParseSeverity(level); err == nil {
			out[rule] = sev
		}
	}
	return out
}

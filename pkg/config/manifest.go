// Package config loads YAML adapter manifests declaring which entities and
// actions a domain adapter enables, plus HITL policy overrides, merged
// against built-in defaults. Grounded on the teacher's pkg/config/loader.go
// YAML-plus-mergo pattern.
package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// HITLPolicyConfig overrides hitl.ConfirmByPolicy / ConfirmByThreshold
// construction for one adapter.
type HITLPolicyConfig struct {
	FinancialThresholds map[string]float64  `yaml:"financial_thresholds"`
	RoleExemptions      map[string][]string `yaml:"role_exemptions"`
	LowRiskActions      []string            `yaml:"low_risk_actions"`
	MediumRiskActions   []string            `yaml:"medium_risk_actions"`
	HighRiskActions     []string            `yaml:"high_risk_actions"`
}

// AdapterManifest is one adapter's declared enablement and policy overrides.
type AdapterManifest struct {
	Name            string           `yaml:"name"`
	EnabledEntities []string         `yaml:"enabled_entities"`
	EnabledActions  []string         `yaml:"enabled_actions"`
	HITLPolicy      HITLPolicyConfig `yaml:"hitl_policy"`
}

// Default returns the built-in default manifest: every entity/action
// enabled, a conservative default financial threshold.
func Default() AdapterManifest {
	return AdapterManifest{
		HITLPolicy: HITLPolicyConfig{
			FinancialThresholds: map[string]float64{"amount": 1000, "adjustment_amount": 500},
		},
	}
}

// Load reads path as YAML and merges it over Default(), matching the
// teacher's loader behavior of letting an adapter override only the fields
// it cares about.
func Load(path string) (*AdapterManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	defaults := Default()
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("config: merging defaults for %s: %w", path, err)
	}

	return &cfg, nil
}

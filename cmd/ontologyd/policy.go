package main

import (
	"github.com/aipms-go/ontology/pkg/config"
	"github.com/aipms-go/ontology/pkg/hitl"
)

// buildHITLStrategy turns a loaded AdapterManifest's HITL policy section into
// the composed hitl.Strategy the /hitl/check route evaluates, combining a risk-bucket
// policy (low/medium/high action sets) with a financial-threshold check —
// mirroring the two strategy kinds spec.md §4.7 names explicitly.
func buildHITLStrategy(cfg config.HITLPolicyConfig) hitl.Strategy {
	return hitl.Composite{Children: []hitl.Strategy{
		hitl.ConfirmByPolicy{
			LowRiskActions:    toSet(cfg.LowRiskActions),
			MediumRiskActions: toSet(cfg.MediumRiskActions),
			HighRiskActions:   toSet(cfg.HighRiskActions),
			LowRiskPolicy:     hitl.BucketPolicy{Confirm: false},
			MediumRiskPolicy:  hitl.BucketPolicy{Confirm: true},
			HighRiskPolicy:    hitl.BucketPolicy{Confirm: true, RequireReason: true},
			RoleExemptions:    toRoleSets(cfg.RoleExemptions),
		},
		hitl.ConfirmByThreshold{
			Thresholds: cfg.FinancialThresholds,
			Default:    cfg.FinancialThresholds["amount"],
		},
	}}
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

func toRoleSets(roleActions map[string][]string) map[string]map[string]struct{} {
	if len(roleActions) == 0 {
		return nil
	}
	out := make(map[string]map[string]struct{}, len(roleActions))
	for role, actions := range roleActions {
		out[role] = toSet(actions)
	}
	return out
}

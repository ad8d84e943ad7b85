// Package hitl implements the HITL Strategy Stack (C7): composable
// confirmation-requirement strategies plus the stateless continuation-
// descriptor store for follow-up turns, per spec §4.7 and §9. The
// Strategy interface and Composite combinator are shaped after
// itsneelabh-gomind's orchestration/hitl_policy.go RuleBasedPolicy.
package hitl

import "github.com/aipms-go/ontology/pkg/ontology"

// Request is everything a Strategy needs to decide whether an action
// invocation requires human confirmation. All domain knowledge (which
// actions are financial, high-risk, etc.) arrives here via registry
// metadata the caller already resolved — never hard-coded in a strategy.
type Request struct {
	Entity      string                 `json:"entity"`
	Action      string                 `json:"action"`
	Params      map[string]interface{} `json:"params"`
	Role        string                 `json:"role"`
	RiskLevel   ontology.RiskLevel     `json:"risk_level"`
	IsFinancial bool                   `json:"is_financial"`
}

// Decision is a Strategy's verdict.
type Decision struct {
	Required bool               `json:"required"`
	Risk     ontology.RiskLevel `json:"risk"`
	Reason   string             `json:"reason,omitempty"`
}

// Strategy answers "does this request require confirmation?"
type Strategy interface {
	RequiresConfirmation(req Request) Decision
}

// ConfirmAlways always requires confirmation at MEDIUM risk.
type ConfirmAlways struct{}

func (ConfirmAlways) RequiresConfirmation(req Request) Decision {
	return Decision{Required: true, Risk: ontology.RiskMedium, Reason: "confirm_always"}
}

var riskOrder = map[ontology.RiskLevel]int{
	ontology.RiskNone:     0,
	ontology.RiskLow:      1,
	ontology.RiskMedium:   2,
	ontology.RiskHigh:     3,
	ontology.RiskCritical: 4,
}

// ConfirmByRisk requires confirmation for MEDIUM risk and above, using the
// registry's risk_level unless Overrides names a different level for the
// action.
type ConfirmByRisk struct {
	Overrides map[string]ontology.RiskLevel
}

func (s ConfirmByRisk) RequiresConfirmation(req Request) Decision {
	risk := req.RiskLevel
	if s.Overrides != nil {
		if r, ok := s.Overrides[req.Action]; ok {
			risk = r
		}
	}
	required := riskOrder[risk] >= riskOrder[ontology.RiskMedium]
	reason := ""
	if required {
		reason = "risk_level_" + string(risk)
	}
	return Decision{Required: required, Risk: risk, Reason: reason}
}

// BucketPolicy configures one risk bucket's confirmation behavior.
type BucketPolicy struct {
	Confirm       bool
	RequireReason bool
}

// ConfirmByPolicy buckets actions into low/medium/high risk sets, each with
// its own confirm/require-reason policy, with optional per-role exemptions.
type ConfirmByPolicy struct {
	LowRiskActions    map[string]struct{}
	MediumRiskActions map[string]struct{}
	HighRiskActions   map[string]struct{}

	LowRiskPolicy    BucketPolicy
	MediumRiskPolicy BucketPolicy
	HighRiskPolicy   BucketPolicy

	// RoleExemptions maps role -> set of action names exempted from
	// confirmation regardless of bucket.
	RoleExemptions map[string]map[string]struct{}
}

func (s ConfirmByPolicy) RequiresConfirmation(req Request) Decision {
	if exempted, ok := s.RoleExemptions[req.Role]; ok {
		if _, skip := exempted[req.Action]; skip {
			return Decision{Required: false, Risk: ontology.RiskNone, Reason: "role_exempt"}
		}
	}

	if _, ok := s.HighRiskActions[req.Action]; ok {
		return Decision{Required: s.HighRiskPolicy.Confirm, Risk: ontology.RiskHigh, Reason: "policy_high_risk"}
	}
	if _, ok := s.MediumRiskActions[req.Action]; ok {
		return Decision{Required: s.MediumRiskPolicy.Confirm, Risk: ontology.RiskMedium, Reason: "policy_medium_risk"}
	}
	if _, ok := s.LowRiskActions[req.Action]; ok {
		return Decision{Required: s.LowRiskPolicy.Confirm, Risk: ontology.RiskLow, Reason: "policy_low_risk"}
	}
	return Decision{Required: false, Risk: ontology.RiskNone}
}

// ConfirmByThreshold triggers confirmation when a financial action's
// amount-shaped parameter exceeds a configured threshold.
type ConfirmByThreshold struct {
	// Thresholds maps a parameter name (amount, adjustment_amount, or a
	// batch-count field) to the value above which confirmation is
	// required.
	Thresholds map[string]float64
	Default    float64
}

func (s ConfirmByThreshold) RequiresConfirmation(req Request) Decision {
	if !req.IsFinancial {
		return Decision{Required: false, Risk: ontology.RiskNone}
	}
	for _, key := range []string{"amount", "adjustment_amount", "batch_count"} {
		v, ok := req.Params[key]
		if !ok {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		threshold := s.Default
		if t, ok := s.Thresholds[key]; ok {
			threshold = t
		}
		if f > threshold {
			return Decision{Required: true, Risk: ontology.RiskHigh, Reason: "threshold_exceeded_" + key}
		}
	}
	return Decision{Required: false, Risk: ontology.RiskNone}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Composite requires confirmation if any child does; its risk is the
// maximum risk reported across children.
type Composite struct {
	Children []Strategy
}

func (s Composite) RequiresConfirmation(req Request) Decision {
	out := Decision{Risk: ontology.RiskNone}
	for _, child := range s.Children {
		d := child.RequiresConfirmation(req)
		if d.Required {
			out.Required = true
			if out.Reason == "" {
				out.Reason = d.Reason
			}
		}
		if riskOrder[d.Risk] > riskOrder[out.Risk] {
			out.Risk = d.Risk
		}
	}
	return out
}

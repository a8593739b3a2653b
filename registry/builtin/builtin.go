// Package builtin bundles a small library of example constraint and rule
// functions, so the policyplan CLI has something non-trivial to plan
// against without requiring callers to write their own registrations
// first. None of these functions are invoked by the planner itself — the
// planner only records their names; evaluating them is the evaluator's
// job, out of scope for this module (SPEC_FULL.md §1).
package builtin

import (
	"strings"

	"github.com/odrlplan/policyplan/model"
	"github.com/odrlplan/policyplan/registry"
)

// spatialRegionFunction resolves the "spatial.region" left operand for
// every rule kind (it is registered with AnyRule).
type spatialRegionFunction struct{}

func (spatialRegionFunction) Name() string { return "spatialRegion" }

// mediaFormatFunction resolves the "media.format" left operand.
type mediaFormatFunction struct{}

func (mediaFormatFunction) Name() string { return "mediaFormat" }

// paymentTierFunction resolves the "payment.tier" left operand for Duty
// rules only (it is registered with a specific Target, not AnyRule).
type paymentTierFunction struct{}

func (paymentTierFunction) Name() string { return "paymentTier" }

// countPrefixFunction is a dynamic handler: it claims any key under the
// "count." namespace rather than being bound to one exact key.
type countPrefixFunction struct{}

func (countPrefixFunction) Name() string { return "countThreshold" }
func (countPrefixFunction) CanHandle(key string) bool {
	return strings.HasPrefix(key, "count.")
}

// auditRuleFunction runs once per Permission or Prohibition rule,
// independent of its constraints.
type auditRuleFunction struct{}

func (auditRuleFunction) Name() string { return "auditRule" }

// Register wires the bundled example functions into reg, matching the
// left-operand keys used throughout this module's example policies and
// tests: "spatial.region", "media.format", "payment.tier", and any
// "count.*" key.
func Register(reg *registry.FunctionRegistry) {
	reg.RegisterStatic("spatial.region", registry.AnyRule(), spatialRegionFunction{})
	reg.RegisterStatic("media.format", registry.AnyRule(), mediaFormatFunction{})
	reg.RegisterStatic("payment.tier", registry.ForKind(model.RuleDuty), paymentTierFunction{})
	reg.RegisterDynamic(registry.AnyRule(), countPrefixFunction{})
	reg.RegisterRule(registry.ForKind(model.RulePermission), auditRuleFunction{})
	reg.RegisterRule(registry.ForKind(model.RuleProhibition), auditRuleFunction{})
}

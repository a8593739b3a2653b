package plan

import (
	"time"

	"github.com/odrlplan/policyplan/model"
	"github.com/odrlplan/policyplan/registry"
)

// ValidatorStep wraps a PolicyValidatorFunction reference; the planner
// never executes it, it only records that it would run before or after
// the rule walk.
type ValidatorStep struct {
	Function registry.PolicyValidatorFunction
}

// RuleFunctionStep wraps a RulePolicyFunction that would fire once for the
// given rule, independent of any single constraint.
type RuleFunctionStep struct {
	Function registry.RulePolicyFunction
	Rule     model.Rule
}

// ConstraintStep is the tagged sum mirroring model.Constraint: exactly one
// leaf variant (AtomicConstraintStep) and three multiplicity variants.
type ConstraintStep interface {
	isConstraintStep()
}

// AtomicConstraintStep is the plan's record of a leaf constraint: which
// function (if any) would resolve it, and why it was filtered if not
// fully bound.
type AtomicConstraintStep struct {
	Constraint model.AtomicConstraint
	Rule       model.Rule
	// FunctionName is nil when no function resolved for this constraint's
	// left operand under the enclosing rule's kind. Rendering — never this
	// package — is responsible for displaying the "unbound" sentinel.
	FunctionName *string
	// Reasons explains why FunctionName is nil, why the left operand is
	// out of scope, or both; it is empty iff the constraint is fully
	// bound and in scope.
	Reasons []string
}

func (AtomicConstraintStep) isConstraintStep() {}

// AndConstraintStep mirrors a model.AndConstraint.
type AndConstraintStep struct {
	Constraint model.AndConstraint
	Children   []ConstraintStep
}

func (AndConstraintStep) isConstraintStep() {}

// OrConstraintStep mirrors a model.OrConstraint.
type OrConstraintStep struct {
	Constraint model.OrConstraint
	Children   []ConstraintStep
}

func (OrConstraintStep) isConstraintStep() {}

// XoneConstraintStep mirrors a model.XoneConstraint.
type XoneConstraintStep struct {
	Constraint model.XoneConstraint
	Children   []ConstraintStep
}

func (XoneConstraintStep) isConstraintStep() {}

// RuleStep carries the fields common to every rule-shaped plan node:
// PermissionStep, ProhibitionStep, and DutyStep all embed it.
type RuleStep struct {
	// Filtered is true iff FilteringReasons is non-empty.
	Filtered bool
	// FilteringReasons explains why the rule was filtered — currently
	// only "action not bound to scope" can populate this, but it is a
	// list because future reasons may stack, as they already do on
	// AtomicConstraintStep.
	FilteringReasons []string
	Rule             model.Rule
	RuleFunctions    []RuleFunctionStep
	Constraints      []ConstraintStep
}

// PermissionStep is the plan's record of a Permission rule, including the
// duties it requires.
type PermissionStep struct {
	RuleStep
	Duties []DutyStep
}

// ProhibitionStep is the plan's record of a Prohibition rule.
type ProhibitionStep struct {
	RuleStep
}

// DutyStep is the plan's record of a Duty rule, whether nested under a
// Permission or standalone as a policy obligation.
type DutyStep struct {
	RuleStep
}

// EvaluationPlan is the read-only root of a plan: three ordered rule-step
// lists (mirroring the source policy's three lists) plus the pre/post
// policy validators, in registration order.
type EvaluationPlan struct {
	Scope          string
	PreValidators  []ValidatorStep
	PostValidators []ValidatorStep
	Permissions    []PermissionStep
	Duties         []DutyStep
	Prohibitions   []ProhibitionStep
	// GeneratedAt is stamped with time.Now() at the start of Plan; tests
	// that compare plans for structural equality exclude this field rather
	// than inject a fake clock for it.
	GeneratedAt time.Time
}

// Package plan implements the policy evaluation planner: a pure,
// single-threaded tree walk over a model.Policy that produces an
// EvaluationPlan describing which registered functions would fire, and
// which rules and constraints would be filtered out, without ever
// running an evaluation.
package plan

import (
	"fmt"
	"time"

	"github.com/odrlplan/policyplan/model"
	"github.com/odrlplan/policyplan/registry"
	"github.com/odrlplan/policyplan/rulevalidation"
)

// Delimiter re-exports rulevalidation.Delimiter for callers that only
// import package plan.
const Delimiter = rulevalidation.Delimiter

// Planner is built once by Builder and is immutable and safe to reuse
// across many Plan calls thereafter, provided its RuleValidator and
// registered functions are themselves safe for concurrent use — Plan
// itself allocates no shared state and keeps no rule-context stack on the
// Planner (SPEC_FULL.md §5, §9): the enclosing rule is threaded as an
// explicit parameter through every visit* call, so the Go call stack is
// the "rule-context stack" and is trivially balanced and never shared.
type Planner struct {
	scope          string
	delimitedScope string
	registry       *registry.FunctionRegistry
	validator      rulevalidation.RuleValidator
	preValidators  []registry.PolicyValidatorFunction
	postValidators []registry.PolicyValidatorFunction
}

// Scope returns the scope this planner was built for.
func (p *Planner) Scope() string { return p.scope }

// Plan walks policy and produces an EvaluationPlan. Traversal order is
// permissions, then obligations, then prohibitions — this is unusual
// (verbatim from the reference implementation, see SPEC_FULL.md §4.3 and
// §9) and must not be "corrected" to permissions/prohibitions/obligations.
//
// Plan returns a *PlannerError if policy is nil; any panic raised by the
// injected RuleValidator or a registered function's Name()/CanHandle()
// propagates untouched, with no partial plan returned.
func (p *Planner) Plan(policy *model.Policy) (*EvaluationPlan, error) {
	if policy == nil {
		return nil, &PlannerError{Code: ErrCodeNilPolicy, Message: "policy must not be nil"}
	}

	out := &EvaluationPlan{
		Scope:       p.scope,
		GeneratedAt: time.Now(),
	}

	for _, v := range p.preValidators {
		out.PreValidators = append(out.PreValidators, ValidatorStep{Function: v})
	}
	for _, v := range p.postValidators {
		out.PostValidators = append(out.PostValidators, ValidatorStep{Function: v})
	}

	for _, permission := range policy.Permissions {
		step, err := p.visitPermission(permission)
		if err != nil {
			return nil, err
		}
		out.Permissions = append(out.Permissions, step)
	}

	for _, obligation := range policy.Obligations {
		step, err := p.visitDuty(obligation)
		if err != nil {
			return nil, err
		}
		out.Duties = append(out.Duties, step)
	}

	for _, prohibition := range policy.Prohibitions {
		step, err := p.visitProhibition(prohibition)
		if err != nil {
			return nil, err
		}
		out.Prohibitions = append(out.Prohibitions, step)
	}

	return out, nil
}

func (p *Planner) visitPermission(permission *model.Permission) (PermissionStep, error) {
	base, err := p.visitRule(permission)
	if err != nil {
		return PermissionStep{}, err
	}
	step := PermissionStep{RuleStep: base}
	for _, duty := range permission.Duties {
		dutyStep, err := p.visitDuty(duty)
		if err != nil {
			return PermissionStep{}, err
		}
		step.Duties = append(step.Duties, dutyStep)
	}
	return step, nil
}

func (p *Planner) visitProhibition(prohibition *model.Prohibition) (ProhibitionStep, error) {
	base, err := p.visitRule(prohibition)
	if err != nil {
		return ProhibitionStep{}, err
	}
	return ProhibitionStep{RuleStep: base}, nil
}

func (p *Planner) visitDuty(duty *model.Duty) (DutyStep, error) {
	base, err := p.visitRule(duty)
	if err != nil {
		return DutyStep{}, err
	}
	return DutyStep{RuleStep: base}, nil
}

// visitRule is the shared skeleton behind visitPermission, visitProhibition,
// and visitDuty (SPEC_FULL.md §4.3): it checks the rule's action against
// the validator, collects matching rule functions, and walks the rule's
// constraints in source order.
func (p *Planner) visitRule(rule model.Rule) (RuleStep, error) {
	step := RuleStep{Rule: rule}

	if action := rule.GetAction(); action != nil && !p.validator.IsBounded(action.Type) {
		step.Filtered = true
		step.FilteringReasons = append(step.FilteringReasons,
			fmt.Sprintf("action '%s' is not bound to scope '%s'", action.Type, p.scope))
	}

	for _, fn := range p.registry.RuleFunctionsFor(rule.Kind()) {
		step.RuleFunctions = append(step.RuleFunctions, RuleFunctionStep{Function: fn, Rule: rule})
	}

	for _, constraint := range rule.GetConstraints() {
		constraintStep, err := p.visitConstraint(rule, constraint)
		if err != nil {
			return RuleStep{}, err
		}
		step.Constraints = append(step.Constraints, constraintStep)
	}

	return step, nil
}

func (p *Planner) visitConstraint(rule model.Rule, constraint model.Constraint) (ConstraintStep, error) {
	switch c := constraint.(type) {
	case model.AtomicConstraint:
		return p.visitAtomicConstraint(rule, c), nil
	case model.AndConstraint:
		children, err := p.visitChildren(rule, c.Children)
		if err != nil {
			return nil, err
		}
		return AndConstraintStep{Constraint: c, Children: children}, nil
	case model.OrConstraint:
		children, err := p.visitChildren(rule, c.Children)
		if err != nil {
			return nil, err
		}
		return OrConstraintStep{Constraint: c, Children: children}, nil
	case model.XoneConstraint:
		children, err := p.visitChildren(rule, c.Children)
		if err != nil {
			return nil, err
		}
		return XoneConstraintStep{Constraint: c, Children: children}, nil
	default:
		return nil, &PlannerError{
			Code:    ErrCodeUnknownConstraint,
			Message: fmt.Sprintf("unknown constraint type %T", constraint),
		}
	}
}

func (p *Planner) visitChildren(rule model.Rule, children model.ConstraintList) ([]ConstraintStep, error) {
	steps := make([]ConstraintStep, 0, len(children))
	for _, child := range children {
		step, err := p.visitConstraint(rule, child)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// visitAtomicConstraint implements SPEC_FULL.md §4.3's visit_atomic_constraint:
// the enclosing rule must be non-nil (a contract every caller in this
// package satisfies structurally), the left operand's scope membership and
// function resolution are independent checks, and both may contribute a
// filtering reason to the same step.
func (p *Planner) visitAtomicConstraint(rule model.Rule, constraint model.AtomicConstraint) AtomicConstraintStep {
	if rule == nil {
		panic(&PlannerError{
			Code:    ErrCodeEmptyRuleContext,
			Message: "atomic constraint visited with no enclosing rule",
		})
	}

	left := constraint.Left.StringValue()
	var reasons []string

	if !p.validator.IsInScope(left, p.delimitedScope) {
		reasons = append(reasons, fmt.Sprintf("leftOperand '%s' is not bound to scope '%s'", left, p.scope))
	}

	var functionName *string
	if name, ok := p.registry.ResolveFunctionName(left, rule.Kind()); ok {
		functionName = &name
	} else {
		reasons = append(reasons,
			fmt.Sprintf("leftOperand '%s' is not bound to any function within scope '%s'", left, p.scope))
	}

	return AtomicConstraintStep{
		Constraint:   constraint,
		Rule:         rule,
		FunctionName: functionName,
		Reasons:      reasons,
	}
}

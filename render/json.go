// Package render converts an *plan.EvaluationPlan into display forms: a
// JSON document and a flat indented-text tree. Neither the core plan
// package nor model ever imports this package (SPEC_FULL.md §6/§9);
// render is strictly a one-way consumer, and it alone is responsible for
// turning a nil function name into the "unbound" sentinel string.
package render

import (
	"encoding/json"
	"time"

	"github.com/odrlplan/policyplan/plan"
)

// unbound is the sentinel shown in place of an absent function name. It
// never appears inside package plan's own data.
const unbound = "unbound"

// planDTO is the JSON wire shape for an EvaluationPlan.
type planDTO struct {
	Scope          string           `json:"scope"`
	GeneratedAt    time.Time        `json:"generatedAt"`
	PreValidators  []string         `json:"preValidators,omitempty"`
	PostValidators []string         `json:"postValidators,omitempty"`
	Permissions    []permissionDTO  `json:"permissions,omitempty"`
	Duties         []ruleDTO        `json:"duties,omitempty"`
	Prohibitions   []ruleDTO        `json:"prohibitions,omitempty"`
}

type permissionDTO struct {
	ruleDTO
	Duties []ruleDTO `json:"duties,omitempty"`
}

type ruleDTO struct {
	Kind             string           `json:"kind"`
	ActionType       string           `json:"actionType,omitempty"`
	Filtered         bool             `json:"filtered"`
	FilteringReasons []string         `json:"filteringReasons,omitempty"`
	RuleFunctions    []string         `json:"ruleFunctions,omitempty"`
	Constraints      []constraintDTO  `json:"constraints,omitempty"`
}

// constraintDTO mirrors plan.ConstraintStep as a "type"-discriminated
// envelope, the same technique this module's model package uses for
// decoding model.Constraint (see DESIGN.md).
type constraintDTO struct {
	Type         string          `json:"type"`
	LeftOperand  string          `json:"leftOperand,omitempty"`
	Operator     string          `json:"operator,omitempty"`
	RightOperand string          `json:"rightOperand,omitempty"`
	FunctionName string          `json:"functionName,omitempty"`
	Reasons      []string        `json:"reasons,omitempty"`
	Children     []constraintDTO `json:"children,omitempty"`
}

// JSON renders p as an indented JSON document.
func JSON(p *plan.EvaluationPlan) ([]byte, error) {
	return json.MarshalIndent(toPlanDTO(p), "", "  ")
}

func toPlanDTO(p *plan.EvaluationPlan) planDTO {
	dto := planDTO{
		Scope:       p.Scope,
		GeneratedAt: p.GeneratedAt,
	}
	for _, v := range p.PreValidators {
		dto.PreValidators = append(dto.PreValidators, v.Function.Name())
	}
	for _, v := range p.PostValidators {
		dto.PostValidators = append(dto.PostValidators, v.Function.Name())
	}
	for _, perm := range p.Permissions {
		pd := permissionDTO{ruleDTO: toRuleDTO(perm.RuleStep)}
		for _, duty := range perm.Duties {
			pd.Duties = append(pd.Duties, toRuleDTO(duty.RuleStep))
		}
		dto.Permissions = append(dto.Permissions, pd)
	}
	for _, duty := range p.Duties {
		dto.Duties = append(dto.Duties, toRuleDTO(duty.RuleStep))
	}
	for _, prohibition := range p.Prohibitions {
		dto.Prohibitions = append(dto.Prohibitions, toRuleDTO(prohibition.RuleStep))
	}
	return dto
}

func toRuleDTO(step plan.RuleStep) ruleDTO {
	rd := ruleDTO{
		Kind:             step.Rule.Kind().String(),
		Filtered:         step.Filtered,
		FilteringReasons: step.FilteringReasons,
	}
	if action := step.Rule.GetAction(); action != nil {
		rd.ActionType = action.Type
	}
	for _, fn := range step.RuleFunctions {
		rd.RuleFunctions = append(rd.RuleFunctions, fn.Function.Name())
	}
	for _, c := range step.Constraints {
		rd.Constraints = append(rd.Constraints, toConstraintDTO(c))
	}
	return rd
}

func toConstraintDTO(step plan.ConstraintStep) constraintDTO {
	switch c := step.(type) {
	case plan.AtomicConstraintStep:
		dto := constraintDTO{
			Type:         "atomic",
			LeftOperand:  c.Constraint.Left.StringValue(),
			Operator:     string(c.Constraint.Operator),
			RightOperand: c.Constraint.Right.StringValue(),
			FunctionName: unbound,
			Reasons:      c.Reasons,
		}
		if c.FunctionName != nil {
			dto.FunctionName = *c.FunctionName
		}
		return dto
	case plan.AndConstraintStep:
		return constraintDTO{Type: "and", Children: toConstraintDTOs(c.Children)}
	case plan.OrConstraintStep:
		return constraintDTO{Type: "or", Children: toConstraintDTOs(c.Children)}
	case plan.XoneConstraintStep:
		return constraintDTO{Type: "xone", Children: toConstraintDTOs(c.Children)}
	default:
		return constraintDTO{Type: "unknown"}
	}
}

func toConstraintDTOs(children []plan.ConstraintStep) []constraintDTO {
	out := make([]constraintDTO, 0, len(children))
	for _, c := range children {
		out = append(out, toConstraintDTO(c))
	}
	return out
}

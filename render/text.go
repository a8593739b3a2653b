package render

import (
	"fmt"
	"strings"

	"github.com/odrlplan/policyplan/plan"
)

// Text renders p as a flat, indented text tree for terminal display — the
// format produced by "policyplan plan" without --format json.
func Text(p *plan.EvaluationPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "scope: %s\n", p.Scope)
	fmt.Fprintf(&b, "generatedAt: %s\n", p.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))

	writeValidators(&b, "preValidators", p.PreValidators)
	writeValidators(&b, "postValidators", p.PostValidators)

	if len(p.Permissions) > 0 {
		fmt.Fprintln(&b, "permissions:")
		for _, perm := range p.Permissions {
			writeRule(&b, 1, perm.RuleStep)
			if len(perm.Duties) > 0 {
				fmt.Fprintln(&b, indent(2)+"duties:")
				for _, duty := range perm.Duties {
					writeRule(&b, 3, duty.RuleStep)
				}
			}
		}
	}

	if len(p.Duties) > 0 {
		fmt.Fprintln(&b, "duties:")
		for _, duty := range p.Duties {
			writeRule(&b, 1, duty.RuleStep)
		}
	}

	if len(p.Prohibitions) > 0 {
		fmt.Fprintln(&b, "prohibitions:")
		for _, prohibition := range p.Prohibitions {
			writeRule(&b, 1, prohibition.RuleStep)
		}
	}

	return b.String()
}

func writeValidators(b *strings.Builder, label string, steps []plan.ValidatorStep) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, v := range steps {
		fmt.Fprintf(b, "%s- %s\n", indent(1), v.Function.Name())
	}
}

func writeRule(b *strings.Builder, depth int, step plan.RuleStep) {
	action := "(no action)"
	if a := step.Rule.GetAction(); a != nil {
		action = a.Type
	}
	fmt.Fprintf(b, "%s- %s action=%s filtered=%t\n", indent(depth), step.Rule.Kind(), action, step.Filtered)
	for _, reason := range step.FilteringReasons {
		fmt.Fprintf(b, "%sreason: %s\n", indent(depth+1), reason)
	}
	for _, fn := range step.RuleFunctions {
		fmt.Fprintf(b, "%sruleFunction: %s\n", indent(depth+1), fn.Function.Name())
	}
	for _, c := range step.Constraints {
		writeConstraint(b, depth+1, c)
	}
}

func writeConstraint(b *strings.Builder, depth int, step plan.ConstraintStep) {
	switch c := step.(type) {
	case plan.AtomicConstraintStep:
		name := unbound
		if c.FunctionName != nil {
			name = *c.FunctionName
		}
		fmt.Fprintf(b, "%s- atomic %s %s %s -> %s\n",
			indent(depth), c.Constraint.Left.StringValue(), c.Constraint.Operator,
			c.Constraint.Right.StringValue(), name)
		for _, reason := range c.Reasons {
			fmt.Fprintf(b, "%sreason: %s\n", indent(depth+1), reason)
		}
	case plan.AndConstraintStep:
		fmt.Fprintf(b, "%s- and\n", indent(depth))
		for _, child := range c.Children {
			writeConstraint(b, depth+1, child)
		}
	case plan.OrConstraintStep:
		fmt.Fprintf(b, "%s- or\n", indent(depth))
		for _, child := range c.Children {
			writeConstraint(b, depth+1, child)
		}
	case plan.XoneConstraintStep:
		fmt.Fprintf(b, "%s- xone\n", indent(depth))
		for _, child := range c.Children {
			writeConstraint(b, depth+1, child)
		}
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

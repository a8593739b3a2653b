package metrics

import (
	"time"

	"github.com/odrlplan/policyplan/model"
	"github.com/odrlplan/policyplan/plan"
)

// ObservePlan records RulesFilteredTotal and ConstraintsUnboundTotal for
// every rule step in p, and PlansGeneratedTotal/PlanGenerationDuration for
// the call as a whole. Callers time the call to Planner.Plan themselves
// and pass the elapsed duration and outcome here, since this package has
// no opinion on how a caller structures its own timing.
func ObservePlan(scope string, elapsed time.Duration, planErr error, p *plan.EvaluationPlan) {
	status := StatusSuccess
	if planErr != nil {
		status = StatusError
	}
	PlansGeneratedTotal.WithLabelValues(scope, status).Inc()
	PlanGenerationDuration.WithLabelValues(scope).Observe(elapsed.Seconds())

	if p == nil {
		return
	}

	for _, perm := range p.Permissions {
		observeRuleStep(scope, model.RulePermission, perm.RuleStep)
		for _, duty := range perm.Duties {
			observeRuleStep(scope, model.RuleDuty, duty.RuleStep)
		}
	}
	for _, duty := range p.Duties {
		observeRuleStep(scope, model.RuleDuty, duty.RuleStep)
	}
	for _, prohibition := range p.Prohibitions {
		observeRuleStep(scope, model.RuleProhibition, prohibition.RuleStep)
	}
}

func observeRuleStep(scope string, kind model.RuleKind, step plan.RuleStep) {
	if step.Filtered {
		RulesFilteredTotal.WithLabelValues(scope, kind.String()).Inc()
	}
	for _, c := range step.Constraints {
		observeConstraintStep(scope, c)
	}
}

func observeConstraintStep(scope string, step plan.ConstraintStep) {
	switch c := step.(type) {
	case plan.AtomicConstraintStep:
		if c.FunctionName == nil {
			ConstraintsUnboundTotal.WithLabelValues(scope).Inc()
		}
	case plan.AndConstraintStep:
		for _, child := range c.Children {
			observeConstraintStep(scope, child)
		}
	case plan.OrConstraintStep:
		for _, child := range c.Children {
			observeConstraintStep(scope, child)
		}
	case plan.XoneConstraintStep:
		for _, child := range c.Children {
			observeConstraintStep(scope, child)
		}
	}
}

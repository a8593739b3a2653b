package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odrlplan/policyplan/loader"
	"github.com/odrlplan/policyplan/plan"
	"github.com/odrlplan/policyplan/registry"
	"github.com/odrlplan/policyplan/registry/builtin"
	"github.com/odrlplan/policyplan/render"
	"github.com/odrlplan/policyplan/rulevalidation"
)

var (
	planPolicyPath string
	planScope      string
	planFormat     string
	planBoundAct   []string
	planExtraKeys  []string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build and print an evaluation plan for a policy document",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planPolicyPath, "policy", "", "path to a .json or .yaml policy document (required)")
	planCmd.Flags().StringVar(&planScope, "scope", "", "scope identifier the planner validates against (required)")
	planCmd.Flags().StringVar(&planFormat, "format", "text", "output format: text or json")
	planCmd.Flags().StringSliceVar(&planBoundAct, "bound-action", nil, "action type to treat as bound (repeatable)")
	planCmd.Flags().StringSliceVar(&planExtraKeys, "bound-key", nil, "left-operand key to treat as bound regardless of scope prefix (repeatable)")
	_ = planCmd.MarkFlagRequired("policy")
	_ = planCmd.MarkFlagRequired("scope")
}

func runPlan(cmd *cobra.Command, args []string) error {
	policy, err := loader.LoadFile(planPolicyPath)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}

	reg := registry.New()
	builtin.Register(reg)

	validator := rulevalidation.NewScopeValidator(planScope, planExtraKeys, planBoundAct)
	p, err := plan.NewBuilder(planScope).
		RuleValidator(validator).
		Registry(reg).
		Build()
	if err != nil {
		return fmt.Errorf("building planner: %w", err)
	}

	result, err := p.Plan(policy)
	if err != nil {
		return fmt.Errorf("planning policy: %w", err)
	}

	switch planFormat {
	case "json":
		data, err := render.JSON(result)
		if err != nil {
			return fmt.Errorf("rendering plan: %w", err)
		}
		cmd.Println(string(data))
	case "text", "":
		cmd.Print(render.Text(result))
	default:
		return fmt.Errorf("unsupported --format %q, want \"text\" or \"json\"", planFormat)
	}
	return nil
}

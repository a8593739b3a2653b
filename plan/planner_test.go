package plan

import (
	"testing"
	"time"

	"github.com/odrlplan/policyplan/model"
	"github.com/odrlplan/policyplan/registry"
	"github.com/odrlplan/policyplan/rulevalidation"
)

// stubValidator lets each test control IsInScope/IsBounded independently
// of ScopeValidator's naming-convention defaults.
type stubValidator struct {
	inScope map[string]bool
	bounded map[string]bool
}

func (s stubValidator) IsInScope(key, _ string) bool { return s.inScope[key] }
func (s stubValidator) IsBounded(actionType string) bool { return s.bounded[actionType] }

type namedFn string

func (n namedFn) Name() string { return string(n) }

func atomic(left string) model.AtomicConstraint {
	return model.AtomicConstraint{Left: model.Expression{Value: left}, Operator: model.OpEq, Right: model.Expression{Value: "x"}}
}

func TestPlan_S1_EmptyPolicyEmptyPlan(t *testing.T) {
	p, err := NewBuilder("request.catalog").
		RuleValidator(stubValidator{}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := p.Plan(&model.Policy{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if len(got.Permissions) != 0 || len(got.Duties) != 0 || len(got.Prohibitions) != 0 {
		t.Errorf("Plan() on empty policy produced non-empty rule lists: %+v", got)
	}
	if len(got.PreValidators) != 0 || len(got.PostValidators) != 0 {
		t.Errorf("Plan() on empty policy produced non-empty validator lists: %+v", got)
	}
	if got.Scope != "request.catalog" {
		t.Errorf("Scope = %q, want %q", got.Scope, "request.catalog")
	}
}

func TestPlan_S2_StaticFunctionResolvesInScope(t *testing.T) {
	p, err := NewBuilder("s").
		RuleValidator(stubValidator{inScope: map[string]bool{"k1": true}}).
		StaticFunction("k1", registry.ForKind(model.RulePermission), namedFn("f1")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions: []*model.Permission{
			{Constraints: model.ConstraintList{atomic("k1")}},
		},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(got.Permissions) != 1 {
		t.Fatalf("len(Permissions) = %d, want 1", len(got.Permissions))
	}
	perm := got.Permissions[0]
	if perm.Filtered {
		t.Errorf("Permissions[0].Filtered = true, want false")
	}
	if len(perm.Constraints) != 1 {
		t.Fatalf("len(Constraints) = %d, want 1", len(perm.Constraints))
	}
	atomicStep, ok := perm.Constraints[0].(AtomicConstraintStep)
	if !ok {
		t.Fatalf("Constraints[0] type = %T, want AtomicConstraintStep", perm.Constraints[0])
	}
	if atomicStep.FunctionName == nil || *atomicStep.FunctionName != "f1" {
		t.Errorf("FunctionName = %v, want \"f1\"", atomicStep.FunctionName)
	}
	if len(atomicStep.Reasons) != 0 {
		t.Errorf("Reasons = %v, want empty", atomicStep.Reasons)
	}
}

func TestPlan_S3_StaticFunctionResolvesOutOfScope(t *testing.T) {
	p, err := NewBuilder("s").
		RuleValidator(stubValidator{inScope: map[string]bool{}}).
		StaticFunction("k1", registry.ForKind(model.RulePermission), namedFn("f1")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions: []*model.Permission{
			{Constraints: model.ConstraintList{atomic("k1")}},
		},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	atomicStep := got.Permissions[0].Constraints[0].(AtomicConstraintStep)
	if atomicStep.FunctionName == nil || *atomicStep.FunctionName != "f1" {
		t.Errorf("FunctionName = %v, want \"f1\" (resolution independent of scope)", atomicStep.FunctionName)
	}
	want := []string{"leftOperand 'k1' is not bound to scope 's'"}
	if len(atomicStep.Reasons) != len(want) || atomicStep.Reasons[0] != want[0] {
		t.Errorf("Reasons = %v, want %v", atomicStep.Reasons, want)
	}
}

func TestPlan_S4_ActionNotBoundFiltersRule(t *testing.T) {
	p, err := NewBuilder("s").
		RuleValidator(stubValidator{bounded: map[string]bool{}}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions: []*model.Permission{
			{Action: &model.Action{Type: "use"}},
		},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	perm := got.Permissions[0]
	if !perm.Filtered {
		t.Fatal("Filtered = false, want true")
	}
	want := []string{"action 'use' is not bound to scope 's'"}
	if len(perm.FilteringReasons) != len(want) || perm.FilteringReasons[0] != want[0] {
		t.Errorf("FilteringReasons = %v, want %v", perm.FilteringReasons, want)
	}
}

func TestPlan_S5_DynamicFunctionResolvesAnyRuleKind(t *testing.T) {
	p, err := NewBuilder("s").
		RuleValidator(stubValidator{}).
		DynamicFunction(registry.AnyRule(), dynamicHandler{name: "dyn", key: "k2"}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Prohibitions: []*model.Prohibition{
			{Constraints: model.ConstraintList{atomic("k2")}},
		},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	atomicStep := got.Prohibitions[0].Constraints[0].(AtomicConstraintStep)
	if atomicStep.FunctionName == nil || *atomicStep.FunctionName != "dyn" {
		t.Errorf("FunctionName = %v, want \"dyn\"", atomicStep.FunctionName)
	}
}

type dynamicHandler struct {
	name string
	key  string
}

func (d dynamicHandler) Name() string              { return d.name }
func (d dynamicHandler) CanHandle(key string) bool { return key == d.key }

func TestPlan_S6_NestedConstraintTreeShapePreserved(t *testing.T) {
	p, err := NewBuilder("s").
		RuleValidator(stubValidator{}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions: []*model.Permission{
			{
				Constraints: model.ConstraintList{
					model.AndConstraint{
						Children: model.ConstraintList{
							atomic("a"),
							model.OrConstraint{
								Children: model.ConstraintList{atomic("b"), atomic("c")},
							},
						},
					},
				},
			},
		},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	and, ok := got.Permissions[0].Constraints[0].(AndConstraintStep)
	if !ok {
		t.Fatalf("root constraint type = %T, want AndConstraintStep", got.Permissions[0].Constraints[0])
	}
	if len(and.Children) != 2 {
		t.Fatalf("len(And.Children) = %d, want 2", len(and.Children))
	}

	a, ok := and.Children[0].(AtomicConstraintStep)
	if !ok {
		t.Fatalf("And.Children[0] type = %T, want AtomicConstraintStep", and.Children[0])
	}
	wantReasons := []string{
		"leftOperand 'a' is not bound to scope 's'",
		"leftOperand 'a' is not bound to any function within scope 's'",
	}
	if len(a.Reasons) != 2 || a.Reasons[0] != wantReasons[0] || a.Reasons[1] != wantReasons[1] {
		t.Errorf("a.Reasons = %v, want %v", a.Reasons, wantReasons)
	}

	or, ok := and.Children[1].(OrConstraintStep)
	if !ok {
		t.Fatalf("And.Children[1] type = %T, want OrConstraintStep", and.Children[1])
	}
	if len(or.Children) != 2 {
		t.Fatalf("len(Or.Children) = %d, want 2", len(or.Children))
	}
	for i, key := range []string{"b", "c"} {
		leaf, ok := or.Children[i].(AtomicConstraintStep)
		if !ok {
			t.Fatalf("Or.Children[%d] type = %T, want AtomicConstraintStep", i, or.Children[i])
		}
		if len(leaf.Reasons) != 2 {
			t.Errorf("%s.Reasons = %v, want 2 reasons", key, leaf.Reasons)
		}
	}
}

func TestPlan_NilPolicyReturnsError(t *testing.T) {
	p, err := NewBuilder("s").RuleValidator(stubValidator{}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	_, err = p.Plan(nil)
	plannerErr, ok := err.(*PlannerError)
	if !ok {
		t.Fatalf("Plan(nil) error type = %T, want *PlannerError", err)
	}
	if plannerErr.Code != ErrCodeNilPolicy {
		t.Errorf("Code = %q, want %q", plannerErr.Code, ErrCodeNilPolicy)
	}
}

func TestBuild_MissingRuleValidator(t *testing.T) {
	_, err := NewBuilder("s").Build()
	plannerErr, ok := err.(*PlannerError)
	if !ok || plannerErr.Code != ErrCodeMissingRuleValidator {
		t.Fatalf("Build() error = %v, want ErrCodeMissingRuleValidator", err)
	}
}

func TestBuild_MissingScope(t *testing.T) {
	_, err := NewBuilder("").RuleValidator(stubValidator{}).Build()
	plannerErr, ok := err.(*PlannerError)
	if !ok || plannerErr.Code != ErrCodeMissingScope {
		t.Fatalf("Build() error = %v, want ErrCodeMissingScope", err)
	}
}

func TestPlan_TraversalOrderIsPermissionsObligationsProhibitions(t *testing.T) {
	// Regression guard for the non-obvious ordering mandated by SPEC_FULL.md
	// §4.3: obligations are walked before prohibitions, not after. The three
	// result lists are independent fields, so the visit order is observed
	// through the sequence of IsBounded calls, one per rule action.
	var seen []string
	p, err := NewBuilder("s").RuleValidator(orderRecordingValidator{seen: &seen}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions:  []*model.Permission{{Action: &model.Action{Type: "permission"}}},
		Obligations:  []*model.Duty{{Action: &model.Action{Type: "obligation"}}},
		Prohibitions: []*model.Prohibition{{Action: &model.Action{Type: "prohibition"}}},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(got.Permissions) != 1 || len(got.Duties) != 1 || len(got.Prohibitions) != 1 {
		t.Fatalf("Plan() = %+v, want one step in each list", got)
	}
	want := []string{"permission", "obligation", "prohibition"}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] || seen[2] != want[2] {
		t.Errorf("rule visit order = %v, want %v", seen, want)
	}
}

// orderRecordingValidator bounds every action and records the order in
// which the planner asks about them.
type orderRecordingValidator struct{ seen *[]string }

func (v orderRecordingValidator) IsInScope(string, string) bool { return true }
func (v orderRecordingValidator) IsBounded(actionType string) bool {
	*v.seen = append(*v.seen, actionType)
	return true
}

func TestPlan_PermissionDutiesWalkedAndAttached(t *testing.T) {
	p, err := NewBuilder("s").RuleValidator(stubValidator{bounded: map[string]bool{"pay": true}}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions: []*model.Permission{
			{
				Duties: []*model.Duty{
					{Action: &model.Action{Type: "pay"}},
				},
			},
		},
	}

	got, err := p.Plan(policy)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(got.Permissions[0].Duties) != 1 {
		t.Fatalf("len(Permissions[0].Duties) = %d, want 1", len(got.Permissions[0].Duties))
	}
	if got.Permissions[0].Duties[0].Filtered {
		t.Error("nested duty unexpectedly filtered")
	}
}

func TestPlan_PreAndPostValidatorsRecordedInRegistrationOrder(t *testing.T) {
	p, err := NewBuilder("s").
		RuleValidator(stubValidator{}).
		PreValidator(namedFn("pre1")).
		PreValidator(namedFn("pre2")).
		PostValidator(namedFn("post1")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got, err := p.Plan(&model.Policy{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(got.PreValidators) != 2 || got.PreValidators[0].Function.Name() != "pre1" || got.PreValidators[1].Function.Name() != "pre2" {
		t.Errorf("PreValidators = %+v, want [pre1, pre2]", got.PreValidators)
	}
	if len(got.PostValidators) != 1 || got.PostValidators[0].Function.Name() != "post1" {
		t.Errorf("PostValidators = %+v, want [post1]", got.PostValidators)
	}
}

func TestPlan_UnknownConstraintTypeIsRejected(t *testing.T) {
	p, err := NewBuilder("s").RuleValidator(stubValidator{}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	policy := &model.Policy{
		Permissions: []*model.Permission{
			{Constraints: model.ConstraintList{unknownConstraint{}}},
		},
	}

	_, err = p.Plan(policy)
	plannerErr, ok := err.(*PlannerError)
	if !ok || plannerErr.Code != ErrCodeUnknownConstraint {
		t.Fatalf("Plan() error = %v, want ErrCodeUnknownConstraint", err)
	}
}

// unknownConstraint satisfies model.Constraint by embedding it (the
// interface's method is unexported, so it cannot be declared here) while
// matching none of the variants the planner switches on.
type unknownConstraint struct{ model.Constraint }

func TestPlan_GeneratedAtIsStampedAtCallTime(t *testing.T) {
	p, err := NewBuilder("s").RuleValidator(stubValidator{}).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	before := time.Now()
	got, err := p.Plan(&model.Policy{})
	after := time.Now()
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got.GeneratedAt.Before(before) || got.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt = %v, want between %v and %v", got.GeneratedAt, before, after)
	}
}

var _ rulevalidation.RuleValidator = stubValidator{}

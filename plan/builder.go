package plan

import (
	"github.com/odrlplan/policyplan/registry"
	"github.com/odrlplan/policyplan/rulevalidation"
)

// Builder assembles a Planner. A RuleValidator and a non-empty scope are
// required; Build reports ErrCodeMissingRuleValidator or
// ErrCodeMissingScope respectively if either is absent. Everything else —
// the function registry and pre/post validators — has a usable default,
// matching the reference implementation's Builder, which likewise requires
// only a non-null ruleValidator at build time (SPEC_FULL.md §4.5).
type Builder struct {
	scope          string
	validator      rulevalidation.RuleValidator
	registry       *registry.FunctionRegistry
	preValidators  []registry.PolicyValidatorFunction
	postValidators []registry.PolicyValidatorFunction
}

// NewBuilder starts a Builder for the given scope.
func NewBuilder(scope string) *Builder {
	return &Builder{scope: scope}
}

// Scope overrides the scope set by NewBuilder.
func (b *Builder) Scope(scope string) *Builder {
	b.scope = scope
	return b
}

// RuleValidator sets the required RuleValidator collaborator.
func (b *Builder) RuleValidator(v rulevalidation.RuleValidator) *Builder {
	b.validator = v
	return b
}

// Registry sets the FunctionRegistry the built Planner will resolve
// against. If never called, Build supplies a fresh, empty
// registry.FunctionRegistry.
func (b *Builder) Registry(r *registry.FunctionRegistry) *Builder {
	b.registry = r
	return b
}

// PreValidator appends a policy validator function that would run before
// the rule walk.
func (b *Builder) PreValidator(fn registry.PolicyValidatorFunction) *Builder {
	b.preValidators = append(b.preValidators, fn)
	return b
}

// PostValidator appends a policy validator function that would run after
// the rule walk.
func (b *Builder) PostValidator(fn registry.PolicyValidatorFunction) *Builder {
	b.postValidators = append(b.postValidators, fn)
	return b
}

// StaticFunction registers fn against an exact left-operand key, scoped to
// target. Convenience wrapper over Registry().RegisterStatic so callers
// need not build a registry separately for the common case of a single
// Planner consuming it.
func (b *Builder) StaticFunction(key string, target registry.Target, fn registry.AtomicConstraintFunction) *Builder {
	b.ensureRegistry()
	b.registry.RegisterStatic(key, target, fn)
	return b
}

// DynamicFunction registers fn as a predicate-matched handler, scoped to
// target.
func (b *Builder) DynamicFunction(target registry.Target, fn registry.DynamicAtomicConstraintFunction) *Builder {
	b.ensureRegistry()
	b.registry.RegisterDynamic(target, fn)
	return b
}

// RuleFunction registers fn as a whole-rule handler, scoped to target.
func (b *Builder) RuleFunction(target registry.Target, fn registry.RulePolicyFunction) *Builder {
	b.ensureRegistry()
	b.registry.RegisterRule(target, fn)
	return b
}

func (b *Builder) ensureRegistry() {
	if b.registry == nil {
		b.registry = registry.New()
	}
}

// Build validates the accumulated configuration and returns an immutable
// Planner, or a *PlannerError describing the first missing requirement.
func (b *Builder) Build() (*Planner, error) {
	if b.validator == nil {
		return nil, &PlannerError{
			Code:    ErrCodeMissingRuleValidator,
			Message: "RuleValidator is required",
		}
	}
	if b.scope == "" {
		return nil, &PlannerError{
			Code:    ErrCodeMissingScope,
			Message: "scope must not be empty",
		}
	}

	b.ensureRegistry()

	return &Planner{
		scope:          b.scope,
		delimitedScope: b.scope + rulevalidation.Delimiter,
		registry:       b.registry,
		validator:      b.validator,
		preValidators:  append([]registry.PolicyValidatorFunction(nil), b.preValidators...),
		postValidators: append([]registry.PolicyValidatorFunction(nil), b.postValidators...),
	}, nil
}

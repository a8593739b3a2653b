package registry

import "github.com/odrlplan/policyplan/model"

// Target is the "registered kind" type bound carried by every function
// registration: either a specific model.RuleKind, or the Any wildcard
// meaning "registered against the abstract Rule kind", which matches
// every rule.
//
// Always construct a Target through ForKind or AnyRule — the zero value is
// indistinguishable from ForKind(model.RulePermission) and would silently
// under-match.
type Target struct {
	kind model.RuleKind
	any  bool
}

// ForKind returns a Target bound to a single, specific rule kind.
func ForKind(kind model.RuleKind) Target {
	return Target{kind: kind}
}

// AnyRule returns the wildcard Target that matches every rule kind,
// corresponding to a registration against the abstract Rule type.
func AnyRule() Target {
	return Target{any: true}
}

// Assignable reports whether this Target's registered kind is assignable
// from actual — i.e. whether a function registered with this Target
// should fire for a rule whose runtime kind is actual. This single
// definition is used for static functions, dynamic functions, and rule
// functions alike (see DESIGN.md's note on the rule-function assignability
// direction named in SPEC_FULL.md's Open Questions).
func (t Target) Assignable(actual model.RuleKind) bool {
	return t.any || t.kind == actual
}

// String renders the target for debug output.
func (t Target) String() string {
	if t.any {
		return "Rule"
	}
	return t.kind.String()
}

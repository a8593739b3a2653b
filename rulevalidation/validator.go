// Package rulevalidation defines the RuleValidator contract the planner
// consults at every atomic constraint and every rule's action, plus a
// concrete allow-list-backed implementation for callers that don't need
// anything smarter.
package rulevalidation

// Delimiter is the scope-delimiter character used to build the prefix a
// RuleValidator tests bound keys against. It is part of the wire contract:
// whoever registers keys with a FunctionRegistry must agree on it with
// whoever implements RuleValidator.IsInScope.
const Delimiter = "."

// RuleValidator is injected into the planner; it is the only collaborator
// that decides whether a key or an action type is meaningful within the
// active scope. The planner treats it as an opaque predicate and never
// recovers from a panic raised inside it.
type RuleValidator interface {
	// IsInScope reports whether key is bound to the scope that
	// delimitedScope (scope + Delimiter) was derived from.
	IsInScope(key, delimitedScope string) bool
	// IsBounded reports whether actionType is known to the active scope.
	IsBounded(actionType string) bool
}

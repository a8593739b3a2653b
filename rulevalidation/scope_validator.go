package rulevalidation

import "strings"

// ScopeValidator is the default RuleValidator: a key is in scope if it
// equals the scope itself, starts with the delimited scope prefix, or
// appears on an explicit allow-list of keys bound outside the naming
// convention; an action type is bounded if it appears on the bound-actions
// allow-list.
//
// This mirrors the reference implementation's own documented default
// behavior (SPEC_FULL.md §4.1): "test key == scope || key.starts_with
// (delimited_scope) plus an allow-list of explicitly bound keys".
type ScopeValidator struct {
	scope        string
	boundKeys    map[string]struct{}
	boundActions map[string]struct{}
}

// NewScopeValidator builds a ScopeValidator for scope, additionally
// treating every key in extraKeys and every action type in boundActions as
// bound regardless of the naming convention.
func NewScopeValidator(scope string, extraKeys, boundActions []string) *ScopeValidator {
	v := &ScopeValidator{
		scope:        scope,
		boundKeys:    make(map[string]struct{}, len(extraKeys)),
		boundActions: make(map[string]struct{}, len(boundActions)),
	}
	for _, k := range extraKeys {
		v.boundKeys[k] = struct{}{}
	}
	for _, a := range boundActions {
		v.boundActions[a] = struct{}{}
	}
	return v
}

// IsInScope implements RuleValidator.
func (v *ScopeValidator) IsInScope(key, delimitedScope string) bool {
	if key == v.scope || strings.HasPrefix(key, delimitedScope) {
		return true
	}
	_, ok := v.boundKeys[key]
	return ok
}

// IsBounded implements RuleValidator.
func (v *ScopeValidator) IsBounded(actionType string) bool {
	_, ok := v.boundActions[actionType]
	return ok
}

var _ RuleValidator = (*ScopeValidator)(nil)

// Package registry holds the three overlapping collections of function
// bindings the planner resolves against: static (exact left-operand key),
// dynamic (predicate over the key), and rule (whole-rule, not
// constraint-keyed). First registration wins; re-registering under the
// same key never overwrites an earlier entry.
package registry

import (
	"sort"

	"github.com/odrlplan/policyplan/model"
	"golang.org/x/exp/maps"
)

type staticEntry struct {
	target Target
	fn     AtomicConstraintFunction
}

type dynamicEntry struct {
	target Target
	fn     DynamicAtomicConstraintFunction
}

type ruleEntry struct {
	target Target
	fn     RulePolicyFunction
}

// FunctionRegistry is write-once at build time: after a Planner is built
// from it, callers should treat it as read-only, though nothing in this
// package enforces that.
type FunctionRegistry struct {
	static  map[string][]staticEntry
	dynamic []dynamicEntry
	rules   []ruleEntry
}

// New returns an empty FunctionRegistry.
func New() *FunctionRegistry {
	return &FunctionRegistry{static: make(map[string][]staticEntry)}
}

// RegisterStatic appends fn to the list of static handlers bound to key,
// under the given target. Registration order is preserved and consulted
// by ResolveFunctionName.
func (r *FunctionRegistry) RegisterStatic(key string, target Target, fn AtomicConstraintFunction) {
	r.static[key] = append(r.static[key], staticEntry{target: target, fn: fn})
}

// RegisterDynamic appends fn to the ordered list of dynamic handlers.
func (r *FunctionRegistry) RegisterDynamic(target Target, fn DynamicAtomicConstraintFunction) {
	r.dynamic = append(r.dynamic, dynamicEntry{target: target, fn: fn})
}

// RegisterRule appends fn to the ordered list of whole-rule handlers.
func (r *FunctionRegistry) RegisterRule(target Target, fn RulePolicyFunction) {
	r.rules = append(r.rules, ruleEntry{target: target, fn: fn})
}

// ResolveFunctionName implements the two-phase lookup: static entries
// under key first (in insertion order, first whose target is assignable
// from kind wins), then dynamic entries (in insertion order, first whose
// target is assignable from kind and whose CanHandle(key) is true wins).
// Reports ok=false if nothing matches.
func (r *FunctionRegistry) ResolveFunctionName(key string, kind model.RuleKind) (name string, ok bool) {
	for _, e := range r.static[key] {
		if e.target.Assignable(kind) {
			return e.fn.Name(), true
		}
	}
	for _, e := range r.dynamic {
		if e.target.Assignable(kind) && e.fn.CanHandle(key) {
			return e.fn.Name(), true
		}
	}
	return "", false
}

// RuleFunctionsFor returns every rule function whose target is assignable
// from kind, in registration order.
func (r *FunctionRegistry) RuleFunctionsFor(kind model.RuleKind) []RulePolicyFunction {
	out := make([]RulePolicyFunction, 0, len(r.rules))
	for _, e := range r.rules {
		if e.target.Assignable(kind) {
			out = append(out, e.fn)
		}
	}
	return out
}

// StaticKeys returns the keys of the static-function registry in sorted
// order, matching the reference implementation's TreeMap-backed iteration
// (SPEC_FULL.md §3: "the keyspace is traversed in sorted order").
// ResolveFunctionName never consults it; it does a direct map lookup.
func (r *FunctionRegistry) StaticKeys() []string {
	keys := maps.Keys(r.static)
	sort.Strings(keys)
	return keys
}

// StaticFunctionsFor returns the names of the static functions registered
// under key, in insertion order — every candidate, not just the one that
// would win. The registered targets are not included.
func (r *FunctionRegistry) StaticFunctionsFor(key string) []string {
	entries := r.static[key]
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.fn.Name()
	}
	return names
}

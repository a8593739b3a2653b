package plan

import "fmt"

// ErrorCode identifies a planner failure, mirroring this module's teacher
// package's own ErrorCode/PEACError shape (see DESIGN.md).
type ErrorCode string

// Planner error codes.
const (
	// ErrCodeMissingRuleValidator is returned by Builder.Build when no
	// RuleValidator was configured.
	ErrCodeMissingRuleValidator ErrorCode = "E_MISSING_RULE_VALIDATOR"
	// ErrCodeMissingScope is returned by Builder.Build when the scope is
	// empty.
	ErrCodeMissingScope ErrorCode = "E_MISSING_SCOPE"
	// ErrCodeNilPolicy is returned by Planner.Plan when given a nil policy.
	ErrCodeNilPolicy ErrorCode = "E_NIL_POLICY"
	// ErrCodeEmptyRuleContext marks the contract violation of an atomic
	// constraint visited with no enclosing rule. Under this package's
	// call-parameter design (SPEC_FULL.md §9) this is unreachable through
	// the public API — visitAtomicConstraint is only ever called with the
	// rule supplied by its caller — but the check and code are kept as a
	// defensive invariant, matching SPEC_FULL.md §7's "Contract violation"
	// error kind.
	ErrCodeEmptyRuleContext ErrorCode = "E_EMPTY_RULE_CONTEXT"
	// ErrCodeUnknownConstraint marks an unrecognized model.Constraint
	// implementation reaching the planner.
	ErrCodeUnknownConstraint ErrorCode = "E_UNKNOWN_CONSTRAINT"
)

// PlannerError is a fatal, non-recoverable planner failure: a
// configuration error at build time, a malformed policy tree, or (in
// principle) a propagated collaborator failure. The planner never
// attempts recovery; Plan returns the original failure to the caller with
// no partial plan (SPEC_FULL.md §7).
type PlannerError struct {
	Code    ErrorCode
	Message string
}

// Error implements error.
func (e *PlannerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

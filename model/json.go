package model

import (
	"encoding/json"
	"fmt"
)

// constraintType is the "type" discriminator written on every constraint's
// JSON form, the same way this codebase's Purposes/LicensingModes lean on a
// discriminating shape to decide how to decode a polymorphic field — here
// widened from "array or scalar" to a four-way tagged union.
type constraintType string

const (
	typeAtomic constraintType = "atomic"
	typeAnd    constraintType = "and"
	typeOr     constraintType = "or"
	typeXone   constraintType = "xone"
)

// constraintEnvelope is the wire shape shared by all four constraint
// variants; fields irrelevant to a given Type are simply omitted.
type constraintEnvelope struct {
	Type     constraintType    `json:"type"`
	Left     *Expression       `json:"leftOperand,omitempty"`
	Operator Operator          `json:"operator,omitempty"`
	Right    *Expression       `json:"rightOperand,omitempty"`
	Children []json.RawMessage `json:"constraints,omitempty"`
}

// MarshalJSON implements json.Marshaler for ConstraintList by marshaling
// each element through marshalConstraint.
func (cs ConstraintList) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, len(cs))
	for i, c := range cs {
		b, err := marshalConstraint(c)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
		raw[i] = b
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler for ConstraintList by decoding
// each element through unmarshalConstraint.
func (cs *ConstraintList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(ConstraintList, len(raw))
	for i, r := range raw {
		c, err := unmarshalConstraint(r)
		if err != nil {
			return fmt.Errorf("constraints[%d]: %w", i, err)
		}
		out[i] = c
	}
	*cs = out
	return nil
}

func marshalConstraint(c Constraint) ([]byte, error) {
	switch v := c.(type) {
	case AtomicConstraint:
		env := constraintEnvelope{Type: typeAtomic, Left: &v.Left, Operator: v.Operator, Right: &v.Right}
		return json.Marshal(env)
	case AndConstraint:
		return marshalMultiplicity(typeAnd, v.Children)
	case OrConstraint:
		return marshalMultiplicity(typeOr, v.Children)
	case XoneConstraint:
		return marshalMultiplicity(typeXone, v.Children)
	default:
		return nil, fmt.Errorf("model: unknown constraint type %T", c)
	}
}

func marshalMultiplicity(t constraintType, children ConstraintList) ([]byte, error) {
	childRaw, err := children.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(childRaw, &raw); err != nil {
		return nil, err
	}
	env := constraintEnvelope{Type: t, Children: raw}
	return json.Marshal(env)
}

func unmarshalConstraint(data []byte) (Constraint, error) {
	var env constraintEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case typeAtomic:
		if env.Left == nil || env.Right == nil {
			return nil, fmt.Errorf("model: atomic constraint missing leftOperand/rightOperand")
		}
		return AtomicConstraint{Left: *env.Left, Operator: env.Operator, Right: *env.Right}, nil
	case typeAnd, typeOr, typeXone:
		children := make(ConstraintList, len(env.Children))
		for i, raw := range env.Children {
			c, err := unmarshalConstraint(raw)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		switch env.Type {
		case typeAnd:
			return AndConstraint{Children: children}, nil
		case typeOr:
			return OrConstraint{Children: children}, nil
		default:
			return XoneConstraint{Children: children}, nil
		}
	default:
		return nil, fmt.Errorf("model: unknown constraint type %q", env.Type)
	}
}

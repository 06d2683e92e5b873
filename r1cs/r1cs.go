// Package r1cs builds rank-1 constraint systems: arithmetic circuits
// flattened into constraints of the form A*B = C, each side a linear
// combination of witness variables.
//
// Variable 0 is reserved for the constant 1 and must be initialized with
// InitOne before any gate is built. Gate builders compute the output wire's
// value as they record the constraint, so a fully built system can hand out
// its witness without re-walking the circuit.
package r1cs

import (
	"errors"
	"fmt"

	"github.com/zkforge/qapc/field"
)

var (
	// ErrUnknownVariable is returned when a variable handle was never allocated.
	ErrUnknownVariable = errors.New("r1cs: unknown variable")
	// ErrUnassignedVariable is returned when reading a slot that was never assigned.
	ErrUnassignedVariable = errors.New("r1cs: unassigned variable")
)

// Variable is an opaque handle indexing into the witness vector.
type Variable int

// One is the variable reserved for the constant 1.
const One Variable = 0

// Term is one coeff*variable product inside a linear combination.
type Term struct {
	Var   Variable
	Coeff field.Element
}

// LinearCombination is an ordered list of terms representing sum(coeff*var).
// AddTerm folds duplicate variables into a single term, so a combination
// holds at most one term per variable; the QAP column extraction relies on
// this.
type LinearCombination []Term

// AddTerm returns lc with coeff*v added, merging into an existing term for v
// if there is one.
func (lc LinearCombination) AddTerm(v Variable, coeff field.Element) (LinearCombination, error) {
	for i, t := range lc {
		if t.Var == v {
			sum, err := t.Coeff.Add(coeff)
			if err != nil {
				return nil, err
			}
			res := make(LinearCombination, len(lc))
			copy(res, lc)
			res[i].Coeff = sum
			return res, nil
		}
	}
	return append(lc, Term{Var: v, Coeff: coeff}), nil
}

// CoeffOf returns the coefficient of v and whether v appears in lc.
func (lc LinearCombination) CoeffOf(v Variable) (field.Element, bool) {
	for _, t := range lc {
		if t.Var == v {
			return t.Coeff, true
		}
	}
	return field.Element{}, false
}

// Evaluate computes the dot product of lc with the witness.
func (lc LinearCombination) Evaluate(witness []field.Element) (field.Element, error) {
	if len(witness) == 0 {
		return field.Element{}, fmt.Errorf("r1cs: empty witness")
	}
	total := field.Zero(witness[0].Modulus)
	for _, t := range lc {
		if int(t.Var) < 0 || int(t.Var) >= len(witness) {
			return field.Element{}, fmt.Errorf("%w: %d", ErrUnknownVariable, t.Var)
		}
		prod, err := t.Coeff.Mul(witness[t.Var])
		if err != nil {
			return field.Element{}, err
		}
		if total, err = total.Add(prod); err != nil {
			return field.Element{}, err
		}
	}
	return total, nil
}

// Constraint is the gate equation A*B = C.
type Constraint struct {
	A, B, C LinearCombination
}

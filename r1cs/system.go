package r1cs

import (
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/zkforge/qapc/field"
)

// System owns the variable counter, the insertion-ordered constraints and the
// assignment vector. A slot moves unallocated -> allocated -> assigned; only
// assigned slots may be read by gate builders or witness generation.
//
// A System is owned by a single builder; it performs no internal locking.
type System struct {
	nbVariables int
	constraints []Constraint
	values      []field.Element
	assigned    *bitset.BitSet
}

// NewSystem returns an empty constraint system. Call InitOne before building
// gates.
func NewSystem() *System {
	return &System{assigned: bitset.New(8)}
}

// AllocVariable appends a new unassigned slot and returns its handle.
// Handles strictly increase and are never reused.
func (s *System) AllocVariable() Variable {
	v := Variable(s.nbVariables)
	s.nbVariables++
	s.values = append(s.values, field.Element{})
	return v
}

// Assign sets the value of an allocated variable.
func (s *System) Assign(v Variable, value field.Element) error {
	if int(v) < 0 || int(v) >= s.nbVariables {
		return fmt.Errorf("%w: %d", ErrUnknownVariable, v)
	}
	s.values[v] = value
	s.assigned.Set(uint(v))
	return nil
}

// InitOne allocates slot 0 if not already present and assigns it the given
// value. The value must be the field's multiplicative identity for the
// system to be meaningful; this is not checked here.
func (s *System) InitOne(one field.Element) {
	if s.nbVariables == 0 {
		s.AllocVariable()
	}
	// cannot fail: slot 0 exists
	_ = s.Assign(One, one)
}

// Value returns the assigned value of v.
func (s *System) Value(v Variable) (field.Element, error) {
	if int(v) < 0 || int(v) >= s.nbVariables {
		return field.Element{}, fmt.Errorf("%w: %d", ErrUnknownVariable, v)
	}
	if !s.assigned.Test(uint(v)) {
		return field.Element{}, fmt.Errorf("%w: %d", ErrUnassignedVariable, v)
	}
	return s.values[v], nil
}

// one returns the coefficient 1, deriving the modulus from the constant wire.
func (s *System) one() (field.Element, error) {
	v, err := s.Value(One)
	if err != nil {
		return field.Element{}, fmt.Errorf("constant wire not initialized: %w", err)
	}
	return field.One(v.Modulus), nil
}

// Modulus returns the field modulus the system is built over.
func (s *System) Modulus() (*big.Int, error) {
	v, err := s.Value(One)
	if err != nil {
		return nil, fmt.Errorf("constant wire not initialized: %w", err)
	}
	return v.Modulus, nil
}

// Enforce appends the constraint a*b = c.
func (s *System) Enforce(a, b, c LinearCombination) {
	s.constraints = append(s.constraints, Constraint{A: a, B: b, C: c})
}

// Mul allocates an output wire c, assigns it value(a)*value(b) and records
// the constraint (1*a) * (1*b) = (1*c). Both inputs must be assigned.
func (s *System) Mul(a, b Variable) (Variable, error) {
	va, err := s.Value(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.Value(b)
	if err != nil {
		return 0, err
	}
	one, err := s.one()
	if err != nil {
		return 0, err
	}
	prod, err := va.Mul(vb)
	if err != nil {
		return 0, err
	}

	c := s.AllocVariable()
	if err := s.Assign(c, prod); err != nil {
		return 0, err
	}

	lcA, err := LinearCombination{}.AddTerm(a, one)
	if err != nil {
		return 0, err
	}
	lcB, err := LinearCombination{}.AddTerm(b, one)
	if err != nil {
		return 0, err
	}
	lcC, err := LinearCombination{}.AddTerm(c, one)
	if err != nil {
		return 0, err
	}
	s.Enforce(lcA, lcB, lcC)
	return c, nil
}

// Add allocates an output wire c, assigns it value(a)+value(b) and records
// the constraint (1*a + 1*b) * (1*ONE) = (1*c).
func (s *System) Add(a, b Variable) (Variable, error) {
	va, err := s.Value(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.Value(b)
	if err != nil {
		return 0, err
	}
	one, err := s.one()
	if err != nil {
		return 0, err
	}
	sum, err := va.Add(vb)
	if err != nil {
		return 0, err
	}

	c := s.AllocVariable()
	if err := s.Assign(c, sum); err != nil {
		return 0, err
	}

	lcA, err := LinearCombination{}.AddTerm(a, one)
	if err != nil {
		return 0, err
	}
	if lcA, err = lcA.AddTerm(b, one); err != nil {
		return 0, err
	}
	lcB, err := LinearCombination{}.AddTerm(One, one)
	if err != nil {
		return 0, err
	}
	lcC, err := LinearCombination{}.AddTerm(c, one)
	if err != nil {
		return 0, err
	}
	s.Enforce(lcA, lcB, lcC)
	return c, nil
}

// AddConst allocates an output wire c, assigns it value(a)+k and records the
// constraint (1*a + k*ONE) * (1*ONE) = (1*c).
func (s *System) AddConst(a Variable, k field.Element) (Variable, error) {
	va, err := s.Value(a)
	if err != nil {
		return 0, err
	}
	one, err := s.one()
	if err != nil {
		return 0, err
	}
	sum, err := va.Add(k)
	if err != nil {
		return 0, err
	}

	c := s.AllocVariable()
	if err := s.Assign(c, sum); err != nil {
		return 0, err
	}

	lcA, err := LinearCombination{}.AddTerm(a, one)
	if err != nil {
		return 0, err
	}
	if lcA, err = lcA.AddTerm(One, k); err != nil {
		return 0, err
	}
	lcB, err := LinearCombination{}.AddTerm(One, one)
	if err != nil {
		return 0, err
	}
	lcC, err := LinearCombination{}.AddTerm(c, one)
	if err != nil {
		return 0, err
	}
	s.Enforce(lcA, lcB, lcC)
	return c, nil
}

// Witness reads every slot in index order and returns the dense witness
// vector; by construction index 0 holds the constant. It fails on the first
// unassigned slot.
func (s *System) Witness() ([]field.Element, error) {
	for i := 0; i < s.nbVariables; i++ {
		if !s.assigned.Test(uint(i)) {
			return nil, fmt.Errorf("%w: %d", ErrUnassignedVariable, i)
		}
	}
	w := make([]field.Element, s.nbVariables)
	copy(w, s.values)
	return w, nil
}

// IsSatisfied checks every constraint against the witness and reports false
// on the first gate where A*B != C.
func (s *System) IsSatisfied(witness []field.Element) (bool, error) {
	for k, c := range s.constraints {
		av, err := c.A.Evaluate(witness)
		if err != nil {
			return false, fmt.Errorf("constraint %d: %w", k, err)
		}
		bv, err := c.B.Evaluate(witness)
		if err != nil {
			return false, fmt.Errorf("constraint %d: %w", k, err)
		}
		cv, err := c.C.Evaluate(witness)
		if err != nil {
			return false, fmt.Errorf("constraint %d: %w", k, err)
		}
		prod, err := av.Mul(bv)
		if err != nil {
			return false, fmt.Errorf("constraint %d: %w", k, err)
		}
		if !prod.Equal(cv) {
			return false, nil
		}
	}
	return true, nil
}

// NbVariables returns the number of allocated variables, the constant
// included.
func (s *System) NbVariables() int { return s.nbVariables }

// NbConstraints returns the number of recorded constraints.
func (s *System) NbConstraints() int { return len(s.constraints) }

// Constraints returns the recorded constraints in insertion order. The slice
// is shared with the system and must not be mutated.
func (s *System) Constraints() []Constraint { return s.constraints }

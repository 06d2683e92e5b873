// Package qap converts a rank-1 constraint system into a quadratic arithmetic
// program: one polynomial per variable and matrix, interpolated so that
// evaluating the polynomial at constraint index k recovers the coefficient
// that variable carries in constraint k. Satisfiability of the system then
// becomes divisibility of A(x)*B(x) - C(x) by the vanishing polynomial.
package qap

import (
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/zkforge/qapc/field"
	"github.com/zkforge/qapc/poly"
	"github.com/zkforge/qapc/r1cs"
)

// QAP holds one polynomial per variable index for each of the three
// constraint matrices. All three sequences have the same length, the number
// of variables of the source system.
type QAP struct {
	APolys []poly.Polynomial
	BPolys []poly.Polynomial
	CPolys []poly.Polynomial

	NbConstraints int
	Modulus       *big.Int
}

// FromR1CS interpolates every (matrix, variable) column of the system.
//
// For each variable i the coefficients it carries across constraints form a
// dense vector of length NbConstraints (zero where the variable is absent),
// which Lagrange interpolation turns into the polynomial with
// poly(k) == coefficient in constraint k. Columns are independent, so the
// per-variable work runs in parallel over disjoint output slots.
func FromR1CS(sys *r1cs.System) (*QAP, error) {
	mod, err := sys.Modulus()
	if err != nil {
		return nil, err
	}

	nbVars := sys.NbVariables()
	constraints := sys.Constraints()
	q := &QAP{
		APolys:        make([]poly.Polynomial, nbVars),
		BPolys:        make([]poly.Polynomial, nbVars),
		CPolys:        make([]poly.Polynomial, nbVars),
		NbConstraints: len(constraints),
		Modulus:       mod,
	}

	var g errgroup.Group
	for i := 0; i < nbVars; i++ {
		i := i
		g.Go(func() error {
			v := r1cs.Variable(i)
			var err error
			if q.APolys[i], err = interpolateColumn(constraints, v, mod, func(c r1cs.Constraint) r1cs.LinearCombination { return c.A }); err != nil {
				return fmt.Errorf("variable %d, matrix A: %w", i, err)
			}
			if q.BPolys[i], err = interpolateColumn(constraints, v, mod, func(c r1cs.Constraint) r1cs.LinearCombination { return c.B }); err != nil {
				return fmt.Errorf("variable %d, matrix B: %w", i, err)
			}
			if q.CPolys[i], err = interpolateColumn(constraints, v, mod, func(c r1cs.Constraint) r1cs.LinearCombination { return c.C }); err != nil {
				return fmt.Errorf("variable %d, matrix C: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return q, nil
}

func interpolateColumn(constraints []r1cs.Constraint, v r1cs.Variable, mod *big.Int, lcOf func(r1cs.Constraint) r1cs.LinearCombination) (poly.Polynomial, error) {
	dense := make([]field.Element, len(constraints))
	zero := field.Zero(mod)
	for k, c := range constraints {
		if coeff, ok := lcOf(c).CoeffOf(v); ok {
			dense[k] = coeff
		} else {
			dense[k] = zero
		}
	}
	return poly.Interpolate(dense)
}

// Combine weights each variable's polynomials by its witness value and sums
// them into the composed A(x), B(x), C(x).
func (q *QAP) Combine(witness []field.Element) (a, b, c poly.Polynomial, err error) {
	if len(witness) != len(q.APolys) {
		return nil, nil, nil, fmt.Errorf("qap: witness length %d, want %d", len(witness), len(q.APolys))
	}
	a, b, c = poly.Zero(q.Modulus), poly.Zero(q.Modulus), poly.Zero(q.Modulus)
	for i, w := range witness {
		if a, err = accumulate(a, q.APolys[i], w); err != nil {
			return nil, nil, nil, err
		}
		if b, err = accumulate(b, q.BPolys[i], w); err != nil {
			return nil, nil, nil, err
		}
		if c, err = accumulate(c, q.CPolys[i], w); err != nil {
			return nil, nil, nil, err
		}
	}
	return a, b, c, nil
}

func accumulate(sum, p poly.Polynomial, w field.Element) (poly.Polynomial, error) {
	scaled, err := p.Scale(w)
	if err != nil {
		return nil, err
	}
	return sum.Add(scaled)
}

// Vanishing returns Z(x) = (x-0)(x-1)...(x-(m-1)), the monic polynomial of
// degree m that is zero at every constraint index.
func Vanishing(m int, mod *big.Int) (poly.Polynomial, error) {
	one := field.One(mod)
	z := poly.Polynomial{one}
	var err error
	for k := 0; k < m; k++ {
		xk := field.NewInt64(int64(k), mod)
		if z, err = z.Mul(poly.Polynomial{xk.Neg(), one}); err != nil {
			return nil, err
		}
	}
	return z, nil
}

// Divide composes P(x) = A(x)*B(x) - C(x) from the witness and divides it by
// the vanishing polynomial, returning the quotient H(x) and remainder R(x).
func (q *QAP) Divide(witness []field.Element) (h, r poly.Polynomial, err error) {
	a, b, c, err := q.Combine(witness)
	if err != nil {
		return nil, nil, err
	}
	ab, err := a.Mul(b)
	if err != nil {
		return nil, nil, err
	}
	p, err := ab.Sub(c)
	if err != nil {
		return nil, nil, err
	}
	z, err := Vanishing(q.NbConstraints, q.Modulus)
	if err != nil {
		return nil, nil, err
	}
	return p.QuoRem(z)
}

// Check reports whether the witness satisfies the source system: the
// remainder of P(x) by Z(x) is zero exactly when every constraint holds, and
// any unsatisfied gate leaves a nonzero residual at that gate's evaluation
// point.
func (q *QAP) Check(witness []field.Element) (bool, error) {
	_, r, err := q.Divide(witness)
	if err != nil {
		return false, err
	}
	return r.IsZero(), nil
}

package poly

import (
	"github.com/zkforge/qapc/field"
)

// QuoRem divides p by divisor with field-aware long division and returns
// (quotient, remainder) satisfying p == quotient*divisor + remainder with
// deg(remainder) < deg(divisor). Exact arithmetic, no rounding.
//
// Dividing by the zero polynomial returns ErrZeroDivisor. When
// deg(p) < deg(divisor) the quotient is zero and the remainder is p.
func (p Polynomial) QuoRem(divisor Polynomial) (Polynomial, Polynomial, error) {
	if divisor.IsZero() {
		return nil, nil, ErrZeroDivisor
	}
	d := divisor.trim()
	mod := d.modulus()
	rem := p.trim()
	if rem.IsZero() {
		return Zero(mod), Zero(mod), nil
	}
	if rem.Degree() < d.Degree() {
		return Zero(mod), New(rem), nil
	}

	leadInv, err := d[len(d)-1].Inverse()
	if err != nil {
		return nil, nil, err
	}

	quotient := make(Polynomial, rem.Degree()-d.Degree()+1)
	zero := field.Zero(mod)
	for i := range quotient {
		quotient[i] = zero
	}

	for !rem.IsZero() && rem.Degree() >= d.Degree() {
		shift := rem.Degree() - d.Degree()
		factor, err := rem[len(rem)-1].Mul(leadInv)
		if err != nil {
			return nil, nil, err
		}
		quotient[shift] = factor

		// rem -= factor * x^shift * divisor
		next := make(Polynomial, len(rem))
		copy(next, rem)
		for i, c := range d {
			prod, err := c.Mul(factor)
			if err != nil {
				return nil, nil, err
			}
			if next[i+shift], err = next[i+shift].Sub(prod); err != nil {
				return nil, nil, err
			}
		}
		rem = next.trim()
	}

	return quotient.trim(), New(rem), nil
}

// Div returns the quotient of p by divisor, discarding the remainder.
func (p Polynomial) Div(divisor Polynomial) (Polynomial, error) {
	q, _, err := p.QuoRem(divisor)
	return q, err
}

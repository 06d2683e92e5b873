package poly

import (
	"github.com/zkforge/qapc/field"
)

// Interpolate returns the unique polynomial of degree < len(ys) passing
// through the points (0, ys[0]), (1, ys[1]), ..., (n-1, ys[n-1]). The
// x-coordinates are implicit. An empty input yields the zero polynomial.
//
// For each index i the Lagrange basis numerator is the product of (x - j)
// over j != i and the denominator is the scalar product of (i - j); the
// basis is scaled by ys[i]/denominator and accumulated. Indices with a zero
// y-value contribute nothing and are skipped.
func Interpolate(ys []field.Element) (Polynomial, error) {
	if len(ys) == 0 {
		return nil, nil
	}
	mod := ys[0].Modulus
	sum := Zero(mod)
	one := field.One(mod)

	for i, y := range ys {
		if y.IsZero() {
			continue
		}
		numerator := Polynomial{one}
		denominator := one
		xi := field.NewInt64(int64(i), mod)
		var err error
		for j := range ys {
			if j == i {
				continue
			}
			xj := field.NewInt64(int64(j), mod)
			// numerator *= (x - j)
			if numerator, err = numerator.Mul(Polynomial{xj.Neg(), one}); err != nil {
				return nil, err
			}
			// denominator *= (i - j)
			diff, err := xi.Sub(xj)
			if err != nil {
				return nil, err
			}
			if denominator, err = denominator.Mul(diff); err != nil {
				return nil, err
			}
		}
		weight, err := y.Div(denominator)
		if err != nil {
			return nil, err
		}
		basis, err := numerator.Scale(weight)
		if err != nil {
			return nil, err
		}
		if sum, err = sum.Add(basis); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

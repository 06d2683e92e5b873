// Package poly implements dense univariate polynomials over a prime field.
//
// A Polynomial is a coefficient slice, index i holding the weight of x^i.
// Canonical form is trimmed: the highest-index coefficient is nonzero, except
// the zero polynomial which is a single zero coefficient. A nil slice is
// treated as the zero polynomial everywhere.
package poly

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/zkforge/qapc/field"
)

// ErrZeroDivisor is returned when dividing by the zero polynomial.
var ErrZeroDivisor = errors.New("poly: division by the zero polynomial")

type Polynomial []field.Element

// New returns the canonical polynomial with the given coefficients,
// trimming high-order zeros down to at least one coefficient.
func New(coeffs []field.Element) Polynomial {
	p := make(Polynomial, len(coeffs))
	copy(p, coeffs)
	return p.trim()
}

// Zero returns the canonical zero polynomial over Z/pZ.
func Zero(p *big.Int) Polynomial {
	return Polynomial{field.Zero(p)}
}

func (p Polynomial) trim() Polynomial {
	n := len(p)
	for n > 1 && p[n-1].IsZero() {
		n--
	}
	return p[:n]
}

// Degree returns len(p)-1; the zero and constant polynomials have degree 0.
func (p Polynomial) Degree() int {
	if len(p) == 0 {
		return 0
	}
	return len(p.trim()) - 1
}

// IsZero reports whether every coefficient is the additive identity.
func (p Polynomial) IsZero() bool {
	for _, c := range p {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether p and q are the same polynomial over the same field.
func (p Polynomial) Equal(q Polynomial) bool {
	a, b := p.trim(), q.trim()
	if a.IsZero() && b.IsZero() {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// modulus returns the modulus of the first coefficient, or nil for an empty
// polynomial.
func (p Polynomial) modulus() *big.Int {
	if len(p) == 0 {
		return nil
	}
	return p[0].Modulus
}

// Evaluate computes p(x) with Horner's rule in O(deg p) multiplications.
func (p Polynomial) Evaluate(x field.Element) (field.Element, error) {
	res := field.Zero(x.Modulus)
	var err error
	for i := len(p) - 1; i >= 0; i-- {
		if res, err = res.Mul(x); err != nil {
			return field.Element{}, err
		}
		if res, err = res.Add(p[i]); err != nil {
			return field.Element{}, err
		}
	}
	return res, nil
}

// Add returns p + q coefficientwise over the zero-padded union length.
func (p Polynomial) Add(q Polynomial) (Polynomial, error) {
	return p.combine(q, field.Element.Add)
}

// Sub returns p - q coefficientwise over the zero-padded union length.
func (p Polynomial) Sub(q Polynomial) (Polynomial, error) {
	return p.combine(q, field.Element.Sub)
}

func (p Polynomial) combine(q Polynomial, op func(field.Element, field.Element) (field.Element, error)) (Polynomial, error) {
	mod := p.modulus()
	if mod == nil {
		mod = q.modulus()
	}
	if mod == nil {
		return nil, nil
	}
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	zero := field.Zero(mod)
	res := make(Polynomial, n)
	for i := 0; i < n; i++ {
		a, b := zero, zero
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		c, err := op(a, b)
		if err != nil {
			return nil, err
		}
		res[i] = c
	}
	return res.trim(), nil
}

// Mul returns the full convolution p*q: result coefficient k is the sum of
// p_i*q_j over i+j == k.
func (p Polynomial) Mul(q Polynomial) (Polynomial, error) {
	mod := p.modulus()
	if mod == nil {
		mod = q.modulus()
	}
	if mod == nil {
		return nil, nil
	}
	if len(p) == 0 || len(q) == 0 {
		return Zero(mod), nil
	}
	res := make(Polynomial, len(p)+len(q)-1)
	zero := field.Zero(mod)
	for k := range res {
		res[k] = zero
	}
	for i := range p {
		for j := range q {
			prod, err := p[i].Mul(q[j])
			if err != nil {
				return nil, err
			}
			if res[i+j], err = res[i+j].Add(prod); err != nil {
				return nil, err
			}
		}
	}
	return res.trim(), nil
}

// Scale multiplies every coefficient by k.
func (p Polynomial) Scale(k field.Element) (Polynomial, error) {
	res := make(Polynomial, len(p))
	for i, c := range p {
		prod, err := c.Mul(k)
		if err != nil {
			return nil, err
		}
		res[i] = prod
	}
	return res.trim(), nil
}

// String renders the polynomial as a sum of terms in descending order,
// omitting zero terms except for the pure-zero polynomial.
func (p Polynomial) String() string {
	t := p.trim()
	if t.IsZero() {
		return "0"
	}
	var terms []string
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].IsZero() {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, t[i].Value.String())
		case 1:
			terms = append(terms, fmt.Sprintf("%sx", t[i].Value))
		default:
			terms = append(terms, fmt.Sprintf("%sx^%d", t[i].Value, i))
		}
	}
	return strings.Join(terms, " + ")
}

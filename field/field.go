// Package field implements exact arithmetic over a prime field Z/pZ with a
// runtime-chosen modulus.
//
// Unlike curve-specific field implementations, the modulus here is not fixed
// at build time: each Element carries the modulus it was constructed with, and
// two elements may only be combined when their moduli are equal. This is what
// lets the same code run over toy fields (p = 17 in the tests) and
// cryptographic ones (see moduli.go).
package field

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrFieldMismatch is returned when combining elements of different moduli.
	ErrFieldMismatch = errors.New("field: mismatched moduli")
	// ErrNoInverse is returned when inverting zero or, under a composite
	// modulus, a residue sharing a factor with it.
	ErrNoInverse = errors.New("field: no inverse")
	// ErrUnsupportedModulus is returned by Sqrt when the modulus is not
	// congruent to 3 mod 4.
	ErrUnsupportedModulus = errors.New("field: sqrt requires modulus 3 mod 4")
	// ErrNoSquareRoot is returned by Sqrt for quadratic non-residues.
	ErrNoSquareRoot = errors.New("field: not a quadratic residue")
	// ErrNotPrime is returned by CheckModulus.
	ErrNotPrime = errors.New("field: modulus is not prime")
)

// Element is a residue modulo p, always kept in [0, p).
//
// Operations return fresh elements and never mutate their operands, so an
// Element can be shared freely. The modulus pointer itself is shared between
// elements derived from one another; callers must not mutate it.
//
// Primality of the modulus is an unchecked precondition: New accepts any
// positive modulus, and Inverse misbehaves only in the ways ErrNoInverse
// describes when it is composite. Use CheckModulus to validate eagerly.
type Element struct {
	Value   *big.Int
	Modulus *big.Int
}

// New returns v mod p, normalized into [0, p). big.Int.Mod is the Euclidean
// remainder, so negative v normalizes to the positive representative.
func New(v, p *big.Int) Element {
	return Element{Value: new(big.Int).Mod(v, p), Modulus: p}
}

// NewInt64 is a convenience form of New for small literals.
func NewInt64(v int64, p *big.Int) Element {
	return New(big.NewInt(v), p)
}

// Zero returns the additive identity of Z/pZ.
func Zero(p *big.Int) Element { return NewInt64(0, p) }

// One returns the multiplicative identity of Z/pZ.
func One(p *big.Int) Element { return NewInt64(1, p) }

// CheckModulus reports whether p is usable as a field modulus; it returns
// ErrNotPrime for nil, non-positive or (probably) composite p.
func CheckModulus(p *big.Int) error {
	if p == nil || p.Sign() <= 0 || !p.ProbablyPrime(20) {
		return fmt.Errorf("%w: %v", ErrNotPrime, p)
	}
	return nil
}

func (a Element) sameField(b Element) error {
	if a.Modulus.Cmp(b.Modulus) != 0 {
		return fmt.Errorf("%w: %s vs %s", ErrFieldMismatch, a.Modulus, b.Modulus)
	}
	return nil
}

// Add returns a + b.
func (a Element) Add(b Element) (Element, error) {
	if err := a.sameField(b); err != nil {
		return Element{}, err
	}
	return New(new(big.Int).Add(a.Value, b.Value), a.Modulus), nil
}

// Sub returns a - b.
func (a Element) Sub(b Element) (Element, error) {
	if err := a.sameField(b); err != nil {
		return Element{}, err
	}
	return New(new(big.Int).Sub(a.Value, b.Value), a.Modulus), nil
}

// Mul returns a * b.
func (a Element) Mul(b Element) (Element, error) {
	if err := a.sameField(b); err != nil {
		return Element{}, err
	}
	return New(new(big.Int).Mul(a.Value, b.Value), a.Modulus), nil
}

// Neg returns -a.
func (a Element) Neg() Element {
	return New(new(big.Int).Neg(a.Value), a.Modulus)
}

// Inverse returns x with a*x == 1 mod p. It fails with ErrNoInverse for zero,
// and for any residue not coprime with a composite modulus.
func (a Element) Inverse() (Element, error) {
	inv := new(big.Int).ModInverse(a.Value, a.Modulus)
	if inv == nil {
		return Element{}, fmt.Errorf("%w: %s", ErrNoInverse, a)
	}
	return Element{Value: inv, Modulus: a.Modulus}, nil
}

// Div returns a * b^-1.
func (a Element) Div(b Element) (Element, error) {
	if err := a.sameField(b); err != nil {
		return Element{}, err
	}
	inv, err := b.Inverse()
	if err != nil {
		return Element{}, err
	}
	return a.Mul(inv)
}

// Exp returns a^e by square-and-multiply over the bits of e. e must be
// non-negative; e = 0 yields one for any a, including zero.
func (a Element) Exp(e *big.Int) (Element, error) {
	if e.Sign() < 0 {
		return Element{}, fmt.Errorf("field: negative exponent %s", e)
	}
	res := One(a.Modulus)
	base := a
	var err error
	for i := 0; i < e.BitLen(); i++ {
		if e.Bit(i) == 1 {
			if res, err = res.Mul(base); err != nil {
				return Element{}, err
			}
		}
		if base, err = base.Mul(base); err != nil {
			return Element{}, err
		}
	}
	return res, nil
}

// Sqrt returns a square root of a, defined only for moduli congruent to
// 3 mod 4 (the general even-order case, Tonelli-Shanks, is unsupported).
// The candidate a^((p+1)/4) is verified by squaring; when it fails the
// verification, a is a non-residue and ErrNoSquareRoot is returned. When a
// root r exists, p-r is the other root; only r is returned.
func (a Element) Sqrt() (Element, error) {
	mod4 := new(big.Int).Mod(a.Modulus, big.NewInt(4))
	if mod4.Cmp(big.NewInt(3)) != 0 {
		return Element{}, fmt.Errorf("%w: %s", ErrUnsupportedModulus, a.Modulus)
	}
	e := new(big.Int).Add(a.Modulus, big.NewInt(1))
	e.Rsh(e, 2)
	root, err := a.Exp(e)
	if err != nil {
		return Element{}, err
	}
	sq, err := root.Mul(root)
	if err != nil {
		return Element{}, err
	}
	if !sq.Equal(a) {
		return Element{}, fmt.Errorf("%w: %s", ErrNoSquareRoot, a)
	}
	return root, nil
}

// Equal reports whether a and b are the same residue of the same field.
func (a Element) Equal(b Element) bool {
	return a.Modulus.Cmp(b.Modulus) == 0 && a.Value.Cmp(b.Value) == 0
}

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool {
	return a.Value.Sign() == 0
}

// IsOne reports whether a is the multiplicative identity.
func (a Element) IsOne() bool {
	return a.Value.Cmp(big.NewInt(1)) == 0
}

func (a Element) String() string {
	return fmt.Sprintf("%s mod %s", a.Value, a.Modulus)
}

package qap

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkforge/qapc/field"
	"github.com/zkforge/qapc/poly"
	"github.com/zkforge/qapc/r1cs"
)

var p17 = big.NewInt(17)

// cubicSystem builds v1 = x*x; v2 = v1*x; y = v2 + 5 over p = 17.
func cubicSystem(t *testing.T, x int64) *r1cs.System {
	t.Helper()
	s := r1cs.NewSystem()
	s.InitOne(field.One(p17))

	xv := s.AllocVariable()
	require.NoError(t, s.Assign(xv, field.NewInt64(x, p17)))

	v1, err := s.Mul(xv, xv)
	require.NoError(t, err)
	v2, err := s.Mul(v1, xv)
	require.NoError(t, err)
	_, err = s.AddConst(v2, field.NewInt64(5, p17))
	require.NoError(t, err)
	return s
}

func TestFromR1CSContract(t *testing.T) {
	s := cubicSystem(t, 3)
	q, err := FromR1CS(s)
	require.NoError(t, err)

	require.Len(t, q.APolys, s.NbVariables())
	require.Len(t, q.BPolys, s.NbVariables())
	require.Len(t, q.CPolys, s.NbVariables())
	require.Equal(t, s.NbConstraints(), q.NbConstraints)

	// A_i(k), B_i(k), C_i(k) must recover the coefficient of variable i in
	// constraint k's matrix, zero when absent.
	for i := 0; i < s.NbVariables(); i++ {
		for k, c := range s.Constraints() {
			at := field.NewInt64(int64(k), p17)
			for _, m := range []struct {
				name string
				lc   r1cs.LinearCombination
				p    poly.Polynomial
			}{
				{"A", c.A, q.APolys[i]},
				{"B", c.B, q.BPolys[i]},
				{"C", c.C, q.CPolys[i]},
			} {
				want, ok := m.lc.CoeffOf(r1cs.Variable(i))
				if !ok {
					want = field.Zero(p17)
				}
				got, err := m.p.Evaluate(at)
				require.NoError(t, err)
				require.True(t, got.Equal(want), "matrix %s, variable %d, constraint %d: got %s want %s", m.name, i, k, got, want)
			}
		}
	}
}

func TestVanishing(t *testing.T) {
	z, err := Vanishing(3, p17)
	require.NoError(t, err)
	require.Equal(t, 3, z.Degree())
	// monic
	require.True(t, z[len(z)-1].IsOne())
	// zero at every constraint index, nonzero just outside
	for k := int64(0); k < 3; k++ {
		v, err := z.Evaluate(field.NewInt64(k, p17))
		require.NoError(t, err)
		require.True(t, v.IsZero(), "Z(%d)", k)
	}
	v, err := z.Evaluate(field.NewInt64(3, p17))
	require.NoError(t, err)
	require.False(t, v.IsZero())

	// m = 0: the empty product
	z, err = Vanishing(0, p17)
	require.NoError(t, err)
	require.Equal(t, 0, z.Degree())
	require.True(t, z[0].IsOne())
}

func TestEndToEndDivisibility(t *testing.T) {
	s := cubicSystem(t, 3)
	w, err := s.Witness()
	require.NoError(t, err)

	q, err := FromR1CS(s)
	require.NoError(t, err)

	h, r, err := q.Divide(w)
	require.NoError(t, err)
	require.True(t, r.IsZero(), "remainder %s", r)
	require.False(t, h.IsZero())

	ok, err := q.Check(w)
	require.NoError(t, err)
	require.True(t, ok)

	// H(x)*Z(x) reconstructs P(x) exactly when the remainder vanishes
	a, b, c, err := q.Combine(w)
	require.NoError(t, err)
	ab, err := a.Mul(b)
	require.NoError(t, err)
	p, err := ab.Sub(c)
	require.NoError(t, err)
	z, err := Vanishing(q.NbConstraints, p17)
	require.NoError(t, err)
	hz, err := h.Mul(z)
	require.NoError(t, err)
	require.True(t, hz.Equal(p))
}

func TestTamperedWitnessFailsDivisibility(t *testing.T) {
	s := cubicSystem(t, 3)
	w, err := s.Witness()
	require.NoError(t, err)
	q, err := FromR1CS(s)
	require.NoError(t, err)

	// the output slot set to garbage
	tampered := make([]field.Element, len(w))
	copy(tampered, w)
	tampered[4] = field.NewInt64(999, p17)

	_, r, err := q.Divide(tampered)
	require.NoError(t, err)
	require.False(t, r.IsZero())

	ok, err := q.Check(tampered)
	require.NoError(t, err)
	require.False(t, ok)

	// every single-entry mutation must be caught
	for i := 1; i < len(w); i++ {
		tampered := make([]field.Element, len(w))
		copy(tampered, w)
		bad, err := tampered[i].Add(field.One(p17))
		require.NoError(t, err)
		tampered[i] = bad
		ok, err := q.Check(tampered)
		require.NoError(t, err)
		require.False(t, ok, "mutated slot %d", i)
	}
}

func TestCombineLengthMismatch(t *testing.T) {
	s := cubicSystem(t, 3)
	q, err := FromR1CS(s)
	require.NoError(t, err)
	_, _, _, err = q.Combine([]field.Element{field.One(p17)})
	require.Error(t, err)
}

func TestFromR1CSUninitialized(t *testing.T) {
	_, err := FromR1CS(r1cs.NewSystem())
	require.ErrorIs(t, err, r1cs.ErrUnknownVariable)
}

func TestLargeField(t *testing.T) {
	// the same pipeline over the BN254 scalar field
	mod := field.BN254Fr()
	s := r1cs.NewSystem()
	s.InitOne(field.One(mod))

	xv := s.AllocVariable()
	require.NoError(t, s.Assign(xv, field.NewInt64(3, mod)))
	v1, err := s.Mul(xv, xv)
	require.NoError(t, err)
	v2, err := s.Mul(v1, xv)
	require.NoError(t, err)
	_, err = s.AddConst(v2, field.NewInt64(5, mod))
	require.NoError(t, err)

	w, err := s.Witness()
	require.NoError(t, err)
	require.Equal(t, int64(32), w[4].Value.Int64())

	q, err := FromR1CS(s)
	require.NoError(t, err)
	ok, err := q.Check(w)
	require.NoError(t, err)
	require.True(t, ok)
}

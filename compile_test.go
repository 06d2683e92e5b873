package qapc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkforge/qapc/field"
	"github.com/zkforge/qapc/r1cs"
)

func buildCubic(t *testing.T, mod *big.Int, x int64) *r1cs.System {
	t.Helper()
	s := r1cs.NewSystem()
	s.InitOne(field.One(mod))

	xv := s.AllocVariable()
	require.NoError(t, s.Assign(xv, field.NewInt64(x, mod)))

	v1, err := s.Mul(xv, xv)
	require.NoError(t, err)
	v2, err := s.Mul(v1, xv)
	require.NoError(t, err)
	_, err = s.AddConst(v2, field.NewInt64(5, mod))
	require.NoError(t, err)
	return s
}

func TestPipeline(t *testing.T) {
	s := buildCubic(t, big.NewInt(17), 3)

	res, err := Arithmetize(s)
	require.NoError(t, err)
	require.Len(t, res.Witness(), 5)
	require.Equal(t, 3, res.QAP().NbConstraints)

	ok, err := res.Check()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Check(s)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWitnessAccessorIsolated(t *testing.T) {
	s := buildCubic(t, big.NewInt(17), 3)
	res, err := Arithmetize(s)
	require.NoError(t, err)

	// mutating the returned slice must not corrupt the result
	w := res.Witness()
	w[4] = field.NewInt64(999, big.NewInt(17))
	ok, err := res.Check()
	require.NoError(t, err)
	require.True(t, ok)

	// while the mutated copy itself fails the divisibility test
	ok, err = res.QAP().Check(w)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPipelineRejectsCompositeModulus(t *testing.T) {
	s := r1cs.NewSystem()
	s.InitOne(field.One(big.NewInt(15)))
	_, err := Arithmetize(s)
	require.ErrorIs(t, err, field.ErrNotPrime)
}

func TestPipelineUnfinishedSystem(t *testing.T) {
	s := r1cs.NewSystem()
	s.InitOne(field.One(big.NewInt(17)))
	s.AllocVariable() // never assigned
	_, err := Arithmetize(s)
	require.ErrorIs(t, err, r1cs.ErrUnassignedVariable)
}

package qapc

import (
	"github.com/zkforge/qapc/field"
	"github.com/zkforge/qapc/logger"
	"github.com/zkforge/qapc/qap"
	"github.com/zkforge/qapc/r1cs"
)

// Arithmetize finalizes the system's witness and interpolates its QAP.
// The system must be fully built: constant wire initialized, every variable
// assigned. The modulus is validated eagerly, so a composite modulus fails
// here with field.ErrNotPrime instead of misbehaving later in Inverse.
func Arithmetize(sys *r1cs.System) (*Result, error) {
	log := logger.Logger()

	mod, err := sys.Modulus()
	if err != nil {
		return nil, err
	}
	if err := field.CheckModulus(mod); err != nil {
		return nil, err
	}

	witness, err := sys.Witness()
	if err != nil {
		return nil, err
	}
	q, err := qap.FromR1CS(sys)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("nbVariables", sys.NbVariables()).
		Int("nbConstraints", sys.NbConstraints()).
		Str("modulus", mod.String()).
		Msg("arithmetized r1cs")

	return &Result{qap: q, witness: witness}, nil
}

// Check arithmetizes the system and runs the full satisfiability protocol:
// combine the witness-weighted polynomials, divide A(x)*B(x) - C(x) by the
// vanishing polynomial and test the remainder for zero.
func Check(sys *r1cs.System) (bool, error) {
	res, err := Arithmetize(sys)
	if err != nil {
		return false, err
	}
	return res.Check()
}

package field

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

// Preset moduli for common curves. The base fields of BN254 and BLS12-381 are
// congruent to 3 mod 4, so Sqrt works over them; the scalar fields are not.

// BN254Fp returns the BN254 base field modulus.
func BN254Fp() *big.Int { return ecc.BN254.BaseField() }

// BN254Fr returns the BN254 scalar field modulus.
func BN254Fr() *big.Int { return ecc.BN254.ScalarField() }

// BLS12381Fp returns the BLS12-381 base field modulus.
func BLS12381Fp() *big.Int { return ecc.BLS12_381.BaseField() }

// BLS12381Fr returns the BLS12-381 scalar field modulus.
func BLS12381Fr() *big.Int { return ecc.BLS12_381.ScalarField() }

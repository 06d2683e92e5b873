// Package qapc arithmetizes rank-1 constraint systems into quadratic
// arithmetic programs over a prime field and checks circuit satisfiability
// through the polynomial identity A(x)*B(x) - C(x) = H(x)*Z(x).
//
// It is the plaintext arithmetization stage of a proof system: no hiding, no
// succinctness, no cryptographic binding. Those require pairings, commitments
// and a trusted setup, which live outside this module.
package qapc

import (
	"github.com/zkforge/qapc/field"
	"github.com/zkforge/qapc/qap"
)

// Result bundles the outputs of Arithmetize.
type Result struct {
	qap     *qap.QAP
	witness []field.Element
}

// QAP returns the interpolated program.
func (r *Result) QAP() *qap.QAP {
	return r.qap
}

// Witness returns a copy of the dense witness vector, index 0 holding the
// constant 1. Mutating it does not affect later calls to Check.
func (r *Result) Witness() []field.Element {
	w := make([]field.Element, len(r.witness))
	copy(w, r.witness)
	return w
}

// Check runs the divisibility test on the arithmetized system.
func (r *Result) Check() (bool, error) {
	return r.qap.Check(r.witness)
}

package r1cs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zkforge/qapc/field"
)

// Serialization splits the system into two cbor blocks, body (counters,
// modulus, assignments) and constraints, encoded in parallel and written
// behind a fixed-size header of block lengths. Field values travel as
// big-endian bytes.

type serializedTerm struct {
	Var   int    `cbor:"v"`
	Coeff []byte `cbor:"c"`
}

type serializedConstraint struct {
	A []serializedTerm `cbor:"a"`
	B []serializedTerm `cbor:"b"`
	C []serializedTerm `cbor:"c"`
}

type serializedBody struct {
	NbVariables int      `cbor:"n"`
	Modulus     []byte   `cbor:"p"`
	Assigned    []uint   `cbor:"i"`
	Values      [][]byte `cbor:"w"`
}

const marshalHeaderLen = 16

// maxSerializedLen bounds the decoded block lengths and the variable count;
// a corrupt or hostile header fails cleanly instead of driving an allocation.
const maxSerializedLen = 1 << 30

// WriteTo serializes the system, assignments included, so a solved system
// round-trips.
func (s *System) WriteTo(w io.Writer) (int64, error) {
	mod, err := s.Modulus()
	if err != nil {
		return 0, err
	}

	var body, cons []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		cons, err = s.constraintsToBytes()
		return err
	})
	body, err = s.bodyToBytes(mod)
	if err != nil {
		return 0, err
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var header [marshalHeaderLen]byte
	binary.BigEndian.PutUint64(header[0:8], uint64(len(body)))
	binary.BigEndian.PutUint64(header[8:16], uint64(len(cons)))

	var written int64
	for _, block := range [][]byte{header[:], body, cons} {
		n, err := w.Write(block)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadFrom deserializes a system previously written with WriteTo.
func (s *System) ReadFrom(r io.Reader) (int64, error) {
	var header [marshalHeaderLen]byte
	read, err := io.ReadFull(r, header[:])
	if err != nil {
		return int64(read), err
	}
	bodyLen := binary.BigEndian.Uint64(header[0:8])
	consLen := binary.BigEndian.Uint64(header[8:16])
	if bodyLen > maxSerializedLen || consLen > maxSerializedLen {
		return int64(read), fmt.Errorf("r1cs: corrupt header: block lengths %d, %d", bodyLen, consLen)
	}

	buf := make([]byte, bodyLen+consLen)
	n, err := io.ReadFull(r, buf)
	total := int64(read) + int64(n)
	if err != nil {
		return total, err
	}

	var body serializedBody
	if err := cbor.Unmarshal(buf[:bodyLen], &body); err != nil {
		return total, fmt.Errorf("r1cs: decoding body: %w", err)
	}
	var cons []serializedConstraint
	if err := cbor.Unmarshal(buf[bodyLen:], &cons); err != nil {
		return total, fmt.Errorf("r1cs: decoding constraints: %w", err)
	}
	if body.NbVariables < 0 || body.NbVariables > maxSerializedLen {
		return total, fmt.Errorf("r1cs: corrupt body: %d variables", body.NbVariables)
	}
	if len(body.Assigned) != len(body.Values) {
		return total, errors.New("r1cs: corrupt assignment block")
	}

	mod := new(big.Int).SetBytes(body.Modulus)
	s.nbVariables = body.NbVariables
	s.values = make([]field.Element, body.NbVariables)
	s.assigned = bitset.New(uint(body.NbVariables))
	for i, idx := range body.Assigned {
		if int(idx) >= body.NbVariables {
			return total, errors.New("r1cs: corrupt assignment block")
		}
		s.values[idx] = field.New(new(big.Int).SetBytes(body.Values[i]), mod)
		s.assigned.Set(idx)
	}

	s.constraints = make([]Constraint, len(cons))
	for i, c := range cons {
		s.constraints[i] = Constraint{
			A: termsFromSerialized(c.A, mod),
			B: termsFromSerialized(c.B, mod),
			C: termsFromSerialized(c.C, mod),
		}
	}
	return total, nil
}

func (s *System) bodyToBytes(mod *big.Int) ([]byte, error) {
	body := serializedBody{
		NbVariables: s.nbVariables,
		Modulus:     mod.Bytes(),
	}
	for i := uint(0); i < uint(s.nbVariables); i++ {
		if s.assigned.Test(i) {
			body.Assigned = append(body.Assigned, i)
			body.Values = append(body.Values, s.values[i].Value.Bytes())
		}
	}
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(body)
}

func (s *System) constraintsToBytes() ([]byte, error) {
	cons := make([]serializedConstraint, len(s.constraints))
	for i, c := range s.constraints {
		cons[i] = serializedConstraint{
			A: termsToSerialized(c.A),
			B: termsToSerialized(c.B),
			C: termsToSerialized(c.C),
		}
	}
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(cons)
}

func termsToSerialized(lc LinearCombination) []serializedTerm {
	res := make([]serializedTerm, len(lc))
	for i, t := range lc {
		res[i] = serializedTerm{Var: int(t.Var), Coeff: t.Coeff.Value.Bytes()}
	}
	return res
}

func termsFromSerialized(terms []serializedTerm, mod *big.Int) LinearCombination {
	res := make(LinearCombination, len(terms))
	for i, t := range terms {
		res[i] = Term{Var: Variable(t.Var), Coeff: field.New(new(big.Int).SetBytes(t.Coeff), mod)}
	}
	return res
}

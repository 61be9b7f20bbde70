// Package kzg implements the KZG polynomial commitment scheme: committing a
// polynomial to a single G1 point, committing a bare scalar, and opening a
// commitment at a point. Built directly over field's G1/G2 types rather
// than gnark-crypto's own fr/kzg package, whose SRS and proof shapes are
// tied one-for-one to a specific curve instantiation and don't expose the
// bare commit_para/open primitives this system's verifier needs piecewise.
package kzg

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/poly"
	"github.com/VanhGer/plonk-ckb/srs"
)

// Commitment is a newtype over a G1 point, carrying no extra state, so that
// commitment arithmetic reads as commitment arithmetic rather than raw
// curve-point juggling at every call site.
type Commitment struct {
	Point field.G1Point
}

// Scheme binds commit/open operations to a fixed Srs.
type Scheme struct {
	Srs *srs.Srs
}

// New returns a Scheme backed by the given Srs.
func New(s *srs.Srs) *Scheme {
	return &Scheme{Srs: s}
}

// ErrPolynomialTooLarge is a ProverError: the polynomial's degree exceeds
// what the SRS can commit to.
type ErrPolynomialTooLarge struct {
	Degree  int
	SrsSize int
}

func (e *ErrPolynomialTooLarge) Error() string {
	return fmt.Sprintf("kzg: polynomial of degree %d exceeds SRS size %d", e.Degree, e.SrsSize)
}

// Commit returns C = Σ c_i·g1_points[i], the multi-scalar-multiplication
// commitment to p. Returns ErrPolynomialTooLarge if deg(p) >= len(SRS.G1Points).
func (s *Scheme) Commit(p poly.Poly) (Commitment, error) {
	if len(p) > len(s.Srs.G1Points) {
		return Commitment{}, &ErrPolynomialTooLarge{Degree: p.Degree(), SrsSize: len(s.Srs.G1Points)}
	}
	if len(p) == 0 {
		return Commitment{}, nil
	}

	var acc field.G1Point
	if _, err := acc.MultiExp(s.Srs.G1Points[:len(p)], toFrSlice(p), ecc.MultiExpConfig{ScalarsMont: true}); err != nil {
		return Commitment{}, err
	}
	return Commitment{Point: acc}, nil
}

// CommitScalar returns a·g1_points[0], the commitment to a bare scalar.
// Used by the verifier to commit to the scalar combinations r₀,
// -r₀+v·ā+... without building a degree-0 polynomial.
func (s *Scheme) CommitScalar(a *field.Fr) Commitment {
	var aBig big.Int
	a.ToBigIntRegular(&aBig)
	var out field.G1Point
	out.ScalarMultiplication(&s.Srs.G1Points[0], &aBig)
	return Commitment{Point: out}
}

// Open computes q(x) = (p(x) - p(z))/(x - z) and returns commit(q), the
// KZG opening proof that p(z) is the claimed evaluation.
func (s *Scheme) Open(p poly.Poly, z *field.Fr) (Commitment, error) {
	pz := p.Eval(z)
	numerator := poly.AddConstant(p, negate(&pz))
	divisor := poly.New([]field.Fr{negate(z), field.One()}) // x - z
	q, r, err := poly.DivRem(numerator, divisor)
	if err != nil {
		return Commitment{}, err
	}
	if !r.IsZero() {
		// p(z) was computed from p itself, so (x-z) must divide exactly;
		// a non-zero remainder here is a programming error, not bad input.
		panic("kzg: opening remainder not zero")
	}
	return s.Commit(q)
}

func negate(a *field.Fr) field.Fr {
	var out field.Fr
	out.Neg(a)
	return out
}

// Add returns the sum of two commitments.
func Add(a, b Commitment) Commitment {
	var out field.G1Point
	out.Add(&a.Point, &b.Point)
	return Commitment{Point: out}
}

// Sub returns a - b.
func Sub(a, b Commitment) Commitment {
	var out field.G1Point
	out.Sub(&a.Point, &b.Point)
	return Commitment{Point: out}
}

// Neg returns -a.
func Neg(a Commitment) Commitment {
	var out field.G1Point
	out.Neg(&a.Point)
	return Commitment{Point: out}
}

// ScalarMul returns c·a.
func ScalarMul(a Commitment, c *field.Fr) Commitment {
	var cBig big.Int
	c.ToBigIntRegular(&cBig)
	var out field.G1Point
	out.ScalarMultiplication(&a.Point, &cBig)
	return Commitment{Point: out}
}

func toFrSlice(p poly.Poly) []field.Fr {
	return []field.Fr(p)
}

// Encode returns the uncompressed 96-byte encoding of the commitment's
// underlying G1 point.
func (c Commitment) Encode() [field.SizeOfG1Uncompressed]byte {
	return field.EncodeG1(&c.Point)
}

// DecodeCommitment parses an uncompressed G1 point into a Commitment.
func DecodeCommitment(b []byte) (Commitment, error) {
	p, err := field.DecodeG1(b)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{Point: p}, nil
}

// Package field wraps the BLS12-381 scalar field and the two source groups
// of the pairing in the shapes the rest of this module needs: safe inversion,
// canonical byte encoding, and the curve-point aliases that every other
// package builds on.
package field

import (
	"errors"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Fr is an element of the scalar field of BLS12-381.
type Fr = fr.Element

// G1Point and G2Point are affine points on the two source groups of the
// pairing. The zero value is the point at infinity.
type G1Point = bls12381.G1Affine
type G2Point = bls12381.G2Affine

// GT is the pairing target group.
type GT = bls12381.GT

// ErrInverseOfZero is FieldError::InverseOfZero from the error taxonomy: the
// zero element has no multiplicative inverse.
var ErrInverseOfZero = errors.New("field: inverse of zero")

// Inverse returns a^-1, or ErrInverseOfZero if a is the zero element.
// Unlike fr.Element.Inverse, which returns zero on a zero input, this
// refuses to paper over the undefined case.
func Inverse(a *Fr) (Fr, error) {
	if a.IsZero() {
		return Fr{}, ErrInverseOfZero
	}
	var out Fr
	out.Inverse(a)
	return out, nil
}

// One returns the multiplicative identity.
func One() Fr {
	var one Fr
	one.SetOne()
	return one
}

// FrSize is the canonical little-endian byte width of an Fr element.
const FrSize = fr.Bytes

// EncodeFr writes a in canonical little-endian form.
func EncodeFr(a *Fr) [FrSize]byte {
	be := a.Bytes() // gnark-crypto returns big-endian canonical bytes
	var le [FrSize]byte
	for i, b := range be {
		le[FrSize-1-i] = b
	}
	return le
}

// DecodeFr reads a canonical little-endian encoding of an Fr element,
// rejecting non-canonical encodings (a value >= the field modulus) by
// re-encoding the reduced element and comparing against the input.
func DecodeFr(b []byte) (Fr, error) {
	if len(b) != FrSize {
		return Fr{}, ErrTruncated
	}
	var be [FrSize]byte
	for i, v := range b {
		be[FrSize-1-i] = v
	}
	var out Fr
	out.SetBytes(be[:])
	if out.Bytes() != be {
		return Fr{}, ErrNonCanonical
	}
	return out, nil
}

// ErrNonCanonical and ErrTruncated are EncodingError conditions raised while
// decoding Fr elements.
var (
	ErrNonCanonical = errors.New("field: non-canonical Fr encoding")
	ErrTruncated    = errors.New("field: truncated Fr encoding")
)

// RandomFr draws a uniform Fr element from r. r must produce at least
// FrSize bytes per Read call cycle (any io.Reader satisfying that, such as
// a seeded math/rand source wrapped to the reader interface, works); in
// production this is backed by crypto/rand.
func RandomFr(r interface{ Read([]byte) (int, error) }) (Fr, error) {
	var buf [FrSize]byte
	if _, err := r.Read(buf[:]); err != nil {
		return Fr{}, err
	}
	var out Fr
	out.SetBytes(buf[:])
	return out, nil
}

// ToBigInt returns the regular (non-Montgomery) big.Int representation of a.
func ToBigInt(a *Fr) *big.Int {
	var out big.Int
	a.ToBigIntRegular(&out)
	return &out
}

// Pair computes e(P, Q), the bilinear pairing of a G1 and G2 point.
func Pair(p *G1Point, q *G2Point) (GT, error) {
	return bls12381.Pair([]bls12381.G1Affine{*p}, []bls12381.G2Affine{*q})
}

// PairingCheck returns true iff the product of e(ps[i], qs[i]) over all i
// is the identity in GT: the single multi-pairing check the verifier
// reduces acceptance to.
func PairingCheck(ps []G1Point, qs []G2Point) (bool, error) {
	return bls12381.PairingCheck(ps, qs)
}

// Generators returns the canonical generators of G1 and G2 in affine form;
// the Jacobian forms gnark-crypto's bls12381.Generators also returns are
// dropped.
func Generators() (g1Aff G1Point, g2Aff G2Point) {
	_, _, g1Aff, g2Aff = bls12381.Generators()
	return
}

// SizeOfG1Uncompressed and SizeOfG2Uncompressed are the byte widths of the
// uncompressed point encoding used on disk and in proofs (48-byte x ||
// 48-byte y, doubled for the G2 quadratic-extension coordinates).
const (
	SizeOfG1Uncompressed = bls12381.SizeOfG1AffineUncompressed
	SizeOfG2Uncompressed = bls12381.SizeOfG2AffineUncompressed
)

// EncodeG1 returns the uncompressed 96-byte encoding of p.
func EncodeG1(p *G1Point) [SizeOfG1Uncompressed]byte {
	return p.RawBytes()
}

// DecodeG1 parses an uncompressed or compressed G1 point, rejecting points
// not on the curve or not in the correct subgroup.
func DecodeG1(b []byte) (G1Point, error) {
	var p G1Point
	if _, err := p.SetBytes(b); err != nil {
		return G1Point{}, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return p, nil
}

// EncodeG2 returns the uncompressed 192-byte encoding of p.
func EncodeG2(p *G2Point) [SizeOfG2Uncompressed]byte {
	return p.RawBytes()
}

// DecodeG2 parses an uncompressed or compressed G2 point, rejecting points
// not on the curve or not in the correct subgroup.
func DecodeG2(b []byte) (G2Point, error) {
	var p G2Point
	if _, err := p.SetBytes(b); err != nil {
		return G2Point{}, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return p, nil
}

// ErrInvalidPoint is an EncodingError: the bytes do not describe a point on
// the curve, or not in the correct subgroup.
var ErrInvalidPoint = errors.New("field: invalid curve point encoding")

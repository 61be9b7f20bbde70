// Package srs builds and (de)serializes the structured reference string
// the KZG scheme commits against: a vector of G1 powers of a secret s, plus
// g2 and g2*s for the pairing check.
package srs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/VanhGer/plonk-ckb/field"
)

// MinSize is the smallest SRS gnark-crypto-style constructions accept.
const MinSize = 2

// ErrMinSize, ErrCosetShiftsNotDisjoint are SetupError conditions.
var (
	ErrMinSize                = fmt.Errorf("srs: size must be at least %d", MinSize)
	ErrCosetShiftsNotDisjoint = fmt.Errorf("srs: coset shifts k1, k2 are not disjoint from H")
)

// Srs is the structured reference string: g1_points[i] = g1*s^i for
// i in [0, len(G1Points)), plus g2 and g2*s for a single secret s that
// exists only transiently during generation.
type Srs struct {
	G1Points []field.G1Point
	G2       field.G2Point
	G2s      field.G2Point
}

// NewSampled generates an Srs of the given size from the caller-supplied
// secret (cmd/setup draws it from crypto/rand; tests pass fixed values);
// the secret is never retained once the powers are computed. This mirrors
// the teacher's TestOnly setup path (kzg_bls12381.NewSRS with a throwaway
// big.Int secret) generalized to a secret chosen by the caller, since
// production use here also discards the secret immediately rather than
// embedding a fixed ceremony transcript at compile time.
func NewSampled(size uint64, secret *big.Int) (*Srs, error) {
	if size < MinSize {
		return nil, ErrMinSize
	}

	g1Gen, g2Gen := field.Generators()

	var s field.Fr
	s.SetBigInt(secret)

	var out Srs
	out.G1Points = make([]field.G1Point, size)
	out.G1Points[0] = g1Gen
	out.G2 = g2Gen
	out.G2s.ScalarMultiplication(&g2Gen, secret)

	powers := make([]field.Fr, size-1)
	powers[0] = s
	for i := 1; i < len(powers); i++ {
		powers[i].Mul(&powers[i-1], &s)
	}
	scalars := make([]big.Int, len(powers))
	for i := range powers {
		powers[i].ToBigIntRegular(&scalars[i])
	}
	for i, sc := range scalars {
		out.G1Points[i+1].ScalarMultiplication(&g1Gen, &sc)
	}

	return &out, nil
}

// VerifyCosetShifts checks that k1 ∉ H and k2 ∉ H ∪ k1·H for the order-n
// subgroup H. Returns ErrCosetShiftsNotDisjoint if violated rather than
// silently trusting the conventional k1=2, k2=3 choice.
func VerifyCosetShifts(n int, k1, k2 *field.Fr) error {
	// H is generated by ω; membership is equivalent to x^n == 1.
	inH := func(x *field.Fr) bool {
		var p field.Fr
		p.Exp(*x, big.NewInt(int64(n)))
		return p.IsOne()
	}
	if inH(k1) {
		return ErrCosetShiftsNotDisjoint
	}
	if inH(k2) {
		return ErrCosetShiftsNotDisjoint
	}
	// k2 must also not land in the k1-shifted coset: (k2/k1)^n != 1.
	var k1Inv, ratio field.Fr
	k1Inv.Inverse(k1)
	ratio.Mul(k2, &k1Inv)
	if inH(&ratio) {
		return ErrCosetShiftsNotDisjoint
	}
	return nil
}

// Encode writes the canonical on-disk byte layout: a length-prefixed
// (u64 LE) count of G1 points, the uncompressed G1 points, then the two
// uncompressed G2 points (g2, g2*s).
func (s *Srs) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(s.G1Points)))
	if _, err := bw.Write(lenBuf[:]); err != nil {
		return err
	}
	for i := range s.G1Points {
		b := field.EncodeG1(&s.G1Points[i])
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	g2 := field.EncodeG2(&s.G2)
	if _, err := bw.Write(g2[:]); err != nil {
		return err
	}
	g2s := field.EncodeG2(&s.G2s)
	if _, err := bw.Write(g2s[:]); err != nil {
		return err
	}
	return bw.Flush()
}

// Decode reads the byte layout written by Encode.
func Decode(r io.Reader) (*Srs, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("srs: reading count: %w", err)
	}
	count := binary.LittleEndian.Uint64(lenBuf[:])

	out := &Srs{G1Points: make([]field.G1Point, count)}
	g1Buf := make([]byte, field.SizeOfG1Uncompressed)
	for i := range out.G1Points {
		if _, err := io.ReadFull(r, g1Buf); err != nil {
			return nil, fmt.Errorf("srs: reading G1 point %d: %w", i, err)
		}
		p, err := field.DecodeG1(g1Buf)
		if err != nil {
			return nil, err
		}
		out.G1Points[i] = p
	}

	g2Buf := make([]byte, field.SizeOfG2Uncompressed)
	if _, err := io.ReadFull(r, g2Buf); err != nil {
		return nil, fmt.Errorf("srs: reading g2: %w", err)
	}
	g2, err := field.DecodeG2(g2Buf)
	if err != nil {
		return nil, err
	}
	out.G2 = g2

	if _, err := io.ReadFull(r, g2Buf); err != nil {
		return nil, fmt.Errorf("srs: reading g2s: %w", err)
	}
	g2s, err := field.DecodeG2(g2Buf)
	if err != nil {
		return nil, err
	}
	out.G2s = g2s

	return out, nil
}

package gate

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/poly"
	"github.com/VanhGer/plonk-ckb/srs"
)

// GateConstraints holds the six preprocessed selector/public-input
// polynomials plus the three wire polynomials a(x), b(x), c(x), which stay
// the zero value until the prover fills them from a witness.
type GateConstraints struct {
	QL, QR, QM, QO, QC, PI poly.Poly
	A, B, C                poly.Poly
}

// CompiledCircuit is the immutable result of compiling a gate list: the
// preprocessed polynomials, the copy constraints, and the padded row
// count n.
type CompiledCircuit struct {
	Gate GateConstraints
	Copy CopyConstraints
	N    int
}

// Witness holds the per-row wire assignments the prover evaluates the
// circuit against, one Fr value per row per column.
type Witness struct {
	A, B, C []field.Fr
}

// Compile interpolates the selector vectors and builds the copy
// constraints for a padded gate list. gates must already be padded to a
// power-of-two length (see PadToPowerOfTwo); groups are the symbolic
// wire-value equivalence classes gathered while building the gate list.
func Compile(gates []Gate, groups [][]Position, k1, k2 *field.Fr) (*CompiledCircuit, error) {
	n := len(gates)
	if err := srs.VerifyCosetShifts(n, k1, k2); err != nil {
		return nil, err
	}
	domain := poly.NewDomain(n)

	ql := make([]field.Fr, n)
	qr := make([]field.Fr, n)
	qm := make([]field.Fr, n)
	qo := make([]field.Fr, n)
	qc := make([]field.Fr, n)
	pi := make([]field.Fr, n)
	for i, g := range gates {
		ql[i] = g.QL
		qr[i] = g.QR
		qm[i] = g.QM
		qo[i] = g.QO
		qc[i] = g.QC
		pi[i] = g.PI
	}

	copyConstraints, err := BuildCopyConstraints(groups, n, k1, k2)
	if err != nil {
		return nil, err
	}

	return &CompiledCircuit{
		Gate: GateConstraints{
			QL: domain.Interpolate(ql),
			QR: domain.Interpolate(qr),
			QM: domain.Interpolate(qm),
			QO: domain.Interpolate(qo),
			QC: domain.Interpolate(qc),
			PI: domain.Interpolate(pi),
		},
		Copy: copyConstraints,
		N:    n,
	}, nil
}

// CPI (CommonPreprocessedInput) is the verifier-side projection of a
// CompiledCircuit: everything except the witness-dependent wire
// polynomials a(x), b(x), c(x).
type CPI struct {
	N                      int
	K1, K2                 field.Fr
	QL, QR, QM, QO, QC     poly.Poly
	Sigma1, Sigma2, Sigma3 poly.Poly
	PI                     poly.Poly
}

// NewCPI projects a CompiledCircuit down to its public, witness-independent
// part.
func NewCPI(cc *CompiledCircuit) *CPI {
	return &CPI{
		N:      cc.N,
		K1:     cc.Copy.K1,
		K2:     cc.Copy.K2,
		QL:     cc.Gate.QL,
		QR:     cc.Gate.QR,
		QM:     cc.Gate.QM,
		QO:     cc.Gate.QO,
		QC:     cc.Gate.QC,
		Sigma1: cc.Copy.Sigma1,
		Sigma2: cc.Copy.Sigma2,
		Sigma3: cc.Copy.Sigma3,
		PI:     cc.Gate.PI,
	}
}

// Encode writes the canonical on-disk byte layout: n (u64 LE), k1 and k2
// (32 bytes each), then the nine polynomials in order q_L, q_R, q_M, q_O,
// q_C, s_σ1, s_σ2, s_σ3, π, each as a length-prefixed (coeff_count u64 LE)
// array of 32-byte Fr coefficients.
func (c *CPI) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var u64Buf [8]byte
	binary.LittleEndian.PutUint64(u64Buf[:], uint64(c.N))
	if _, err := bw.Write(u64Buf[:]); err != nil {
		return err
	}

	k1Bytes := field.EncodeFr(&c.K1)
	if _, err := bw.Write(k1Bytes[:]); err != nil {
		return err
	}
	k2Bytes := field.EncodeFr(&c.K2)
	if _, err := bw.Write(k2Bytes[:]); err != nil {
		return err
	}

	polys := []poly.Poly{c.QL, c.QR, c.QM, c.QO, c.QC, c.Sigma1, c.Sigma2, c.Sigma3, c.PI}
	for _, p := range polys {
		if err := encodePoly(bw, p); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func encodePoly(w io.Writer, p poly.Poly) error {
	var u64Buf [8]byte
	binary.LittleEndian.PutUint64(u64Buf[:], uint64(len(p)))
	if _, err := w.Write(u64Buf[:]); err != nil {
		return err
	}
	for i := range p {
		b := field.EncodeFr(&p[i])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

func decodePoly(r io.Reader) (poly.Poly, error) {
	var u64Buf [8]byte
	if _, err := io.ReadFull(r, u64Buf[:]); err != nil {
		return nil, fmt.Errorf("gate: reading coeff count: %w", err)
	}
	count := binary.LittleEndian.Uint64(u64Buf[:])
	out := make(poly.Poly, count)
	buf := make([]byte, field.FrSize)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("gate: reading coefficient %d: %w", i, err)
		}
		fr, err := field.DecodeFr(buf)
		if err != nil {
			return nil, err
		}
		out[i] = fr
	}
	return out, nil
}

// DecodeCPI reads the byte layout written by CPI.Encode.
func DecodeCPI(r io.Reader) (*CPI, error) {
	var u64Buf [8]byte
	if _, err := io.ReadFull(r, u64Buf[:]); err != nil {
		return nil, fmt.Errorf("gate: reading n: %w", err)
	}
	n := binary.LittleEndian.Uint64(u64Buf[:])

	var k1Buf, k2Buf [field.FrSize]byte
	if _, err := io.ReadFull(r, k1Buf[:]); err != nil {
		return nil, fmt.Errorf("gate: reading k1: %w", err)
	}
	k1, err := field.DecodeFr(k1Buf[:])
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, k2Buf[:]); err != nil {
		return nil, fmt.Errorf("gate: reading k2: %w", err)
	}
	k2, err := field.DecodeFr(k2Buf[:])
	if err != nil {
		return nil, err
	}

	out := &CPI{N: int(n), K1: k1, K2: k2}
	dests := []*poly.Poly{&out.QL, &out.QR, &out.QM, &out.QO, &out.QC, &out.Sigma1, &out.Sigma2, &out.Sigma3, &out.PI}
	for _, dest := range dests {
		p, err := decodePoly(r)
		if err != nil {
			return nil, err
		}
		*dest = p
	}
	return out, nil
}

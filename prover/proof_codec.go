package prover

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/kzg"
)

// Encode writes the canonical on-disk byte layout: nine uncompressed G1
// commitments in order [a],[b],[c],[z],[t_lo],[t_mid],[t_hi],[W_ζ],[W_ζω],
// then seven 32-byte Fr scalars ā,b̄,c̄,s̄_σ1,s̄_σ2,z̄_ω,u, then the row
// count n as a u64 LE.
func (p *Proof) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	commitments := []kzg.Commitment{p.A, p.B, p.C, p.Z, p.TLo, p.TMid, p.THi, p.WZeta, p.WZetaOmega}
	for _, c := range commitments {
		b := c.Encode()
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}

	scalars := []field.Fr{p.ABar, p.BBar, p.CBar, p.Sigma1Bar, p.Sigma2Bar, p.ZBarOmega, p.U}
	for _, s := range scalars {
		b := field.EncodeFr(&s)
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}

	var nBuf [8]byte
	binary.LittleEndian.PutUint64(nBuf[:], p.N)
	if _, err := bw.Write(nBuf[:]); err != nil {
		return err
	}
	return bw.Flush()
}

// DecodeProof reads the byte layout written by Proof.Encode.
func DecodeProof(r io.Reader) (*Proof, error) {
	g1Buf := make([]byte, field.SizeOfG1Uncompressed)
	readCommitment := func(name string) (kzg.Commitment, error) {
		if _, err := io.ReadFull(r, g1Buf); err != nil {
			return kzg.Commitment{}, fmt.Errorf("prover: reading %s: %w", name, err)
		}
		return kzg.DecodeCommitment(g1Buf)
	}

	var p Proof
	var err error
	if p.A, err = readCommitment("[a]"); err != nil {
		return nil, err
	}
	if p.B, err = readCommitment("[b]"); err != nil {
		return nil, err
	}
	if p.C, err = readCommitment("[c]"); err != nil {
		return nil, err
	}
	if p.Z, err = readCommitment("[z]"); err != nil {
		return nil, err
	}
	if p.TLo, err = readCommitment("[t_lo]"); err != nil {
		return nil, err
	}
	if p.TMid, err = readCommitment("[t_mid]"); err != nil {
		return nil, err
	}
	if p.THi, err = readCommitment("[t_hi]"); err != nil {
		return nil, err
	}
	if p.WZeta, err = readCommitment("[W_zeta]"); err != nil {
		return nil, err
	}
	if p.WZetaOmega, err = readCommitment("[W_zeta_omega]"); err != nil {
		return nil, err
	}

	frBuf := make([]byte, field.FrSize)
	readScalar := func(name string) (field.Fr, error) {
		if _, err := io.ReadFull(r, frBuf); err != nil {
			return field.Fr{}, fmt.Errorf("prover: reading %s: %w", name, err)
		}
		return field.DecodeFr(frBuf)
	}
	if p.ABar, err = readScalar("a_bar"); err != nil {
		return nil, err
	}
	if p.BBar, err = readScalar("b_bar"); err != nil {
		return nil, err
	}
	if p.CBar, err = readScalar("c_bar"); err != nil {
		return nil, err
	}
	if p.Sigma1Bar, err = readScalar("sigma1_bar"); err != nil {
		return nil, err
	}
	if p.Sigma2Bar, err = readScalar("sigma2_bar"); err != nil {
		return nil, err
	}
	if p.ZBarOmega, err = readScalar("z_bar_omega"); err != nil {
		return nil, err
	}
	if p.U, err = readScalar("u"); err != nil {
		return nil, err
	}

	var nBuf [8]byte
	if _, err := io.ReadFull(r, nBuf[:]); err != nil {
		return nil, fmt.Errorf("prover: reading n: %w", err)
	}
	p.N = binary.LittleEndian.Uint64(nBuf[:])

	return &p, nil
}

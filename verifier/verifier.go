// Package verifier implements the seven-step PLONK verification algorithm:
// transcript re-derivation, the r0/[D]/[F]/[E] curve combinations, and the
// single combined pairing check. Grounded on the structure of
// ThomasPiellard-gnark's internal/backend/bn254/plonk/verify.go (challenge
// re-derivation order, Z_H(ζ)/L1(ζ) computation, the linearized-polynomial
// curve combination built entirely from preprocessed/committed polynomials).
// Adapted from gnark's two-step batch-KZG-then-shifted-KZG verification to
// this system's single combined pairing equation, and from gnark's
// fiatshamir.Transcript to this module's own transcript package.
package verifier

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
	"github.com/VanhGer/plonk-ckb/kzg"
	"github.com/VanhGer/plonk-ckb/poly"
	"github.com/VanhGer/plonk-ckb/prover"
	"github.com/VanhGer/plonk-ckb/transcript"
)

// Logger receives one Debug line per verification step. It defaults to a
// no-op logger; callers that want visibility into verification progress
// assign their own zerolog.Logger before calling Verify.
var Logger zerolog.Logger = zerolog.Nop()

// VerifyError is the VerifyError taxonomy kind: any transcript, curve, or
// pairing equality that fails, or malformed input detected along the way.
type VerifyError struct {
	Reason string
}

func (e *VerifyError) Error() string { return fmt.Sprintf("verifier: %s", e.Reason) }

var (
	// ErrChallengeMismatch is returned when the freshly re-derived u differs
	// from the u embedded in the proof, coupling transport and transcript.
	ErrChallengeMismatch = &VerifyError{Reason: "re-derived challenge u does not match proof"}
	// ErrPairingFailed is returned when the final combined pairing check
	// does not hold.
	ErrPairingFailed = &VerifyError{Reason: "pairing check failed"}
	// ErrRowCountMismatch is returned when the proof's embedded row count
	// does not match the CPI it is being checked against.
	ErrRowCountMismatch = &VerifyError{Reason: "proof row count does not match CPI"}
)

func mul(a, b field.Fr) field.Fr {
	var out field.Fr
	out.Mul(&a, &b)
	return out
}

func add(a, b field.Fr) field.Fr {
	var out field.Fr
	out.Add(&a, &b)
	return out
}

func sub(a, b field.Fr) field.Fr {
	var out field.Fr
	out.Sub(&a, &b)
	return out
}

func neg(a field.Fr) field.Fr {
	var out field.Fr
	out.Neg(&a)
	return out
}

func exp(base field.Fr, e int64) field.Fr {
	var out field.Fr
	out.Exp(base, big.NewInt(e))
	return out
}

// Verify checks proof against cpi and scheme, reproducing the prover's exact
// transcript feed order and recomputing commitments to the CPI's preprocessed
// polynomials on demand (acceptable for the small circuit sizes this system
// targets).
func Verify(proof *prover.Proof, cpi *gate.CPI, scheme *kzg.Scheme, newHasher transcript.NewHasher) error {
	if proof.N != uint64(cpi.N) {
		return ErrRowCountMismatch
	}
	n := cpi.N
	Logger.Debug().Int("n", n).Msg("starting verification")

	// Step 1: re-derive (β, γ, α, ζ, v, u) from the exact same feed sequence
	// the prover used.
	tr := transcript.New(newHasher)
	tr.FeedCommitments(proof.A, proof.B, proof.C)
	betaGamma := tr.GenerateChallenges(2)
	beta, gamma := betaGamma[0], betaGamma[1]

	tr.Feed(proof.Z)
	alpha := tr.GenerateChallenge()
	alpha2 := mul(alpha, alpha)

	tr.FeedCommitments(proof.TLo, proof.TMid, proof.THi)
	zeta := tr.GenerateChallenge()

	tr.Feed(scheme.CommitScalar(&proof.ABar))
	tr.Feed(scheme.CommitScalar(&proof.BBar))
	tr.Feed(scheme.CommitScalar(&proof.CBar))
	tr.Feed(scheme.CommitScalar(&proof.Sigma1Bar))
	tr.Feed(scheme.CommitScalar(&proof.Sigma2Bar))
	tr.Feed(scheme.CommitScalar(&proof.ZBarOmega))
	v := tr.GenerateChallenge()

	tr.FeedCommitments(proof.WZeta, proof.WZetaOmega)
	u := tr.GenerateChallenge()
	if !u.Equal(&proof.U) {
		return ErrChallengeMismatch
	}
	Logger.Debug().Msg("step 1: challenges re-derived, u matches proof")

	// Step 2: Z_H(ζ), L1(ζ), π(ζ).
	one := field.One()
	zHZeta := sub(exp(zeta, int64(n)), one)
	nFr := field.Fr{}
	nFr.SetUint64(uint64(n))
	zetaMinus1 := sub(zeta, one)
	denom := mul(nFr, zetaMinus1)
	denomInv, err := field.Inverse(&denom)
	if err != nil {
		return &VerifyError{Reason: "ζ = 1 degenerates L1(ζ): " + err.Error()}
	}
	l1Zeta := mul(zHZeta, denomInv)
	piZeta := cpi.PI.Eval(&zeta)
	Logger.Debug().Msg("step 2: Z_H(ζ), L1(ζ), π(ζ) computed")

	// Step 3: r0.
	aTerm := add(add(proof.ABar, mul(beta, proof.Sigma1Bar)), gamma)
	bTerm := add(add(proof.BBar, mul(beta, proof.Sigma2Bar)), gamma)
	cTerm := add(proof.CBar, gamma)
	r0 := sub(sub(piZeta, mul(l1Zeta, alpha2)), mul(mul(alpha, aTerm), mul(bTerm, mul(cTerm, proof.ZBarOmega))))
	Logger.Debug().Msg("step 3: r0 computed")

	// Step 4: [D].
	commitQM, err := scheme.Commit(cpi.QM)
	if err != nil {
		return err
	}
	commitQL, err := scheme.Commit(cpi.QL)
	if err != nil {
		return err
	}
	commitQR, err := scheme.Commit(cpi.QR)
	if err != nil {
		return err
	}
	commitQO, err := scheme.Commit(cpi.QO)
	if err != nil {
		return err
	}
	commitQC, err := scheme.Commit(cpi.QC)
	if err != nil {
		return err
	}
	commitSigma3, err := scheme.Commit(cpi.Sigma3)
	if err != nil {
		return err
	}

	abBar := mul(proof.ABar, proof.BBar)
	d := kzg.ScalarMul(commitQM, &abBar)
	d = kzg.Add(d, kzg.ScalarMul(commitQL, &proof.ABar))
	d = kzg.Add(d, kzg.ScalarMul(commitQR, &proof.BBar))
	d = kzg.Add(d, kzg.ScalarMul(commitQO, &proof.CBar))
	d = kzg.Add(d, commitQC)

	nAtZeta := nAt(proof.ABar, proof.BBar, proof.CBar, beta, gamma, zeta, cpi.K1, cpi.K2)
	zCoeff := add(add(mul(alpha, nAtZeta), mul(alpha2, l1Zeta)), u)
	d = kzg.Add(d, kzg.ScalarMul(proof.Z, &zCoeff))

	sigma3Coeff := mul(mul(aTerm, bTerm), mul(mul(alpha, beta), proof.ZBarOmega))
	d = kzg.Sub(d, kzg.ScalarMul(commitSigma3, &sigma3Coeff))

	chunkSize := n + 2
	zetaPowChunk := exp(zeta, int64(chunkSize))
	zetaPow2Chunk := mul(zetaPowChunk, zetaPowChunk)
	tCombined := kzg.Add(proof.TLo, kzg.Add(kzg.ScalarMul(proof.TMid, &zetaPowChunk), kzg.ScalarMul(proof.THi, &zetaPow2Chunk)))
	d = kzg.Sub(d, kzg.ScalarMul(tCombined, &zHZeta))
	Logger.Debug().Msg("step 4: [D] combined")

	// Step 5: [F].
	v2 := mul(v, v)
	v3 := mul(v2, v)
	v4 := mul(v3, v)
	v5 := mul(v4, v)

	commitSigma1, err := scheme.Commit(cpi.Sigma1)
	if err != nil {
		return err
	}
	commitSigma2, err := scheme.Commit(cpi.Sigma2)
	if err != nil {
		return err
	}

	f := d
	f = kzg.Add(f, kzg.ScalarMul(proof.A, &v))
	f = kzg.Add(f, kzg.ScalarMul(proof.B, &v2))
	f = kzg.Add(f, kzg.ScalarMul(proof.C, &v3))
	f = kzg.Add(f, kzg.ScalarMul(commitSigma1, &v4))
	f = kzg.Add(f, kzg.ScalarMul(commitSigma2, &v5))
	Logger.Debug().Msg("step 5: [F] combined")

	// Step 6: [E].
	eScalar := neg(r0)
	eScalar = add(eScalar, mul(v, proof.ABar))
	eScalar = add(eScalar, mul(v2, proof.BBar))
	eScalar = add(eScalar, mul(v3, proof.CBar))
	eScalar = add(eScalar, mul(v4, proof.Sigma1Bar))
	eScalar = add(eScalar, mul(v5, proof.Sigma2Bar))
	eScalar = add(eScalar, mul(u, proof.ZBarOmega))
	e := scheme.CommitScalar(&eScalar)
	Logger.Debug().Msg("step 6: [E] combined")

	// Step 7: single combined pairing check.
	// e([W_ζ]+u·[W_ζω], g2·s) = e(ζ·[W_ζ]+u·ζ·ω·[W_ζω]+[F]-[E], g2)
	// rearranged to e(lhs, g2s)·e(-rhs, g2) = 1 for field.PairingCheck.
	omega := poly.NewDomain(n).Generator()
	zetaOmega := mul(zeta, omega)
	uZetaOmega := mul(u, zetaOmega)

	lhs := kzg.Add(proof.WZeta, kzg.ScalarMul(proof.WZetaOmega, &u))
	rhs := kzg.ScalarMul(proof.WZeta, &zeta)
	rhs = kzg.Add(rhs, kzg.ScalarMul(proof.WZetaOmega, &uZetaOmega))
	rhs = kzg.Add(rhs, f)
	rhs = kzg.Sub(rhs, e)

	ok, err := field.PairingCheck(
		[]field.G1Point{lhs.Point, kzg.Neg(rhs).Point},
		[]field.G2Point{scheme.Srs.G2s, scheme.Srs.G2},
	)
	if err != nil {
		return &VerifyError{Reason: "pairing computation failed: " + err.Error()}
	}
	if !ok {
		return ErrPairingFailed
	}
	Logger.Debug().Msg("step 7: pairing check passed")
	return nil
}

// nAt evaluates the permutation-argument "numerator" scalar factor at ζ:
// (ā+β·ζ+γ)(b̄+β·k1·ζ+γ)(c̄+β·k2·ζ+γ).
func nAt(aBar, bBar, cBar, beta, gamma, zeta, k1, k2 field.Fr) field.Fr {
	return mul(mul(add(add(aBar, mul(beta, zeta)), gamma),
		add(add(bBar, mul(beta, mul(k1, zeta))), gamma)),
		add(add(cBar, mul(beta, mul(k2, zeta))), gamma))
}

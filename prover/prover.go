// Package prover implements the five-round PLONK proving algorithm: wire
// commitments, the permutation (grand-product) polynomial, the quotient
// polynomial split into three chunks, the evaluation openings at the
// challenge point ζ, and the batched linearization/opening commitments.
// Grounded on the gnark plonk backends' prove.go round structure (e.g.
// VolodymyrBg-gnark/internal/backend/bn254/plonk/prove.go and
// famouswizard-gnark/backend/fflonk/bn254/prove.go), generalized from
// their coset-FFT evaluation strategy to plain polynomial arithmetic.
// This system's circuits are small enough that poly.Mul/DivRem never
// become the bottleneck poly.Mul's own doc comment already calls out.
package prover

import (
	"fmt"
	"io"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
	"github.com/VanhGer/plonk-ckb/kzg"
	"github.com/VanhGer/plonk-ckb/poly"
	"github.com/VanhGer/plonk-ckb/transcript"
)

// Logger receives one Debug line per proving round. It defaults to a no-op
// logger; callers that want visibility into proving progress (cmd/prove in
// particular) assign their own zerolog.Logger before calling Prove.
var Logger zerolog.Logger = zerolog.Nop()

// ProverError is the ProverError taxonomy kind: the witness does not
// satisfy the circuit, or the SRS is too small for the polynomials this
// proof needs to commit to.
type ProverError struct {
	Reason string
}

func (e *ProverError) Error() string { return fmt.Sprintf("prover: %s", e.Reason) }

// ErrUnsatisfiedConstraints is returned when the quotient identity does
// not divide evenly by the vanishing polynomial: the witness does not
// satisfy the circuit (or a copy constraint ties two cells to different
// values).
var ErrUnsatisfiedConstraints = &ProverError{Reason: "witness does not satisfy circuit (quotient does not divide evenly)"}

// ErrWitnessLength is returned when the witness row counts do not match
// the compiled circuit's padded row count.
var ErrWitnessLength = &ProverError{Reason: "witness row count does not match circuit size"}

// Proof is the nine KZG commitments, six scalar openings, the challenge u,
// and row count that make up the external proof encoding.
type Proof struct {
	A, B, C            kzg.Commitment
	Z                  kzg.Commitment
	TLo, TMid, THi     kzg.Commitment
	WZeta, WZetaOmega  kzg.Commitment
	ABar, BBar, CBar   field.Fr
	Sigma1Bar, Sigma2Bar field.Fr
	ZBarOmega          field.Fr
	U                  field.Fr
	N                  uint64
}

// blindingScalars draws the nine random blinding scalars b1..b9 in order
// from rng. The prover never consults a process-global source: rng is
// passed in by the caller (crypto/rand.Reader in production, a seeded
// math/rand.Rand in tests), so proof bytes are reproducible given
// identical blinding randomness.
func blindingScalars(rng io.Reader) ([9]field.Fr, error) {
	var out [9]field.Fr
	for i := range out {
		b, err := field.RandomFr(rng)
		if err != nil {
			return out, fmt.Errorf("prover: drawing blinding scalar %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// shiftPoly returns the polynomial p(ωx): coefficient i scaled by ω^i.
func shiftPoly(p poly.Poly, omega field.Fr) poly.Poly {
	out := make(poly.Poly, len(p))
	var power field.Fr
	power.SetOne()
	for i := range p {
		out[i].Mul(&p[i], &power)
		power.Mul(&power, &omega)
	}
	return out.Trim()
}

// linear returns the polynomial c1*x + c0.
func linear(c0, c1 field.Fr) poly.Poly {
	return poly.New([]field.Fr{c0, c1})
}

func constPoly(c field.Fr) poly.Poly {
	return poly.New([]field.Fr{c})
}

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

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// splitQuotient slices t into three chunks of chunkSize coefficients each,
// the t_lo/t_mid/t_hi pieces committed separately because a single
// polynomial of t's full degree would exceed typical SRS sizes.
func splitQuotient(t poly.Poly, chunkSize int) (lo, mid, hi poly.Poly) {
	n := len(t)
	end1 := minInt(chunkSize, n)
	lo = poly.New(t[:end1])

	end2 := minInt(2*chunkSize, n)
	var midCoeffs poly.Poly
	if end1 < n {
		midCoeffs = t[end1:end2]
	}
	mid = poly.New(midCoeffs)

	var hiCoeffs poly.Poly
	if end2 < n {
		hiCoeffs = t[end2:n]
	}
	hi = poly.New(hiCoeffs)
	return
}

// lagrangeL1 returns L1(x), the Lagrange basis polynomial that is 1 at
// ω^0 and 0 at every other element of H.
func lagrangeL1(domain *poly.Domain) poly.Poly {
	values := make([]field.Fr, domain.Size())
	values[0].SetOne()
	return domain.Interpolate(values)
}

// Prove runs the five-round protocol for circuit cc against witness w,
// drawing blinding randomness from rng and deriving every challenge from a
// transcript instantiated with newHasher. Returns ErrUnsatisfiedConstraints
// if the witness does not satisfy the circuit.
func Prove(cc *gate.CompiledCircuit, w gate.Witness, scheme *kzg.Scheme, newHasher transcript.NewHasher, rng io.Reader) (*Proof, error) {
	n := cc.N
	if len(w.A) != n || len(w.B) != n || len(w.C) != n {
		return nil, ErrWitnessLength
	}

	b, err := blindingScalars(rng)
	if err != nil {
		return nil, err
	}
	Logger.Debug().Int("n", n).Msg("starting proof")

	domain := poly.NewDomain(n)
	omega := domain.Generator()
	zH := poly.VanishingPoly(n)

	// Round 1: wire commitments.
	rawA := domain.Interpolate(w.A)
	rawB := domain.Interpolate(w.B)
	rawC := domain.Interpolate(w.C)

	aPoly := poly.Add(poly.Mul(linear(b[1], b[0]), zH), rawA)
	bPoly := poly.Add(poly.Mul(linear(b[3], b[2]), zH), rawB)
	cPoly := poly.Add(poly.Mul(linear(b[5], b[4]), zH), rawC)

	commitA, err := scheme.Commit(aPoly)
	if err != nil {
		return nil, err
	}
	commitB, err := scheme.Commit(bPoly)
	if err != nil {
		return nil, err
	}
	commitC, err := scheme.Commit(cPoly)
	if err != nil {
		return nil, err
	}

	tr := transcript.New(newHasher)
	tr.FeedCommitments(commitA, commitB, commitC)
	betaGamma := tr.GenerateChallenges(2)
	beta, gamma := betaGamma[0], betaGamma[1]
	Logger.Debug().Msg("round 1: wire commitments done")

	// Round 2: permutation polynomial.
	sigma1Vals := domain.Evaluate(cc.Copy.Sigma1)
	sigma2Vals := domain.Evaluate(cc.Copy.Sigma2)
	sigma3Vals := domain.Evaluate(cc.Copy.Sigma3)
	roots := domain.Elements()

	zVals := make([]field.Fr, n)
	zVals[0].SetOne()
	for i := 0; i < n-1; i++ {
		num := mul(mul(add(add(w.A[i], mul(beta, roots[i])), gamma),
			add(add(w.B[i], mul(beta, mul(cc.Copy.K1, roots[i]))), gamma)),
			add(add(w.C[i], mul(beta, mul(cc.Copy.K2, roots[i]))), gamma))
		den := mul(mul(add(add(w.A[i], mul(beta, sigma1Vals[i])), gamma),
			add(add(w.B[i], mul(beta, sigma2Vals[i])), gamma)),
			add(add(w.C[i], mul(beta, sigma3Vals[i])), gamma))
		denInv, err := field.Inverse(&den)
		if err != nil {
			return nil, &ProverError{Reason: "permutation denominator vanished: " + err.Error()}
		}
		zVals[i+1] = mul(mul(zVals[i], num), denInv)
	}

	rawZ := domain.Interpolate(zVals)
	blindZ := poly.New([]field.Fr{b[8], b[7], b[6]}) // b7*x^2 + b8*x + b9
	zPoly := poly.Add(poly.Mul(blindZ, zH), rawZ)

	commitZ, err := scheme.Commit(zPoly)
	if err != nil {
		return nil, err
	}

	tr.Feed(commitZ)
	alpha := tr.GenerateChallenge()
	alpha2 := mul(alpha, alpha)
	Logger.Debug().Msg("round 2: permutation polynomial done")

	// Round 3: quotient polynomial.
	wires := cc.Gate
	wires.A, wires.B, wires.C = aPoly, bPoly, cPoly

	gateIdentity := poly.Add(
		poly.Add(
			poly.Add(poly.Mul(poly.Mul(wires.A, wires.B), wires.QM), poly.Mul(wires.A, wires.QL)),
			poly.Add(poly.Mul(wires.B, wires.QR), poly.Mul(wires.C, wires.QO)),
		),
		poly.Add(wires.PI, wires.QC),
	)

	xPoly := poly.New([]field.Fr{field.Fr{}, field.One()})
	betaX := poly.Scale(xPoly, &beta)
	betaK1 := mul(beta, cc.Copy.K1)
	betaK2 := mul(beta, cc.Copy.K2)
	nA := poly.AddConstant(poly.Add(wires.A, betaX), &gamma)
	nB := poly.AddConstant(poly.Add(wires.B, poly.Scale(xPoly, &betaK1)), &gamma)
	nC := poly.AddConstant(poly.Add(wires.C, poly.Scale(xPoly, &betaK2)), &gamma)
	nPoly := poly.MulMany(nA, nB, nC)

	betaSigma1 := poly.Scale(cc.Copy.Sigma1, &beta)
	dA := poly.AddConstant(poly.Add(wires.A, betaSigma1), &gamma)
	betaSigma2 := poly.Scale(cc.Copy.Sigma2, &beta)
	dB := poly.AddConstant(poly.Add(wires.B, betaSigma2), &gamma)
	betaSigma3 := poly.Scale(cc.Copy.Sigma3, &beta)
	dC := poly.AddConstant(poly.Add(wires.C, betaSigma3), &gamma)
	dPoly := poly.MulMany(dA, dB, dC)

	zShifted := shiftPoly(zPoly, omega)
	permutationIdentity := poly.Sub(poly.Mul(zPoly, nPoly), poly.Mul(zShifted, dPoly))

	l1Poly := lagrangeL1(domain)
	one := field.One()
	initializationIdentity := poly.Mul(poly.Sub(zPoly, constPoly(one)), l1Poly)

	numerator := poly.Add(
		gateIdentity,
		poly.Add(poly.Scale(permutationIdentity, &alpha), poly.Scale(initializationIdentity, &alpha2)),
	)

	quotient, remainder := poly.DivideByVanishing(numerator, n)
	if !remainder.IsZero() {
		return nil, ErrUnsatisfiedConstraints
	}

	chunkSize := n + 2
	tLo, tMid, tHi := splitQuotient(quotient, chunkSize)

	commitTLo, err := scheme.Commit(tLo)
	if err != nil {
		return nil, err
	}
	commitTMid, err := scheme.Commit(tMid)
	if err != nil {
		return nil, err
	}
	commitTHi, err := scheme.Commit(tHi)
	if err != nil {
		return nil, err
	}

	tr.FeedCommitments(commitTLo, commitTMid, commitTHi)
	zeta := tr.GenerateChallenge()
	Logger.Debug().Int("chunk_size", chunkSize).Msg("round 3: quotient polynomial done")

	// Round 4: openings at ζ.
	aBar := wires.A.Eval(&zeta)
	bBar := wires.B.Eval(&zeta)
	cBar := wires.C.Eval(&zeta)
	sigma1Bar := cc.Copy.Sigma1.Eval(&zeta)
	sigma2Bar := cc.Copy.Sigma2.Eval(&zeta)
	zetaOmega := mul(zeta, omega)
	zBarOmega := zPoly.Eval(&zetaOmega)

	tr.Feed(scheme.CommitScalar(&aBar))
	tr.Feed(scheme.CommitScalar(&bBar))
	tr.Feed(scheme.CommitScalar(&cBar))
	tr.Feed(scheme.CommitScalar(&sigma1Bar))
	tr.Feed(scheme.CommitScalar(&sigma2Bar))
	tr.Feed(scheme.CommitScalar(&zBarOmega))
	v := tr.GenerateChallenge()
	Logger.Debug().Msg("round 4: openings at zeta done")

	// Round 5: linearization and batched openings.
	zHZeta := sub(exp(zeta, int64(n)), one)
	nFr := field.Fr{}
	nFr.SetUint64(uint64(n))
	zetaMinus1 := sub(zeta, one)
	denom := mul(nFr, zetaMinus1)
	denomInv, err := field.Inverse(&denom)
	if err != nil {
		return nil, &ProverError{Reason: "ζ = 1 degenerates L1(ζ): " + err.Error()}
	}
	l1Zeta := mul(zHZeta, denomInv)

	zCoeff := add(mul(alpha, nAt(aBar, bBar, cBar, beta, gamma, zeta, cc.Copy.K1, cc.Copy.K2)), mul(alpha2, l1Zeta))

	aTerm := add(add(aBar, mul(beta, sigma1Bar)), gamma)
	bTerm := add(add(bBar, mul(beta, sigma2Bar)), gamma)
	sigma3Coeff := mul(mul(aTerm, bTerm), mul(mul(alpha, beta), zBarOmega))

	// r0 = π(ζ) − L1(ζ)·α² − α·(ā+β·s̄σ1+γ)(b̄+β·s̄σ2+γ)(c̄+γ)·z̄_ω. The
	// linearization r(x) built to mirror the verifier's [D] combination
	// evaluates to r(ζ) = −r0, not zero (r(x) deliberately excludes the
	// π(x) term and the σ3-cross-term that r0 supplies instead, matching
	// how [D] has no [π] commitment of its own). Adding r0 back as a
	// constant is what makes the opening polynomial divide evenly at ζ;
	// without it, every honest proof would fail that division. See
	// DESIGN.md for the derivation.
	piZeta := wires.PI.Eval(&zeta)
	cTerm := add(cBar, gamma)
	r0 := sub(sub(piZeta, mul(l1Zeta, alpha2)), mul(mul(alpha, aTerm), mul(bTerm, mul(cTerm, zBarOmega))))

	abBar := mul(aBar, bBar)
	rLin := poly.Add(
		poly.Add(
			poly.Add(poly.Scale(wires.QM, &abBar), poly.Scale(wires.QL, &aBar)),
			poly.Add(poly.Scale(wires.QR, &bBar), poly.Scale(wires.QO, &cBar)),
		),
		wires.QC,
	)
	rLin = poly.Add(rLin, poly.Scale(zPoly, &zCoeff))
	rLin = poly.Sub(rLin, poly.Scale(cc.Copy.Sigma3, &sigma3Coeff))

	zetaPowChunk := exp(zeta, int64(chunkSize))
	zetaPow2Chunk := mul(zetaPowChunk, zetaPowChunk)
	tCombined := poly.Add(tLo, poly.Add(poly.Scale(tMid, &zetaPowChunk), poly.Scale(tHi, &zetaPow2Chunk)))
	rLin = poly.Sub(rLin, poly.Scale(tCombined, &zHZeta))
	rLin = poly.AddConstant(rLin, &r0)

	v2 := mul(v, v)
	v3 := mul(v2, v)
	v4 := mul(v3, v)
	v5 := mul(v4, v)

	openNumerator := rLin
	openNumerator = poly.Add(openNumerator, poly.Scale(poly.Sub(wires.A, constPoly(aBar)), &v))
	openNumerator = poly.Add(openNumerator, poly.Scale(poly.Sub(wires.B, constPoly(bBar)), &v2))
	openNumerator = poly.Add(openNumerator, poly.Scale(poly.Sub(wires.C, constPoly(cBar)), &v3))
	openNumerator = poly.Add(openNumerator, poly.Scale(poly.Sub(cc.Copy.Sigma1, constPoly(sigma1Bar)), &v4))
	openNumerator = poly.Add(openNumerator, poly.Scale(poly.Sub(cc.Copy.Sigma2, constPoly(sigma2Bar)), &v5))

	wZetaQuotient, wZetaRemainder, err := poly.DivRem(openNumerator, linear(neg(zeta), one))
	if err != nil {
		return nil, err
	}
	if !wZetaRemainder.IsZero() {
		return nil, &ProverError{Reason: "linearization opening does not divide evenly at ζ (internal inconsistency)"}
	}
	commitWZeta, err := scheme.Commit(wZetaQuotient)
	if err != nil {
		return nil, err
	}

	shiftNumerator := poly.Sub(zPoly, constPoly(zBarOmega))
	wZetaOmegaQuotient, wZetaOmegaRemainder, err := poly.DivRem(shiftNumerator, linear(neg(zetaOmega), one))
	if err != nil {
		return nil, err
	}
	if !wZetaOmegaRemainder.IsZero() {
		return nil, &ProverError{Reason: "shifted opening does not divide evenly at ζω (internal inconsistency)"}
	}
	commitWZetaOmega, err := scheme.Commit(wZetaOmegaQuotient)
	if err != nil {
		return nil, err
	}

	tr.FeedCommitments(commitWZeta, commitWZetaOmega)
	u := tr.GenerateChallenge()
	Logger.Debug().Msg("round 5: linearization and batched openings done")

	return &Proof{
		A: commitA, B: commitB, C: commitC,
		Z:     commitZ,
		TLo:   commitTLo, TMid: commitTMid, THi: commitTHi,
		WZeta: commitWZeta, WZetaOmega: commitWZetaOmega,
		ABar: aBar, BBar: bBar, CBar: cBar,
		Sigma1Bar: sigma1Bar, Sigma2Bar: sigma2Bar,
		ZBarOmega: zBarOmega,
		U:         u,
		N:         uint64(n),
	}, nil
}

// nAt evaluates the permutation-argument "numerator" scalar factor at ζ:
// (ā+β·ζ+γ)(b̄+β·k1·ζ+γ)(c̄+β·k2·ζ+γ).
func nAt(aBar, bBar, cBar, beta, gamma, zeta, k1, k2 field.Fr) field.Fr {
	return mul(mul(add(add(aBar, mul(beta, zeta)), gamma),
		add(add(bBar, mul(beta, mul(k1, zeta))), gamma)),
		add(add(cBar, mul(beta, mul(k2, zeta))), gamma))
}

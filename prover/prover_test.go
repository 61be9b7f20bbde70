package prover

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
	"github.com/VanhGer/plonk-ckb/kzg"
	"github.com/VanhGer/plonk-ckb/parser"
	"github.com/VanhGer/plonk-ckb/srs"
	"github.com/VanhGer/plonk-ckb/transcript"
)

func fe(v int64) field.Fr {
	var f field.Fr
	f.SetInt64(v)
	return f
}

func conventionalShifts() (field.Fr, field.Fr) {
	return fe(2), fe(3)
}

// buildCircuit parses equation against the given witnesses and compiles
// the resulting gate list, returning both the compiled circuit and the
// witness grid the prover needs.
func buildCircuit(t *testing.T, equation string, witnesses map[string]int64) (*gate.CompiledCircuit, gate.Witness) {
	t.Helper()
	p := parser.New()
	for name, v := range witnesses {
		p.AddWitness(name, fe(v))
	}
	pc, err := p.Parse(equation)
	require.NoError(t, err)

	k1, k2 := conventionalShifts()
	cc, err := gate.Compile(pc.Gates, pc.Groups, &k1, &k2)
	require.NoError(t, err)
	return cc, pc.Witness
}

// schemeFor returns a KZG scheme backed by a deterministically-sampled SRS
// large enough to commit to every polynomial an n-row circuit's proof
// needs (wire, grand-product, and quotient-chunk polynomials all stay
// within degree n+2).
func schemeFor(t *testing.T, n int, secret int64) *kzg.Scheme {
	t.Helper()
	s, err := srs.NewSampled(uint64(2*n+16), big.NewInt(secret))
	require.NoError(t, err)
	return kzg.New(s)
}

func TestProveAcceptsAdditionAndMultiplicationSeedScenario(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 7)
	rng := rand.New(rand.NewSource(1))

	proof, err := Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)
	require.NotNil(t, proof)
	require.Equal(t, uint64(cc.N), proof.N)
}

func TestProveAcceptsCubeAndLiteralSeedScenario(t *testing.T) {
	cc, w := buildCircuit(t, "x^3 + x + 5 = 35", map[string]int64{"x": 3})
	scheme := schemeFor(t, cc.N, 11)
	rng := rand.New(rand.NewSource(2))

	_, err := Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)
}

func TestProveAcceptsMultiplicationAndAdditionSeedScenario(t *testing.T) {
	cc, w := buildCircuit(t, "x * y + x = 10", map[string]int64{"x": 2, "y": 4})
	scheme := schemeFor(t, cc.N, 13)
	rng := rand.New(rand.NewSource(3))

	_, err := Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)
}

func TestProveRejectsWitnessBreakingCopyConstraint(t *testing.T) {
	// x=2 does not satisfy x^3+x+5=35 (it satisfies x=3 instead): the
	// grand total's wire and its zero-binding constant gate end up in the
	// same equivalence class but disagree in value, so the permutation
	// grand-product identity fails and the quotient does not divide
	// evenly by the vanishing polynomial.
	cc, w := buildCircuit(t, "x^3 + x + 5 = 35", map[string]int64{"x": 2})
	scheme := schemeFor(t, cc.N, 17)
	rng := rand.New(rand.NewSource(4))

	_, err := Prove(cc, w, scheme, transcript.SHA256, rng)
	require.ErrorIs(t, err, ErrUnsatisfiedConstraints)
}

func TestProveIsDeterministicGivenIdenticalSeededRandomness(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 19)

	run := func() []byte {
		rng := rand.New(rand.NewSource(42))
		proof, err := Prove(cc, w, scheme, transcript.SHA256, rng)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, proof.Encode(&buf))
		return buf.Bytes()
	}

	first := run()
	second := run()
	require.Equal(t, first, second, "identical seeded blinding randomness must produce byte-identical proofs")
}

func TestProveVariesWithBlindingRandomness(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 23)

	rngA := rand.New(rand.NewSource(1))
	proofA, err := Prove(cc, w, scheme, transcript.SHA256, rngA)
	require.NoError(t, err)

	rngB := rand.New(rand.NewSource(2))
	proofB, err := Prove(cc, w, scheme, transcript.SHA256, rngB)
	require.NoError(t, err)

	require.False(t, proofA.A.Point.Equal(&proofB.A.Point), "distinct blinding seeds must produce distinct wire commitments")
}

func TestProofEncodeDecodeRoundtrip(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 29)
	rng := rand.New(rand.NewSource(5))

	proof, err := Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, proof.Encode(&buf))

	decoded, err := DecodeProof(&buf)
	require.NoError(t, err)
	require.True(t, proof.A.Point.Equal(&decoded.A.Point))
	require.True(t, proof.WZetaOmega.Point.Equal(&decoded.WZetaOmega.Point))
	require.True(t, proof.U.Equal(&decoded.U))
	require.Equal(t, proof.N, decoded.N)
}

func TestProveRejectsWitnessLengthMismatch(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 31)
	rng := rand.New(rand.NewSource(6))

	bad := w
	bad.A = bad.A[:len(bad.A)-1]
	_, err := Prove(cc, bad, scheme, transcript.SHA256, rng)
	require.ErrorIs(t, err, ErrWitnessLength)
}

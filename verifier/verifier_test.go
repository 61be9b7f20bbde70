package verifier

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
	"github.com/VanhGer/plonk-ckb/kzg"
	"github.com/VanhGer/plonk-ckb/parser"
	"github.com/VanhGer/plonk-ckb/prover"
	"github.com/VanhGer/plonk-ckb/srs"
	"github.com/VanhGer/plonk-ckb/transcript"
)

func fe(v int64) field.Fr {
	var f field.Fr
	f.SetInt64(v)
	return f
}

func buildCircuit(t *testing.T, equation string, witnesses map[string]int64) (*gate.CompiledCircuit, gate.Witness) {
	t.Helper()
	p := parser.New()
	for name, v := range witnesses {
		p.AddWitness(name, fe(v))
	}
	pc, err := p.Parse(equation)
	require.NoError(t, err)

	k1, k2 := fe(2), fe(3)
	cc, err := gate.Compile(pc.Gates, pc.Groups, &k1, &k2)
	require.NoError(t, err)
	return cc, pc.Witness
}

func schemeFor(t *testing.T, n int, secret int64) *kzg.Scheme {
	t.Helper()
	s, err := srs.NewSampled(uint64(2*n+16), big.NewInt(secret))
	require.NoError(t, err)
	return kzg.New(s)
}

func TestVerifyAcceptsHonestProofForEachSeedScenario(t *testing.T) {
	scenarios := []struct {
		name      string
		equation  string
		witnesses map[string]int64
		secret    int64
		seed      int64
	}{
		{"addition and multiplication", "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5}, 101, 1},
		{"cube and literal", "x^3 + x + 5 = 35", map[string]int64{"x": 3}, 103, 2},
		{"multiplication and addition", "x * y + x = 10", map[string]int64{"x": 2, "y": 4}, 107, 3},
	}

	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			cc, w := buildCircuit(t, s.equation, s.witnesses)
			scheme := schemeFor(t, cc.N, s.secret)
			cpi := gate.NewCPI(cc)
			rng := rand.New(rand.NewSource(s.seed))

			proof, err := prover.Prove(cc, w, scheme, transcript.SHA256, rng)
			require.NoError(t, err)

			err = Verify(proof, cpi, scheme, transcript.SHA256)
			require.NoError(t, err)
		})
	}
}

func TestVerifyRejectsFlippedProofByte(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 109)
	cpi := gate.NewCPI(cc)
	rng := rand.New(rand.NewSource(11))

	proof, err := prover.Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)

	tampered := *proof
	var buf [96]byte = tampered.A.Encode()
	buf[0] ^= 0x01
	flipped, err := field.DecodeG1(buf[:])
	if err == nil {
		tampered.A = kzg.Commitment{Point: flipped}
		err = Verify(&tampered, cpi, scheme, transcript.SHA256)
		require.Error(t, err)
		return
	}

	// Flipping byte 0 sometimes produces a byte string that no longer
	// decodes as a valid curve point at all; that is itself an acceptable
	// rejection outcome (malformed input), so fall back to tampering a
	// scalar opening instead, which always yields another valid field
	// element and must change the verifier's decision.
	tamperedScalar := *proof
	one := fe(1)
	var bumped field.Fr
	bumped.Add(&tamperedScalar.ABar, &one)
	tamperedScalar.ABar = bumped
	err = Verify(&tamperedScalar, cpi, scheme, transcript.SHA256)
	require.Error(t, err)
}

func TestVerifyRejectsWrongCPI(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 113)
	rng := rand.New(rand.NewSource(13))

	proof, err := prover.Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)

	tamperedCPI := gate.NewCPI(cc)
	one := fe(1)
	tamperedCPI.QL[0].Add(&tamperedCPI.QL[0], &one)

	err = Verify(proof, tamperedCPI, scheme, transcript.SHA256)
	require.Error(t, err)
}

func TestVerifyRejectsRowCountMismatch(t *testing.T) {
	cc, w := buildCircuit(t, "x + y + z*z = 30", map[string]int64{"x": 3, "y": 2, "z": 5})
	scheme := schemeFor(t, cc.N, 127)
	cpi := gate.NewCPI(cc)
	rng := rand.New(rand.NewSource(17))

	proof, err := prover.Prove(cc, w, scheme, transcript.SHA256, rng)
	require.NoError(t, err)

	proof.N = proof.N * 2
	err = Verify(proof, cpi, scheme, transcript.SHA256)
	require.ErrorIs(t, err, ErrRowCountMismatch)
}

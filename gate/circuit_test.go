package gate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VanhGer/plonk-ckb/poly"
)

func simpleGates() []Gate {
	g0 := MultiplicationGate(Position{0, 0}, Position{1, 0}, Position{2, 0})
	g1 := AdditionGate(Position{0, 1}, Position{1, 1}, Position{2, 1})
	padded, _ := PadToPowerOfTwo([]Gate{g0, g1})
	return padded
}

func TestCompileSelectorVectorsMatchGates(t *testing.T) {
	assert := require.New(t)
	k1, k2 := conventionalShifts()
	gates := simpleGates()

	cc, err := Compile(gates, nil, &k1, &k2)
	assert.NoError(err)
	assert.Equal(len(gates), cc.N)

	domain := poly.NewDomain(cc.N)
	for i, g := range gates {
		root := domain.Element(i)
		got := cc.Gate.QM.Eval(&root)
		assert.True(got.Equal(&g.QM), "row %d", i)
		got = cc.Gate.QO.Eval(&root)
		assert.True(got.Equal(&g.QO), "row %d", i)
	}
}

func TestCPIEncodeDecodeRoundtrip(t *testing.T) {
	assert := require.New(t)
	k1, k2 := conventionalShifts()
	gates := simpleGates()

	cc, err := Compile(gates, nil, &k1, &k2)
	assert.NoError(err)

	cpi := NewCPI(cc)
	var buf bytes.Buffer
	assert.NoError(cpi.Encode(&buf))

	decoded, err := DecodeCPI(&buf)
	assert.NoError(err)
	assert.Equal(cpi.N, decoded.N)
	assert.True(cpi.K1.Equal(&decoded.K1))
	assert.True(cpi.K2.Equal(&decoded.K2))
	assert.Equal(len(cpi.QM), len(decoded.QM))
	for i := range cpi.QM {
		assert.True(cpi.QM[i].Equal(&decoded.QM[i]))
	}
	for i := range cpi.Sigma1 {
		assert.True(cpi.Sigma1[i].Equal(&decoded.Sigma1[i]))
	}
}

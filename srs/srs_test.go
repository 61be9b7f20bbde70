package srs

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VanhGer/plonk-ckb/field"
)

func TestNewSampledRejectsUndersize(t *testing.T) {
	assert := require.New(t)

	_, err := NewSampled(1, big.NewInt(7))
	assert.ErrorIs(err, ErrMinSize)
}

func TestNewSampledPowersOfSecret(t *testing.T) {
	assert := require.New(t)

	s, err := NewSampled(8, big.NewInt(5))
	assert.NoError(err)
	assert.Len(s.G1Points, 8)

	g1Gen, g2Gen := field.Generators()
	assert.True(s.G1Points[0].Equal(&g1Gen))
	assert.True(s.G2.Equal(&g2Gen))

	var expectG2s field.G2Point
	expectG2s.ScalarMultiplication(&g2Gen, big.NewInt(5))
	assert.True(s.G2s.Equal(&expectG2s))
}

func TestSrsEncodeDecodeRoundtrip(t *testing.T) {
	assert := require.New(t)

	original, err := NewSampled(4, big.NewInt(11))
	assert.NoError(err)

	var buf bytes.Buffer
	assert.NoError(original.Encode(&buf))

	decoded, err := Decode(&buf)
	assert.NoError(err)
	assert.Len(decoded.G1Points, len(original.G1Points))
	for i := range original.G1Points {
		assert.True(original.G1Points[i].Equal(&decoded.G1Points[i]), "index %d", i)
	}
	assert.True(original.G2.Equal(&decoded.G2))
	assert.True(original.G2s.Equal(&decoded.G2s))
}

func TestVerifyCosetShiftsConventionalChoice(t *testing.T) {
	assert := require.New(t)

	var k1, k2 field.Fr
	k1.SetUint64(2)
	k2.SetUint64(3)

	assert.NoError(VerifyCosetShifts(8, &k1, &k2))
}

func TestVerifyCosetShiftsRejectsMembership(t *testing.T) {
	assert := require.New(t)

	n := 4
	// 1 = ω^0 is in H by construction, so using it as a coset shift must fail.
	var k1 field.Fr
	k1.SetOne()
	var k2 field.Fr
	k2.SetUint64(3)
	assert.Error(VerifyCosetShifts(n, &k1, &k2))
}

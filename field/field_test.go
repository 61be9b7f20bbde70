package field

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInverseOfZeroFails(t *testing.T) {
	assert := require.New(t)

	var zero Fr
	_, err := Inverse(&zero)
	assert.ErrorIs(err, ErrInverseOfZero)
}

func TestInverseRoundtrip(t *testing.T) {
	assert := require.New(t)

	var a Fr
	a.SetUint64(42)
	inv, err := Inverse(&a)
	assert.NoError(err)

	var product Fr
	product.Mul(&a, &inv)
	assert.True(product.IsOne())
}

func TestFrEncodeDecodeRoundtrip(t *testing.T) {
	assert := require.New(t)

	var a Fr
	a.SetUint64(123456789)
	enc := EncodeFr(&a)

	decoded, err := DecodeFr(enc[:])
	assert.NoError(err)
	assert.True(a.Equal(&decoded))
}

func TestFrDecodeRejectsNonCanonical(t *testing.T) {
	assert := require.New(t)

	// All-0xff bytes are far larger than the BLS12-381 scalar modulus.
	bad := bytes.Repeat([]byte{0xff}, FrSize)
	_, err := DecodeFr(bad)
	assert.ErrorIs(err, ErrNonCanonical)
}

func TestFrDecodeRejectsTruncated(t *testing.T) {
	assert := require.New(t)

	_, err := DecodeFr(make([]byte, FrSize-1))
	assert.ErrorIs(err, ErrTruncated)
}

func TestG1EncodeDecodeRoundtrip(t *testing.T) {
	assert := require.New(t)

	g1, _ := Generators()
	enc := EncodeG1(&g1)
	decoded, err := DecodeG1(enc[:])
	assert.NoError(err)
	assert.True(g1.Equal(&decoded))
}

func TestRandomFrDeterministicWithSeededSource(t *testing.T) {
	assert := require.New(t)

	r1 := rand.New(rand.NewSource(7))
	r2 := rand.New(rand.NewSource(7))

	a, err := RandomFr(r1)
	assert.NoError(err)
	b, err := RandomFr(r2)
	assert.NoError(err)
	assert.True(a.Equal(&b))
}

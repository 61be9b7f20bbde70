package poly

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VanhGer/plonk-ckb/field"
)

func fe(v int64) field.Fr {
	var f field.Fr
	f.SetInt64(v)
	return f
}

func TestAddSubNeg(t *testing.T) {
	assert := require.New(t)

	p := New([]field.Fr{fe(1), fe(2), fe(3)})
	q := New([]field.Fr{fe(5), fe(-2)})

	sum := Add(p, q)
	assert.Equal(fe(6), sum[0])
	assert.Equal(fe(0), sum[1])
	assert.Equal(fe(3), sum[2])

	diff := Sub(p, q)
	back := Add(diff, q)
	x := fe(7)
	backAtX := back.Eval(&x)
	assert.True(backAtX.Equal(ptrEval(p, &x)))
}

func ptrEval(p Poly, x *field.Fr) *field.Fr {
	v := p.Eval(x)
	return &v
}

func TestMulAgainstEval(t *testing.T) {
	assert := require.New(t)

	p := New([]field.Fr{fe(1), fe(1)})  // 1 + x
	q := New([]field.Fr{fe(-1), fe(1)}) // -1 + x
	prod := Mul(p, q)                   // x^2 - 1

	x := fe(5)
	got := prod.Eval(&x)
	want := fe(24) // 25 - 1
	assert.Equal(want, got)
}

func TestDivRemExact(t *testing.T) {
	assert := require.New(t)

	// (x-1)(x-2) = x^2 - 3x + 2
	p := New([]field.Fr{fe(2), fe(-3), fe(1)})
	divisor := New([]field.Fr{fe(-1), fe(1)}) // x - 1

	q, r, err := DivRem(p, divisor)
	assert.NoError(err)
	assert.True(r.IsZero())

	x := fe(9)
	got := q.Eval(&x)
	want := fe(7) // (9-2) = 7
	assert.Equal(want, got)
}

func TestDivideByVanishing(t *testing.T) {
	assert := require.New(t)

	n := 4
	z := VanishingPoly(n)
	multiplier := New([]field.Fr{fe(3), fe(1)}) // 3 + x
	p := Mul(z, multiplier)

	q, r, err := DivRem(p, z)
	assert.NoError(err)
	assert.True(r.IsZero())
	assert.Equal(multiplier.Trim(), q.Trim())

	q2, r2 := DivideByVanishing(p, n)
	assert.True(r2.IsZero())
	assert.Equal(multiplier.Trim(), q2.Trim())
}

func TestDivideByVanishingNonExactRemainder(t *testing.T) {
	assert := require.New(t)

	n := 4
	p := New([]field.Fr{fe(1), fe(2), fe(3), fe(4), fe(5)}) // degree 4, not a multiple of Z_H
	_, r := DivideByVanishing(p, n)
	assert.False(r.IsZero())
}

func TestDomainInterpolateEvaluateRoundtrip(t *testing.T) {
	assert := require.New(t)

	d := NewDomain(8)
	values := make([]field.Fr, 8)
	for i := range values {
		values[i] = fe(int64(i * i))
	}

	p := d.Interpolate(values)
	got := d.Evaluate(p)
	for i := range values {
		assert.True(values[i].Equal(&got[i]), "index %d", i)
	}
}

func TestDomainGeneratorHasOrderN(t *testing.T) {
	assert := require.New(t)

	d := NewDomain(4)
	els := d.Elements()
	assert.True(els[0].IsOne())

	g := d.Generator()
	var check field.Fr
	check.Exp(g, big.NewInt(4))
	assert.True(check.IsOne())
}

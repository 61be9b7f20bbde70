// Package poly implements dense univariate polynomials over the BLS12-381
// scalar field: the arithmetic, the evaluation-domain machinery (FFT/iFFT
// over a multiplicative subgroup), and the vanishing-polynomial division the
// PLONK identities are built from.
package poly

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/VanhGer/plonk-ckb/field"
)

// Poly is a dense polynomial over Fr, coefficients in ascending degree
// order. The zero polynomial is the empty (or all-zero) slice; every other
// polynomial's last coefficient is non-zero once Trim is called.
type Poly []field.Fr

// ErrDivideByZero is the FieldError raised when dividing by the zero
// polynomial.
var ErrDivideByZero = errors.New("poly: division by zero polynomial")

// New returns a Poly copying the given coefficients, trimmed of trailing
// zeros.
func New(coeffs []field.Fr) Poly {
	p := make(Poly, len(coeffs))
	copy(p, coeffs)
	return p.Trim()
}

// Zero returns the zero polynomial.
func Zero() Poly { return Poly{} }

// Trim drops trailing zero coefficients so the leading coefficient is
// non-zero, or returns the empty slice for the zero polynomial.
func (p Poly) Trim() Poly {
	n := len(p)
	for n > 0 && p[n-1].IsZero() {
		n--
	}
	return p[:n]
}

// Degree returns deg(p), or -1 for the zero polynomial.
func (p Poly) Degree() int {
	p = p.Trim()
	return len(p) - 1
}

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool {
	return len(p.Trim()) == 0
}

// Clone returns a deep copy of p.
func (p Poly) Clone() Poly {
	out := make(Poly, len(p))
	copy(out, p)
	return out
}

// Eval evaluates p(x) at the given point via Horner's method.
func (p Poly) Eval(x *field.Fr) field.Fr {
	var out field.Fr
	for i := len(p) - 1; i >= 0; i-- {
		out.Mul(&out, x)
		out.Add(&out, &p[i])
	}
	return out
}

// Add returns p + q.
func Add(p, q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		var a, b field.Fr
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i].Add(&a, &b)
	}
	return out.Trim()
}

// Sub returns p - q.
func Sub(p, q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Poly, n)
	for i := 0; i < n; i++ {
		var a, b field.Fr
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		out[i].Sub(&a, &b)
	}
	return out.Trim()
}

// Neg returns -p.
func Neg(p Poly) Poly {
	out := make(Poly, len(p))
	for i := range p {
		out[i].Neg(&p[i])
	}
	return out.Trim()
}

// Scale returns c*p.
func Scale(p Poly, c *field.Fr) Poly {
	out := make(Poly, len(p))
	for i := range p {
		out[i].Mul(&p[i], c)
	}
	return out.Trim()
}

// AddConstant returns p + c (c added to the constant term).
func AddConstant(p Poly, c *field.Fr) Poly {
	if len(p) == 0 {
		return New([]field.Fr{*c})
	}
	out := p.Clone()
	out[0].Add(&out[0], c)
	return out.Trim()
}

// Mul returns p*q by schoolbook convolution. Circuit sizes in this system
// are small enough (hundreds to low thousands of gates) that this is not
// the bottleneck; a DFT-based multiplication would require padding both
// operands into a shared evaluation domain, which is what Domain is for
// when the identity itself is expressed as an evaluation-domain product.
func Mul(p, q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return Zero()
	}
	out := make(Poly, len(p)+len(q)-1)
	var tmp field.Fr
	for i, a := range p {
		if a.IsZero() {
			continue
		}
		for j, b := range q {
			tmp.Mul(&a, &b)
			out[i+j].Add(&out[i+j], &tmp)
		}
	}
	return out.Trim()
}

// MulMany multiplies a variadic list of polynomials left to right.
func MulMany(ps ...Poly) Poly {
	out := New([]field.Fr{field.One()})
	for _, p := range ps {
		out = Mul(out, p)
	}
	return out
}

// DivRem performs polynomial long division, returning (quotient, remainder)
// such that p = quotient*divisor + remainder with deg(remainder) <
// deg(divisor). Returns ErrDivideByZero if divisor is the zero polynomial.
func DivRem(p, divisor Poly) (Poly, Poly, error) {
	divisor = divisor.Trim()
	if divisor.IsZero() {
		return nil, nil, ErrDivideByZero
	}
	remainder := p.Clone()
	divDeg := divisor.Degree()
	lead, err := field.Inverse(&divisor[divDeg])
	if err != nil {
		return nil, nil, err
	}

	var quotient Poly
	for remainder = remainder.Trim(); len(remainder) > 0 && remainder.Degree() >= divDeg; remainder = remainder.Trim() {
		shift := remainder.Degree() - divDeg
		var coeff field.Fr
		coeff.Mul(&remainder[remainder.Degree()], &lead)

		if len(quotient) <= shift {
			grown := make(Poly, shift+1)
			copy(grown, quotient)
			quotient = grown
		}
		quotient[shift].Add(&quotient[shift], &coeff)

		for i, c := range divisor {
			var term field.Fr
			term.Mul(&c, &coeff)
			remainder[shift+i].Sub(&remainder[shift+i], &term)
		}
	}
	return quotient.Trim(), remainder.Trim(), nil
}

// DivideByVanishing divides p by the vanishing polynomial Z_H(x) = x^n - 1
// of the order-n subgroup, returning the quotient and the remainder. A
// non-zero remainder means p does not vanish on H: callers that require an
// exact division (the prover's quotient-polynomial identity) treat that as
// ProverError::UnsatisfiedConstraints.
//
// Division by x^n-1 is computed in O(len(p)) rather than via generic
// DivRem: q[i] = p[i+n] + q[i+n], walked from the top down, which is the
// standard trick for this specific divisor shape.
func DivideByVanishing(p Poly, n int) (quotient Poly, remainder Poly) {
	p = p.Trim()
	if len(p) <= n {
		return Zero(), p.Clone()
	}
	deg := len(p) - 1
	qDeg := deg - n
	q := make(Poly, qDeg+1)
	rem := make(Poly, n)
	work := p.Clone()
	for i := deg; i >= n; i-- {
		c := work[i]
		if c.IsZero() {
			continue
		}
		q[i-n].Add(&q[i-n], &c)
		work[i-n].Add(&work[i-n], &c)
	}
	copy(rem, work[:n])
	return q.Trim(), rem.Trim()
}

// VanishingPoly returns Z_H(x) = x^n - 1.
func VanishingPoly(n int) Poly {
	out := make(Poly, n+1)
	out[n].SetOne()
	var one field.Fr
	one.SetOne()
	out[0].Sub(&out[0], &one)
	return out
}

// Domain wraps a multiplicative subgroup of Fr* of size n, the evaluation
// domain H = {ω^0, ..., ω^(n-1)} over which selector and permutation
// polynomials are interpolated.
type Domain struct {
	inner *fft.Domain
	n     int
}

// NewDomain returns the evaluation domain of size n. n need not be a power
// of two; gnark-crypto's fft.Domain rounds up internally, but callers in
// this system always pass an already-padded power-of-two n.
func NewDomain(n int) *Domain {
	return &Domain{inner: fft.NewDomain(uint64(n)), n: n}
}

// Size returns n, the domain cardinality.
func (d *Domain) Size() int { return d.n }

// Generator returns ω, the primitive n-th root of unity generating H.
func (d *Domain) Generator() field.Fr { return d.inner.Generator }

// Element returns ω^i.
func (d *Domain) Element(i int) field.Fr {
	var out field.Fr
	out.Exp(d.inner.Generator, big.NewInt(int64(i)))
	return out
}

// Elements returns the full list [ω^0, ..., ω^(n-1)].
func (d *Domain) Elements() []field.Fr {
	out := make([]field.Fr, d.n)
	out[0].SetOne()
	for i := 1; i < d.n; i++ {
		out[i].Mul(&out[i-1], &d.inner.Generator)
	}
	return out
}

// Interpolate returns the unique polynomial of degree < n agreeing with
// values at each ω^i, via inverse FFT.
func (d *Domain) Interpolate(values []field.Fr) Poly {
	buf := make([]field.Fr, d.n)
	copy(buf, values)
	d.inner.FFTInverse(buf, fft.DIF)
	fft.BitReverse(buf)
	return Poly(buf).Trim()
}

// Evaluate returns [p(ω^0), ..., p(ω^(n-1))] via forward FFT. p is padded
// with zeros (it must not exceed degree n-1) to fit the domain.
func (d *Domain) Evaluate(p Poly) []field.Fr {
	buf := make([]field.Fr, d.n)
	copy(buf, p)
	d.inner.FFT(buf, fft.DIF)
	fft.BitReverse(buf)
	return buf
}

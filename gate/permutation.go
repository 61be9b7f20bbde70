package gate

import (
	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/poly"
)

// CopyConstraints holds the three permutation polynomials plus the coset
// shifts that keep columns B and C disjoint from column A's subgroup H.
type CopyConstraints struct {
	K1, K2         field.Fr
	Sigma1, Sigma2 poly.Poly
	Sigma3         poly.Poly
}

func cellIndex(p Position) int {
	return p.Row*3 + p.Column
}

// BuildCopyConstraints turns groups (one slice of positions per
// equivalence class of the copy relation) into the three σ polynomials.
//
// Per the cyclic-permutation design: cells are an arena indexed by
// row*3+column, and each equivalence class is threaded into a circular
// linked list via two integer arrays next[] and prev[] (prev[] kept for
// symmetry with that design even though only next[] is walked here). A
// singleton class (a value referenced only once) is its own one-cell
// cycle, left at the identity. This sidesteps building reference cycles
// and builds σ by a single pass over next[] rather than overwriting a
// flat vector in place per group.
func BuildCopyConstraints(groups [][]Position, n int, k1, k2 *field.Fr) (CopyConstraints, error) {
	domain := poly.NewDomain(n)
	roots := domain.Elements()

	total := 3 * n
	next := make([]int, total)
	prev := make([]int, total)
	for i := range next {
		next[i] = i
		prev[i] = i
	}
	for _, group := range groups {
		k := len(group)
		if k < 2 {
			continue
		}
		for j := 0; j < k; j++ {
			cur := cellIndex(group[j])
			nxt := cellIndex(group[(j+1)%k])
			next[cur] = nxt
			prev[nxt] = cur
		}
	}

	sigmaInit := make([]field.Fr, total)
	for row := 0; row < n; row++ {
		sigmaInit[row*3+0] = roots[row]
		sigmaInit[row*3+1].Mul(k1, &roots[row])
		sigmaInit[row*3+2].Mul(k2, &roots[row])
	}

	sigmaFinal := make([]field.Fr, total)
	for cell := 0; cell < total; cell++ {
		sigmaFinal[cell] = sigmaInit[next[cell]]
	}

	s1 := make([]field.Fr, n)
	s2 := make([]field.Fr, n)
	s3 := make([]field.Fr, n)
	for row := 0; row < n; row++ {
		s1[row] = sigmaFinal[row*3+0]
		s2[row] = sigmaFinal[row*3+1]
		s3[row] = sigmaFinal[row*3+2]
	}

	return CopyConstraints{
		K1:     *k1,
		K2:     *k2,
		Sigma1: domain.Interpolate(s1),
		Sigma2: domain.Interpolate(s2),
		Sigma3: domain.Interpolate(s3),
	}, nil
}

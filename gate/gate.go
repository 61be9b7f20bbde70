// Package gate defines the PLONK gate model (selector tuples and wire
// positions) and the circuit builder that turns a raw gate list into a
// power-of-two padded row count ready for interpolation.
package gate

import "github.com/VanhGer/plonk-ckb/field"

// Position names a single wire cell: one of the three columns (A=0, B=1,
// C=2) at a given row.
type Position struct {
	Column int
	Row    int
}

// Gate is the full selector tuple (q_L, q_R, q_M, q_O, q_C, π) plus the
// three wire positions it reads from or writes to. A gate with every
// selector zero is a dummy gate: it contributes nothing to the gate
// identity regardless of the wire values at its row.
type Gate struct {
	QL, QR, QM, QO, QC, PI field.Fr
	A, B, C                Position
}

// IsDummy reports whether every selector of g is zero.
func (g Gate) IsDummy() bool {
	return g.QL.IsZero() && g.QR.IsZero() && g.QM.IsZero() && g.QO.IsZero() && g.QC.IsZero() && g.PI.IsZero()
}

func negOne() field.Fr {
	var one field.Fr
	one.SetOne()
	one.Neg(&one)
	return one
}

// DummyGate returns the all-zero-selector padding gate for the given row,
// with all three wires pointing at that row's own cells.
func DummyGate(row int) Gate {
	return Gate{
		A: Position{Column: 0, Row: row},
		B: Position{Column: 1, Row: row},
		C: Position{Column: 2, Row: row},
	}
}

// AdditionGate returns a gate enforcing c = a + b: q_L=q_R=1, q_O=-1, q_M=0.
func AdditionGate(a, b, c Position) Gate {
	var one field.Fr
	one.SetOne()
	return Gate{QL: one, QR: one, QO: negOne(), A: a, B: b, C: c}
}

// MultiplicationGate returns a gate enforcing c = a*b: q_M=1, q_O=-1.
func MultiplicationGate(a, b, c Position) Gate {
	var one field.Fr
	one.SetOne()
	return Gate{QM: one, QO: negOne(), A: a, B: b, C: c}
}

// ConstantGate returns a gate binding the wire at position wire to the
// literal value c: q_L=1, q_O=-1, q_C=-c, which reduces to wire_a = c
// once the unreferenced B and C wires of this row are filled with zero by
// witness assignment (neither is recorded in any symbolic position's
// group, so nothing else ever equates them to a non-zero value).
func ConstantGate(wire Position, c *field.Fr) Gate {
	var one, negC field.Fr
	one.SetOne()
	negC.Neg(c)
	row := wire.Row
	return Gate{
		QL: one,
		QO: negOne(),
		QC: negC,
		A:  wire,
		B:  Position{Column: 1, Row: row},
		C:  Position{Column: 2, Row: row},
	}
}

// PadToPowerOfTwo appends dummy gates until the row count is a power of
// two, with a minimum of two rows. Returns the padded gate list and n.
func PadToPowerOfTwo(gates []Gate) ([]Gate, int) {
	n := nextPowerOfTwo(len(gates))
	if n < 2 {
		n = 2
	}
	out := make([]Gate, n)
	copy(out, gates)
	for i := len(gates); i < n; i++ {
		out[i] = DummyGate(i)
	}
	return out, n
}

func nextPowerOfTwo(x int) int {
	if x <= 1 {
		return 1
	}
	n := 1
	for n < x {
		n <<= 1
	}
	return n
}

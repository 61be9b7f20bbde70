// Package parser lowers a polynomial equation over named variables and
// integer literals into a gate list, a witness grid, and the symbolic
// equivalence classes the copy-constraint permutation is built from.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
)

// ParseError is the ParseError kind from the error taxonomy: a malformed
// equation.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: %s", e.Reason)
}

func newParseError(format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

var (
	// ErrNotExactlyOneEquals fires when the equation does not split into
	// exactly one left-hand side and one right-hand side on '='.
	ErrNotExactlyOneEquals = newParseError("equation must contain exactly one '='")
	// ErrEmptyProduct fires when a term, once split on '*', contains an
	// empty factor (e.g. a leading or doubled operator).
	ErrEmptyProduct = newParseError("product contains no factors")
)

var (
	intLiteralPattern = regexp.MustCompile(`^-?[0-9]+$`)
	identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	caretExpandPattern = regexp.MustCompile(`[a-z0-9]+\^[0-9]+`)
)

func isIntLiteral(token string) bool {
	return intLiteralPattern.MatchString(token)
}

func isIdentifier(token string) bool {
	return identifierPattern.MatchString(token)
}

// normalize lowercases the equation, strips whitespace, and expands every
// `v^n` into n repetitions of the full preceding token joined by '*'.
// Unlike the original's parse_string, which only re-emits the single
// character immediately before '^' and so mishandles multi-character
// identifiers, this expands the whole token ("v^n" becomes n repetitions
// of v joined by '*').
func normalize(equation string) (string, error) {
	lower := strings.ToLower(equation)
	stripped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, lower)

	var expandErr error
	expanded := caretExpandPattern.ReplaceAllStringFunc(stripped, func(m string) string {
		idx := strings.IndexByte(m, '^')
		token, numStr := m[:idx], m[idx+1:]
		n, err := strconv.Atoi(numStr)
		if err != nil || n <= 0 {
			expandErr = newParseError("'^' must be followed by a positive integer, got %q", numStr)
			return m
		}
		parts := make([]string, n)
		for i := range parts {
			parts[i] = token
		}
		return strings.Join(parts, "*")
	})
	if expandErr != nil {
		return "", expandErr
	}
	if strings.ContainsRune(expanded, '^') {
		return "", newParseError("'^' must be followed by a positive integer")
	}
	return expanded, nil
}

type foldKind int

const (
	foldMultiplication foldKind = iota
	foldAddition
)

type gateKey struct {
	kind        foldKind
	left, right string
}

// ParsedCircuit is the output of lowering: a padded gate list ready for
// gate.Compile, the symbolic equivalence classes (one slice of positions
// per distinct wire value), and the witness grid those positions were
// filled from.
type ParsedCircuit struct {
	Gates   []gate.Gate
	Groups  [][]gate.Position
	Witness gate.Witness
	N       int
}

// Parser accumulates named witness values and lowers equations against
// them. The zero value is ready to use.
type Parser struct {
	witnesses map[string]field.Fr
}

// New returns an empty Parser.
func New() *Parser {
	return &Parser{witnesses: map[string]field.Fr{}}
}

// AddWitness records the value of a named variable, case-insensitively,
// matching original_source/prover_client/src/plonk_generator.rs's chained
// parser.add_witness(name, value) usage. Returns the receiver so calls
// chain.
func (p *Parser) AddWitness(name string, value field.Fr) *Parser {
	if p.witnesses == nil {
		p.witnesses = map[string]field.Fr{}
	}
	p.witnesses[strings.ToLower(name)] = value
	return p
}

// lowering holds the mutable state built up while folding one equation;
// kept separate from Parser so a Parser's witness table is reusable
// across multiple Parse calls without cross-contamination.
type lowering struct {
	witnesses       map[string]field.Fr
	gates           []gate.Gate
	groups          map[string][]gate.Position
	values          map[string]field.Fr
	emitted         map[gateKey]bool
	constantDefined map[string]bool
	rowA, rowB, rowC []field.Fr
}

func (l *lowering) addGate(g gate.Gate) int {
	row := len(l.gates)
	l.gates = append(l.gates, g)
	l.rowA = append(l.rowA, field.Fr{})
	l.rowB = append(l.rowB, field.Fr{})
	l.rowC = append(l.rowC, field.Fr{})
	return row
}

func (l *lowering) setWitness(pos gate.Position, v field.Fr) {
	switch pos.Column {
	case 0:
		l.rowA[pos.Row] = v
	case 1:
		l.rowB[pos.Row] = v
	case 2:
		l.rowC[pos.Row] = v
	}
}

func (l *lowering) registerPosition(sym string, pos gate.Position, value field.Fr) {
	l.groups[sym] = append(l.groups[sym], pos)
	l.setWitness(pos, value)
}

// ensureConstantDefined emits, the first time token is seen, a constant
// gate binding a fresh wire to token's integer value. An identical
// constant gate, once emitted, is reused rather than duplicated.
func (l *lowering) ensureConstantDefined(token string, value field.Fr) {
	if l.constantDefined[token] {
		return
	}
	l.constantDefined[token] = true
	wire := gate.Position{Column: 0, Row: len(l.gates)}
	l.addGate(gate.ConstantGate(wire, &value))
	l.registerPosition(token, wire, value)
}

// valueOf resolves a leaf factor token (an integer literal or a witness
// variable) to its Fr value, memoizing the result.
func (l *lowering) valueOf(token string) (field.Fr, error) {
	if v, ok := l.values[token]; ok {
		return v, nil
	}
	if isIntLiteral(token) {
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return field.Fr{}, newParseError("integer literal %q out of range", token)
		}
		var v field.Fr
		v.SetInt64(n)
		l.values[token] = v
		return v, nil
	}
	if !isIdentifier(token) {
		return field.Fr{}, newParseError("invalid token %q", token)
	}
	v, ok := l.witnesses[token]
	if !ok {
		return field.Fr{}, newParseError("no witness supplied for variable %q", token)
	}
	l.values[token] = v
	return v, nil
}

// resolveFactors resolves every leaf factor of a product, defining a
// constant gate for any integer-literal factor the first time it's seen.
func (l *lowering) resolveFactors(factors []string) ([]string, []field.Fr, error) {
	syms := make([]string, len(factors))
	vals := make([]field.Fr, len(factors))
	for i, f := range factors {
		if f == "" {
			return nil, nil, ErrEmptyProduct
		}
		v, err := l.valueOf(f)
		if err != nil {
			return nil, nil, err
		}
		if isIntLiteral(f) {
			l.ensureConstantDefined(f, v)
		}
		syms[i] = f
		vals[i] = v
	}
	return syms, vals, nil
}

// fold left-folds a list of (symbol, value) pairs pairwise via either
// multiplication or addition gates, deduplicating identical (kind, left,
// right) gates and registering a position each time a symbol is actually
// read by a newly-emitted gate. Mirrors prepare_generation's two .reduce()
// passes in the original, generalized to one function shared by both.
func (l *lowering) fold(kind foldKind, syms []string, vals []field.Fr, sep byte) (string, field.Fr) {
	accSym, accVal := syms[0], vals[0]
	for i := 1; i < len(syms); i++ {
		rSym, rVal := syms[i], vals[i]
		resultSym := accSym + string(sep) + rSym

		var resultVal field.Fr
		if kind == foldMultiplication {
			resultVal.Mul(&accVal, &rVal)
		} else {
			resultVal.Add(&accVal, &rVal)
		}
		l.values[resultSym] = resultVal

		key := gateKey{kind: kind, left: accSym, right: rSym}
		if !l.emitted[key] {
			l.emitted[key] = true
			row := len(l.gates)
			posA := gate.Position{Column: 0, Row: row}
			posB := gate.Position{Column: 1, Row: row}
			posC := gate.Position{Column: 2, Row: row}
			var g gate.Gate
			if kind == foldMultiplication {
				g = gate.MultiplicationGate(posA, posB, posC)
			} else {
				g = gate.AdditionGate(posA, posB, posC)
			}
			l.addGate(g)
			l.registerPosition(accSym, posA, accVal)
			l.registerPosition(rSym, posB, rVal)
			l.registerPosition(resultSym, posC, resultVal)
		}
		accSym, accVal = resultSym, resultVal
	}
	return accSym, accVal
}

func padFr(values []field.Fr, n int) []field.Fr {
	out := make([]field.Fr, n)
	copy(out, values)
	return out
}

// Parse lowers equation into a ParsedCircuit against the witnesses
// accumulated so far via AddWitness.
func (p *Parser) Parse(equation string) (*ParsedCircuit, error) {
	normalized, err := normalize(equation)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(normalized, "=")
	if len(parts) != 2 {
		return nil, ErrNotExactlyOneEquals
	}
	lhs, rhs := parts[0], parts[1]

	l := &lowering{
		witnesses:       p.witnesses,
		groups:          map[string][]gate.Position{},
		values:          map[string]field.Fr{},
		emitted:         map[gateKey]bool{},
		constantDefined: map[string]bool{},
	}

	lhsTermFactors := make([][]string, 0)
	for _, t := range strings.Split(lhs, "+") {
		lhsTermFactors = append(lhsTermFactors, strings.Split(t, "*"))
	}
	// The equation's equality is lowered to "sum == 0" by appending
	// -(rhs) as an extra additive term. Rather than splicing a literal
	// '-' onto the first factor of rhs (which the original does, and
	// which never binds to an actual negated value since its parser is
	// witness-only), this prepends a clean synthetic "-1" factor so the
	// term is an ordinary product of well-formed factors, each handled
	// by the same constant-gate machinery as any other integer literal.
	negatedRhsFactors := append([]string{"-1"}, strings.Split(rhs, "*")...)
	allTermFactors := append(lhsTermFactors, negatedRhsFactors)

	termSyms := make([]string, len(allTermFactors))
	termVals := make([]field.Fr, len(allTermFactors))
	for i, factors := range allTermFactors {
		syms, vals, err := l.resolveFactors(factors)
		if err != nil {
			return nil, err
		}
		termSyms[i], termVals[i] = l.fold(foldMultiplication, syms, vals, '*')
	}

	finalSym, _ := l.fold(foldAddition, termSyms, termVals, '+')

	// Bind the grand total to the literal 0: the equation holds iff its
	// folded left-minus-right sum vanishes.
	var zero field.Fr
	zeroWire := gate.Position{Column: 0, Row: len(l.gates)}
	l.addGate(gate.ConstantGate(zeroWire, &zero))
	l.registerPosition(finalSym, zeroWire, zero)

	paddedGates, n := gate.PadToPowerOfTwo(l.gates)

	groups := make([][]gate.Position, 0, len(l.groups))
	for _, positions := range l.groups {
		if len(positions) > 1 {
			groups = append(groups, positions)
		}
	}

	return &ParsedCircuit{
		Gates: paddedGates,
		Groups: groups,
		Witness: gate.Witness{
			A: padFr(l.rowA, n),
			B: padFr(l.rowB, n),
			C: padFr(l.rowC, n),
		},
		N: n,
	}, nil
}

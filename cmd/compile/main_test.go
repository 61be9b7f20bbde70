package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaceholderIdentifiersFindsEachVariableOnce(t *testing.T) {
	out := placeholderIdentifiers("x + y + z*z = 30")
	require.ElementsMatch(t, []string{"x", "y", "z"}, out)
}

func TestPlaceholderIdentifiersIgnoresIntegerLiterals(t *testing.T) {
	out := placeholderIdentifiers("x^3 + x + 5 = 35")
	require.ElementsMatch(t, []string{"x"}, out)
}

func TestPlaceholderIdentifiersLowercasesMixedCaseInput(t *testing.T) {
	out := placeholderIdentifiers("X + Y = 5")
	require.ElementsMatch(t, []string{"x", "y"}, out)
}

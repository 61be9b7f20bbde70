package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VanhGer/plonk-ckb/field"
)

func TestParseWitnessesSplitsNameValuePairs(t *testing.T) {
	out, err := parseWitnesses("x=3;y=2;z=5")
	require.NoError(t, err)
	require.Len(t, out, 3)
	x, y, z := out["x"], out["y"], out["z"]
	require.Equal(t, big.NewInt(3), field.ToBigInt(&x))
	require.Equal(t, big.NewInt(2), field.ToBigInt(&y))
	require.Equal(t, big.NewInt(5), field.ToBigInt(&z))
}

func TestParseWitnessesAllowsEmptyString(t *testing.T) {
	out, err := parseWitnesses("")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestParseWitnessesRejectsMissingEquals(t *testing.T) {
	_, err := parseWitnesses("x3;y=2")
	require.Error(t, err)
}

func TestParseWitnessesRejectsNonIntegerValue(t *testing.T) {
	_, err := parseWitnesses("x=abc")
	require.Error(t, err)
}

func TestParseWitnessesSkipsBlankSegments(t *testing.T) {
	out, err := parseWitnesses("x=3;;y=2;")
	require.NoError(t, err)
	require.Len(t, out, 2)
}

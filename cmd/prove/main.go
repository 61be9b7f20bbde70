// Command prove lowers an equation against supplied witness values, proves
// it against an SRS, and writes the resulting proof bytes. Grounded on
// examples/basic/logicsigVerifier/main.go's control flow.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
	"github.com/VanhGer/plonk-ckb/kzg"
	"github.com/VanhGer/plonk-ckb/parser"
	"github.com/VanhGer/plonk-ckb/prover"
	"github.com/VanhGer/plonk-ckb/srs"
	"github.com/VanhGer/plonk-ckb/transcript"
)

func main() {
	os.Exit(run())
}

func run() int {
	srsPath := flag.String("srs", "", "path to an existing SRS file")
	equation := flag.String("equation", "", "the circuit equation, e.g. \"x + y + z*z = 30\"")
	witnessesFlag := flag.String("witnesses", "", "semicolon-separated name=value pairs, e.g. \"x=3;y=2;z=5\"")
	output := flag.String("output", "", "path to write the proof bytes to")
	flag.Parse()

	if *srsPath == "" || *equation == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "prove: --srs, --equation and --output are required")
		return 2
	}

	witnesses, err := parseWitnesses(*witnessesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: %v\n", err)
		return 2
	}

	srsFile, err := os.Open(*srsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: opening %s: %v\n", *srsPath, err)
		return 1
	}
	loadedSrs, err := srs.Decode(srsFile)
	srsFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: decoding SRS: %v\n", err)
		return 2
	}
	scheme := kzg.New(loadedSrs)

	p := parser.New()
	for name, value := range witnesses {
		p.AddWitness(name, value)
	}
	pc, err := p.Parse(*equation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: %v\n", err)
		return 2
	}

	k1, k2 := field.Fr{}, field.Fr{}
	k1.SetUint64(2)
	k2.SetUint64(3)
	cc, err := gate.Compile(pc.Gates, pc.Groups, &k1, &k2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: %v\n", err)
		return 2
	}

	proof, err := prover.Prove(cc, pc.Witness, scheme, transcript.SHA256, rand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: %v\n", err)
		return 2
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prove: creating %s: %v\n", *output, err)
		return 1
	}
	defer f.Close()
	if err := proof.Encode(f); err != nil {
		fmt.Fprintf(os.Stderr, "prove: writing proof: %v\n", err)
		return 1
	}

	fmt.Printf("wrote proof for %d-row circuit to %s\n", cc.N, *output)
	return 0
}

// parseWitnesses splits "name=value;name=value" into an Fr-valued map.
func parseWitnesses(raw string) (map[string]field.Fr, error) {
	out := map[string]field.Fr{}
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed witness %q: expected name=value", pair)
		}
		name := strings.TrimSpace(parts[0])
		n, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed witness value %q: %w", pair, err)
		}
		var v field.Fr
		v.SetInt64(n)
		out[name] = v
	}
	return out, nil
}

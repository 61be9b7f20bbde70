// Command compile lowers an equation into a CommonPreprocessedInput (CPI)
// and writes it, alongside a copy of the SRS, into an output directory.
// Grounded on examples/basic/logicsigVerifier/main.go's control flow; see
// DESIGN.md for why compile drives the parser with placeholder witness
// values (the equation's variable identifiers are not known until parsing,
// and this module's Parser fuses gate-topology construction with witness
// resolution in one pass).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/gate"
	"github.com/VanhGer/plonk-ckb/parser"
)

var identifierPattern = regexp.MustCompile(`[a-z][a-z0-9]*`)

const cpiFileName = "cpi.bin"
const srsFileName = "srs.bin"

func main() {
	os.Exit(run())
}

func run() int {
	equation := flag.String("equation", "", "the circuit equation, e.g. \"x + y + z*z = 30\"")
	srsPath := flag.String("srs", "", "path to an existing SRS file")
	output := flag.String("output", "", "directory to write cpi.bin and a copy of the SRS into")
	flag.Parse()

	if *equation == "" || *srsPath == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "compile: --equation, --srs and --output are required")
		return 2
	}

	p := parser.New()
	for _, name := range placeholderIdentifiers(*equation) {
		p.AddWitness(name, field.One())
	}
	pc, err := p.Parse(*equation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return 2
	}

	k1, k2 := field.Fr{}, field.Fr{}
	k1.SetUint64(2)
	k2.SetUint64(3)
	cc, err := gate.Compile(pc.Gates, pc.Groups, &k1, &k2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return 2
	}
	cpi := gate.NewCPI(cc)

	if err := os.MkdirAll(*output, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "compile: creating %s: %v\n", *output, err)
		return 1
	}

	cpiFile, err := os.Create(filepath.Join(*output, cpiFileName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return 1
	}
	defer cpiFile.Close()
	if err := cpi.Encode(cpiFile); err != nil {
		fmt.Fprintf(os.Stderr, "compile: writing CPI: %v\n", err)
		return 1
	}

	if err := copyFile(*srsPath, filepath.Join(*output, srsFileName)); err != nil {
		fmt.Fprintf(os.Stderr, "compile: copying SRS into output directory: %v\n", err)
		return 1
	}

	fmt.Printf("wrote circuit of %d rows to %s\n", cc.N, *output)
	return 0
}

// placeholderIdentifiers scans equation for variable-shaped tokens (letters
// then digits, same lexical class parser.isIdentifier accepts) so compile
// can supply a witness value for each one without having to run the
// equation against real inputs.
func placeholderIdentifiers(equation string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tok := range identifierPattern.FindAllString(strings.ToLower(equation), -1) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Close()
}

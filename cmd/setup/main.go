// Command setup generates a structured reference string and writes it to
// disk. Grounded on examples/basic/logicsigVerifier/main.go's plain
// flag-based, log.Fatalf-on-error control flow; unlike that example this
// program exits with specific codes (0 success, 1 IO error, 2 validation
// error) rather than always exiting 1 via log.Fatalf.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/VanhGer/plonk-ckb/srs"
)

func main() {
	os.Exit(run())
}

func run() int {
	size := flag.Uint64("size", 0, "number of G1 powers the SRS must carry (at least the circuit's row count + 6)")
	output := flag.String("output", "", "path to write the SRS bytes to")
	flag.Parse()

	if *size == 0 || *output == "" {
		fmt.Fprintln(os.Stderr, "setup: --size and --output are required")
		return 2
	}

	secret, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 255))
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: drawing setup secret: %v\n", err)
		return 1
	}

	s, err := srs.NewSampled(*size, secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		return 2
	}

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: creating %s: %v\n", *output, err)
		return 1
	}
	defer f.Close()

	if err := s.Encode(f); err != nil {
		fmt.Fprintf(os.Stderr, "setup: writing %s: %v\n", *output, err)
		return 1
	}

	fmt.Printf("wrote SRS of size %d to %s\n", *size, *output)
	return 0
}

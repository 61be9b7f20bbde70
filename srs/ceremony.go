package srs

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/VanhGer/plonk-ckb/field"
)

// ceremonyTranscript mirrors the JSON shape of the Ethereum KZG Ceremony
// transcript.json: a list of transcripts at different sizes, each carrying
// hex-encoded uncompressed G1/G2 powers.
type ceremonyTranscript struct {
	NumG1Powers int `json:"numG1Powers"`
	NumG2Powers int `json:"numG2Powers"`
	PowersOfTau struct {
		G1Powers []string `json:"G1Powers"`
		G2Powers []string `json:"G2Powers"`
	} `json:"powersOfTau"`
}

type ceremonyFile struct {
	Transcripts []ceremonyTranscript `json:"transcripts"`
}

// LoadCeremony reads an Ethereum KZG Ceremony transcript.json and selects
// the sub-transcript with exactly numG1Powers G1 powers, returning the
// corresponding Srs. This is an alternative to NewSampled for deployments
// that want a publicly-audited SRS instead of a freshly sampled secret.
func LoadCeremony(r io.Reader, numG1Powers int) (*Srs, error) {
	var file ceremonyFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("srs: decoding ceremony transcript: %w", err)
	}

	var chosen *ceremonyTranscript
	for i := range file.Transcripts {
		if file.Transcripts[i].NumG1Powers == numG1Powers {
			chosen = &file.Transcripts[i]
			break
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("srs: no ceremony transcript with %d G1 powers", numG1Powers)
	}
	if len(chosen.PowersOfTau.G2Powers) < 2 {
		return nil, fmt.Errorf("srs: ceremony transcript has fewer than 2 G2 powers")
	}

	out := &Srs{G1Points: make([]field.G1Point, len(chosen.PowersOfTau.G1Powers))}
	for i, hexStr := range chosen.PowersOfTau.G1Powers {
		b, err := decodeHexPoint(hexStr)
		if err != nil {
			return nil, fmt.Errorf("srs: decoding G1 power %d: %w", i, err)
		}
		p, err := field.DecodeG1(b)
		if err != nil {
			return nil, fmt.Errorf("srs: invalid G1 power %d: %w", i, err)
		}
		out.G1Points[i] = p
	}

	g2Bytes := make([][]byte, 2)
	for i := 0; i < 2; i++ {
		b, err := decodeHexPoint(chosen.PowersOfTau.G2Powers[i])
		if err != nil {
			return nil, fmt.Errorf("srs: decoding G2 power %d: %w", i, err)
		}
		g2Bytes[i] = b
	}
	g2, err := field.DecodeG2(g2Bytes[0])
	if err != nil {
		return nil, fmt.Errorf("srs: invalid g2 generator: %w", err)
	}
	g2s, err := field.DecodeG2(g2Bytes[1])
	if err != nil {
		return nil, fmt.Errorf("srs: invalid g2*s: %w", err)
	}
	out.G2 = g2
	out.G2s = g2s

	return out, nil
}

func decodeHexPoint(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hex.DecodeString(s)
}

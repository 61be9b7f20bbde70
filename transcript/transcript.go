// Package transcript implements a Fiat-Shamir challenge generator: a state
// machine that absorbs KZG commitments in order and derives scalar
// challenges from a deterministic RNG seeded by the accumulated hash
// state. Grounded on the shape of gnark-crypto's own fiat-shamir.Transcript
// (github.com/consensys/gnark-crypto/fiat-shamir, exercised throughout
// gnark's plonk backends via fiatshamir.NewTranscript/Bind/ComputeChallenge),
// a fresh hasher absorbing prior state plus newly-fed data. This package
// exposes a different public surface (feed/generate_challenges<N> drawing
// from a seeded RNG rather than hashing each challenge label directly), so
// it is a hand-rolled state machine following that shape rather than a
// direct wrapping of the gnark-crypto type.
package transcript

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math/rand"

	"golang.org/x/crypto/blake2s"

	"github.com/VanhGer/plonk-ckb/field"
	"github.com/VanhGer/plonk-ckb/kzg"
)

// NewHasher constructs a fresh hash.Hash instance; Transcript calls it once
// per feed rather than reusing and resetting one.
type NewHasher func() hash.Hash

// SHA256 is the default digest variant.
func SHA256() hash.Hash { return sha256.New() }

// Blake2s256 is an alternate digest variant, exercising
// golang.org/x/crypto/blake2s alongside the standard library's sha256.
func Blake2s256() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		// blake2s.New256 only errors when a key longer than 32 bytes is
		// supplied; nil never does.
		panic(err)
	}
	return h
}

// Transcript is the stateful Fiat-Shamir object. The zero value is not
// usable; construct with New.
type Transcript struct {
	newHasher NewHasher
	state     []byte // nil in the Empty state
	generated bool
}

// New returns an Empty transcript driven by newHasher.
func New(newHasher NewHasher) *Transcript {
	return &Transcript{newHasher: newHasher}
}

// Feed absorbs one commitment's uncompressed G1 encoding: a fresh hasher is
// seeded with the prior state (if any), then with the commitment's bytes;
// the digest becomes the new state, and the "generated since last feed"
// flag is cleared.
func (t *Transcript) Feed(c kzg.Commitment) {
	h := t.newHasher()
	if t.state != nil {
		h.Write(t.state)
	}
	b := c.Encode()
	h.Write(b[:])
	t.state = h.Sum(nil)
	t.generated = false
}

// FeedCommitments is from_commitments: feed each commitment in order.
func (t *Transcript) FeedCommitments(cs ...kzg.Commitment) {
	for _, c := range cs {
		t.Feed(c)
	}
}

// GenerateChallenges draws n uniform Fr challenges from the transcript's
// current state. Panics if called twice without an intervening Feed:
// generating twice in a row without feeding in between is a caller bug,
// not a recoverable error.
func (t *Transcript) GenerateChallenges(n int) []field.Fr {
	if t.generated {
		panic("transcript: GenerateChallenges called twice without an intervening Feed")
	}
	if len(t.state) < 8 {
		panic("transcript: GenerateChallenges called before any Feed")
	}
	seed := int64(binary.LittleEndian.Uint64(t.state[:8]))
	rng := rand.New(rand.NewSource(seed))

	out := make([]field.Fr, n)
	for i := range out {
		fr, err := field.RandomFr(rng)
		if err != nil {
			// rand.Rand.Read never errors.
			panic(err)
		}
		out[i] = fr
	}
	t.generated = true
	return out
}

// GenerateChallenge is the n=1 convenience form used for every single
// challenge draw. Kept distinct from GenerateChallenges so call sites read
// as "one challenge" rather than "a slice of one".
func (t *Transcript) GenerateChallenge() field.Fr {
	return t.GenerateChallenges(1)[0]
}

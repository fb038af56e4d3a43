package hashing

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math/bits"
	"math/rand"
	"strings"
)

const (
	// NumPermutations is the MinHash signature length.
	NumPermutations = 64
	// shingleSize is the byte-level k-gram width.
	shingleSize = 5
	// permutationSeed fixes the permutation family for the life of the
	// deployment. Changing it invalidates every stored signature.
	permutationSeed = 42
	// mersenne61 is the modulus of the linear hash family.
	mersenne61 = (uint64(1) << 61) - 1
	// emptySlot is the initial (maximal) value of a signature slot.
	emptySlot = (uint64(1) << 63) - 1

	hexBlock = 16
)

// Permutations is a family of independent linear hash functions
// (a*x + b) mod M used to build MinHash signatures.
type Permutations struct {
	a []uint64
	b []uint64
}

// NewPermutations derives n permutation pairs from the given seed.
func NewPermutations(seed int64, n int) *Permutations {
	rng := rand.New(rand.NewSource(seed))
	p := &Permutations{
		a: make([]uint64, n),
		b: make([]uint64, n),
	}
	for i := 0; i < n; i++ {
		p.a[i] = 1 + uint64(rng.Int63n(int64(mersenne61-1)))
		p.b[i] = uint64(rng.Int63n(int64(mersenne61)))
	}
	return p
}

// defaultPermutations is built once from the fixed seed; every signature
// in the history was produced with this family.
var defaultPermutations = NewPermutations(permutationSeed, NumPermutations)

// apply computes (a*x + b) mod M without overflow via 128-bit multiply.
func (p *Permutations) apply(i int, x uint64) uint64 {
	hi, lo := bits.Mul64(p.a[i], x)
	// hi < 2^61 <= M, so Rem64 is safe here.
	rem := bits.Rem64(hi, lo, mersenne61)
	return (rem + p.b[i]) % mersenne61
}

// Shingles hashes every 5-byte sliding window of the UTF-8 text to a
// 64-bit integer.
func Shingles(text string) []uint64 {
	b := []byte(text)
	if len(b) < shingleSize {
		return nil
	}
	out := make([]uint64, 0, len(b)-shingleSize+1)
	for i := 0; i+shingleSize <= len(b); i++ {
		sum := sha1.Sum(b[i : i+shingleSize])
		out = append(out, binary.BigEndian.Uint64(sum[:8]))
	}
	return out
}

// MinHash builds a signature of len(perms) slots, each the minimum
// permuted shingle hash. A nil perms uses the fixed default family.
func MinHash(text string, perms *Permutations) []uint64 {
	if perms == nil {
		perms = defaultPermutations
	}
	n := len(perms.a)
	sig := make([]uint64, n)
	sh := Shingles(text)
	if len(sh) == 0 {
		return sig
	}
	for i := range sig {
		sig[i] = emptySlot
	}
	for _, x := range sh {
		for i := 0; i < n; i++ {
			if v := perms.apply(i, x); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// MinHashHex encodes the signature as concatenated 16-hex-char blocks.
func MinHashHex(text string) string {
	sig := MinHash(text, nil)
	var sb strings.Builder
	sb.Grow(len(sig) * hexBlock)
	for _, v := range sig {
		fmt.Fprintf(&sb, "%016x", v)
	}
	return sb.String()
}

// MinHashSimilarityHex approximates Jaccard similarity as the fraction of
// equal slots between two hex-encoded signatures. Returns 0 when either
// signature is missing or no full block aligns.
func MinHashSimilarityHex(aHex, bHex string) float64 {
	if aHex == "" || bHex == "" {
		return 0
	}
	n := len(aHex)
	if len(bHex) < n {
		n = len(bHex)
	}
	n /= hexBlock
	if n == 0 {
		return 0
	}
	eq := 0
	for i := 0; i < n; i++ {
		if aHex[i*hexBlock:(i+1)*hexBlock] == bHex[i*hexBlock:(i+1)*hexBlock] {
			eq++
		}
	}
	return float64(eq) / float64(n)
}

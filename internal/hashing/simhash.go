// Package hashing implements the text and image fingerprints used by the
// novelty and duplicate checks: SimHash and MinHash over canonical prompt
// text, dHash and pHash over grayscale pixel matrices. All functions are
// pure; the MinHash permutation family is fixed at package init so
// signatures stay comparable across process runs.
package hashing

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math/bits"
	"strconv"
	"unicode"
)

// HashBits is the width of every fingerprint except MinHash signatures.
const HashBits = 64

// MaxHammingDistance is returned for malformed hex input so corrupt
// history rows can never spuriously block generation.
const MaxHammingDistance = HashBits

// Tokenize splits text into lowercase alphanumeric runs plus the
// single-character structural delimiters that matter in canonical JSON.
func Tokenize(text string) []string {
	var out []string
	var buf []rune
	for _, ch := range text {
		switch {
		case unicode.IsLetter(ch), unicode.IsDigit(ch):
			buf = append(buf, unicode.ToLower(ch))
		default:
			if len(buf) > 0 {
				out = append(out, string(buf))
				buf = buf[:0]
			}
			switch ch {
			case ':', ',', '{', '}', '[', ']':
				out = append(out, string(ch))
			}
		}
	}
	if len(buf) > 0 {
		out = append(out, string(buf))
	}
	return out
}

// tokenHash is the low 64 bits (big-endian) of the token's SHA-1 digest.
func tokenHash(tok string) uint64 {
	sum := sha1.Sum([]byte(tok))
	return binary.BigEndian.Uint64(sum[:8])
}

// SimHash64 computes the classic 64-bit SimHash of text and returns it as
// 16 lowercase hex characters. Order-independent except through the token
// multiset.
func SimHash64(text string) string {
	var votes [HashBits]int
	for _, tok := range Tokenize(text) {
		h := tokenHash(tok)
		for i := 0; i < HashBits; i++ {
			if (h>>uint(i))&1 == 1 {
				votes[i]++
			} else {
				votes[i]--
			}
		}
	}
	var out uint64
	for i := 0; i < HashBits; i++ {
		if votes[i] > 0 {
			out |= 1 << uint(i)
		}
	}
	return fmt.Sprintf("%016x", out)
}

// HammingDistanceHex returns the popcount of the XOR of two 16-hex-char
// hashes. Malformed input yields MaxHammingDistance rather than an error.
func HammingDistanceHex(aHex, bHex string) int {
	a, err := strconv.ParseUint(aHex, 16, 64)
	if err != nil {
		return MaxHammingDistance
	}
	b, err := strconv.ParseUint(bHex, 16, 64)
	if err != nil {
		return MaxHammingDistance
	}
	return bits.OnesCount64(a ^ b)
}

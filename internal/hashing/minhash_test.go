package hashing

import "testing"

func TestMinHashHexDeterministic(t *testing.T) {
	text := `{"subject":["owl","gears","moon"],"finish":"clean neon etching"}`
	a := MinHashHex(text)
	b := MinHashHex(text)
	if a != b {
		t.Fatalf("MinHashHex not deterministic")
	}
	if len(a) != NumPermutations*16 {
		t.Fatalf("signature length: want=%d got=%d", NumPermutations*16, len(a))
	}
}

func TestMinHashFixedPermutationFamily(t *testing.T) {
	// Rebuilding the family from the same seed must reproduce signatures,
	// otherwise stored history becomes incomparable across restarts.
	perms := NewPermutations(42, NumPermutations)
	text := "the permutation family is stable across invocations"
	a := MinHash(text, perms)
	b := MinHash(text, nil)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between seeded and default family", i)
		}
	}
}

func TestMinHashSimilarityHex(t *testing.T) {
	s := MinHashHex("some reasonably long text for shingling purposes")
	if sim := MinHashSimilarityHex(s, s); sim != 1.0 {
		t.Fatalf("self similarity: want=1.0 got=%v", sim)
	}
	if sim := MinHashSimilarityHex("", s); sim != 0 {
		t.Fatalf("empty signature similarity: want=0 got=%v", sim)
	}
	if sim := MinHashSimilarityHex("abc", "def"); sim != 0 {
		t.Fatalf("sub-block signatures: want=0 got=%v", sim)
	}

	other := MinHashHex("entirely unrelated content with different shingles")
	if sim := MinHashSimilarityHex(s, other); sim >= 0.9 {
		t.Fatalf("unrelated texts too similar: %v", sim)
	}
}

func TestMinHashShortText(t *testing.T) {
	// Texts shorter than one shingle produce the all-zero signature.
	sig := MinHash("abc", nil)
	for i, v := range sig {
		if v != 0 {
			t.Fatalf("slot %d of short-text signature: want=0 got=%d", i, v)
		}
	}
}

func TestShingleCount(t *testing.T) {
	sh := Shingles("abcdefgh") // 8 bytes -> 4 windows of 5
	if len(sh) != 4 {
		t.Fatalf("shingle count: want=4 got=%d", len(sh))
	}
}

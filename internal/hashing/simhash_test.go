package hashing

import (
	"strings"
	"testing"
)

func TestSimHash64Deterministic(t *testing.T) {
	text := `{"design_title":"midnight circuitry","subject":["owl","gears"]}`
	a := SimHash64(text)
	b := SimHash64(text)
	if a != b {
		t.Fatalf("SimHash64 not deterministic: %q vs %q", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("SimHash64 length: want=16 got=%d (%q)", len(a), a)
	}
}

func TestSimHash64DistinctTexts(t *testing.T) {
	a := SimHash64(`{"subject":["owl","gears","moon"],"style":"etching"}`)
	b := SimHash64(`{"completely":"different","tokens":42,"here":true}`)
	if d := HammingDistanceHex(a, b); d == 0 {
		t.Fatalf("distinct token sets should not collide: distance=%d", d)
	}
}

func TestSimHash64OrderIndependent(t *testing.T) {
	a := SimHash64("alpha beta gamma")
	b := SimHash64("gamma alpha beta")
	if a != b {
		t.Fatalf("token order should not matter: %q vs %q", a, b)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize(`{"Key":["Val-1",2]}`)
	want := []string{"{", "key", ":", "[", "val", "1", ",", "2", "]", "}"}
	if len(got) != len(want) {
		t.Fatalf("token count: want=%d got=%d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want=%q got=%q", i, want[i], got[i])
		}
	}
}

func TestTokenizeKeepsUnicodeLetters(t *testing.T) {
	got := Tokenize(`{"subject":"ukiyo-é grüne 琵琶"}`)
	want := []string{"{", "subject", ":", "ukiyo", "é", "grüne", "琵琶", "}"}
	if len(got) != len(want) {
		t.Fatalf("token count: want=%d got=%d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want=%q got=%q", i, want[i], got[i])
		}
	}
}

func TestTokenizeLowercasesUnicode(t *testing.T) {
	a := Tokenize("Émigré")
	b := Tokenize("émigré")
	if len(a) != 1 || len(b) != 1 || a[0] != b[0] {
		t.Fatalf("unicode case folding: %v vs %v", a, b)
	}
}

func TestHammingDistanceHex(t *testing.T) {
	h := SimHash64("some text")
	if d := HammingDistanceHex(h, h); d != 0 {
		t.Fatalf("self distance: want=0 got=%d", d)
	}
	if d := HammingDistanceHex("0000000000000000", "ffffffffffffffff"); d != 64 {
		t.Fatalf("complement distance: want=64 got=%d", d)
	}
	if d := HammingDistanceHex("not-hex", h); d != MaxHammingDistance {
		t.Fatalf("malformed input: want=%d got=%d", MaxHammingDistance, d)
	}
	if d := HammingDistanceHex(h, ""); d != MaxHammingDistance {
		t.Fatalf("empty input: want=%d got=%d", MaxHammingDistance, d)
	}
}

func TestHammingDistanceComplementOfHash(t *testing.T) {
	const digits = "0123456789abcdef"
	h := SimHash64("complement me")
	comp := make([]byte, len(h))
	for i := 0; i < len(h); i++ {
		comp[i] = digits[15-strings.IndexByte(digits, h[i])]
	}
	if d := HammingDistanceHex(h, string(comp)); d != 64 {
		t.Fatalf("bitwise complement distance: want=64 got=%d", d)
	}
}

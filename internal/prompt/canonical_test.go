package prompt

import (
	"strings"
	"testing"
)

func TestCanonicalDeterministic(t *testing.T) {
	doc := DefaultFrame()
	doc.DesignTitle = "Test Design"
	a, err := Canonical(doc)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	b, err := Canonical(doc)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if a != b {
		t.Fatalf("canonical form not deterministic")
	}
	if ws := whitespaceOutsideStrings(a); ws != "" {
		t.Fatalf("canonical form has structural whitespace at %q", ws)
	}
}

// whitespaceOutsideStrings returns context around the first whitespace rune
// that is not inside a JSON string literal, or "" when the separators are
// fully compact. Spaces inside values are legitimate.
func whitespaceOutsideStrings(s string) string {
	inString := false
	escaped := false
	for i, ch := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch {
		case ch == '"':
			inString = true
		case ch == ' ', ch == '\t', ch == '\n', ch == '\r':
			lo := i - 10
			if lo < 0 {
				lo = 0
			}
			hi := i + 10
			if hi > len(s) {
				hi = len(s)
			}
			return s[lo:hi]
		}
	}
	return ""
}

func TestCanonicalSortsKeys(t *testing.T) {
	doc := DefaultFrame()
	c, err := Canonical(doc)
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	// "background" sorts before "color" sorts before "composition".
	bg := strings.Index(c, `"background"`)
	col := strings.Index(c, `"color"`)
	comp := strings.Index(c, `"composition"`)
	if bg < 0 || col < 0 || comp < 0 || !(bg < col && col < comp) {
		t.Fatalf("keys not globally sorted: background=%d color=%d composition=%d", bg, col, comp)
	}
}

func TestSlimCanonicalIgnoresBoilerplate(t *testing.T) {
	a := DefaultFrame()
	a.DesignTitle = "Same Creative Content"
	a.Subject = []string{"owl", "gears"}

	b := DefaultFrame()
	b.DesignTitle = "Same Creative Content"
	b.Subject = []string{"owl", "gears"}
	// Differ only in structurally fixed fields.
	b.PrintSpec.PxSize = PxSize{Width: 1000, Height: 800}
	b.PrintSpec.DPITarget = 72
	b.PrintSpec.SafeMarginPx = 5
	b.Constraints.NoWatermarks = false
	b.Output.Seed = 99999

	sa, err := SlimCanonical(a)
	if err != nil {
		t.Fatalf("SlimCanonical: %v", err)
	}
	sb, err := SlimCanonical(b)
	if err != nil {
		t.Fatalf("SlimCanonical: %v", err)
	}
	if sa != sb {
		t.Fatalf("slim canonical should ignore boilerplate:\n%s\n%s", sa, sb)
	}

	fa, _ := Canonical(a)
	fb, _ := Canonical(b)
	if fa == fb {
		t.Fatalf("full canonical should still see boilerplate changes")
	}
}

func TestSlimCanonicalSeesCreativeChanges(t *testing.T) {
	a := DefaultFrame()
	a.Subject = []string{"owl"}
	b := DefaultFrame()
	b.Subject = []string{"fox"}

	sa, _ := SlimCanonical(a)
	sb, _ := SlimCanonical(b)
	if sa == sb {
		t.Fatalf("slim canonical must reflect creative field changes")
	}
}

package prompt

import "testing"

func TestSetPathScalarLeaves(t *testing.T) {
	doc := DefaultFrame()
	if err := SetPath(doc, "text.secondary", "AUTOMATE EVERYTHING"); err != nil {
		t.Fatalf("SetPath string: %v", err)
	}
	if doc.Text.Secondary != "AUTOMATE EVERYTHING" {
		t.Fatalf("text.secondary: got %q", doc.Text.Secondary)
	}
	if err := SetPath(doc, "print_spec.px_size.width", 1024); err != nil {
		t.Fatalf("SetPath int: %v", err)
	}
	if doc.PrintSpec.PxSize.Width != 1024 {
		t.Fatalf("px width: got %d", doc.PrintSpec.PxSize.Width)
	}
	if err := SetPath(doc, "color.allow_gradients", false); err != nil {
		t.Fatalf("SetPath bool: %v", err)
	}
	if doc.Color.AllowGradients {
		t.Fatalf("color.allow_gradients should be false")
	}
	if err := SetPath(doc, "color.gradient_map.clip_black", 0.04); err != nil {
		t.Fatalf("SetPath float: %v", err)
	}
	if doc.Color.GradientMap.ClipBlack != 0.04 {
		t.Fatalf("clip_black: got %v", doc.Color.GradientMap.ClipBlack)
	}
}

func TestSetPathListLeaves(t *testing.T) {
	doc := DefaultFrame()
	if err := SetPath(doc, "subject", []string{"owl", "gears"}); err != nil {
		t.Fatalf("SetPath []string: %v", err)
	}
	if len(doc.Subject) != 2 || doc.Subject[0] != "owl" {
		t.Fatalf("subject: got %v", doc.Subject)
	}
	// A scalar landing on a list leaf wraps into a single-element list.
	if err := SetPath(doc, "icons_symbols", "lightning"); err != nil {
		t.Fatalf("SetPath scalar-to-list: %v", err)
	}
	if len(doc.IconsSymbols) != 1 || doc.IconsSymbols[0] != "lightning" {
		t.Fatalf("icons_symbols: got %v", doc.IconsSymbols)
	}
	if err := SetPath(doc, "visual_style.genre_tags", []interface{}{"sci-fi", "retro"}); err != nil {
		t.Fatalf("SetPath []interface{}: %v", err)
	}
	if len(doc.VisualStyle.GenreTags) != 2 || doc.VisualStyle.GenreTags[1] != "retro" {
		t.Fatalf("genre_tags: got %v", doc.VisualStyle.GenreTags)
	}
}

func TestSetPathErrors(t *testing.T) {
	doc := DefaultFrame()
	if err := SetPath(doc, "no.such.path", "x"); err == nil {
		t.Fatalf("unknown path should error")
	}
	if err := SetPath(doc, "print_spec.px_size.width", "not-a-number"); err == nil {
		t.Fatalf("string to int leaf should error")
	}
}

func TestCoerceValue(t *testing.T) {
	if v := CoerceValue("print_spec.px_size.width", "5400"); v != 5400 {
		t.Fatalf("int coercion: got %v (%T)", v, v)
	}
	if v := CoerceValue("color.gradient_map.clip_black", "0.02"); v != 0.02 {
		t.Fatalf("float coercion: got %v (%T)", v, v)
	}
	for raw, want := range map[string]bool{"true": true, "1": true, "YES": true, "y": true, "false": false, "0": false, "No": false, "n": false} {
		if v := CoerceValue("output.transparent", raw); v != want {
			t.Fatalf("bool coercion of %q: got %v", raw, v)
		}
	}
	// Unparseable values pass through unmodified.
	if v := CoerceValue("output.seed", "not-an-int"); v != "not-an-int" {
		t.Fatalf("unparseable int should pass through: got %v", v)
	}
	// Untyped keys stay text.
	if v := CoerceValue("text.layout", "stacked"); v != "stacked" {
		t.Fatalf("text key: got %v", v)
	}
}

func TestMultiValueCardinality(t *testing.T) {
	if k := MultiValueCardinality("subject"); k != 3 {
		t.Fatalf("subject cardinality: want=3 got=%d", k)
	}
	if k := MultiValueCardinality("text.secondary"); k != 0 {
		t.Fatalf("scalar cardinality: want=0 got=%d", k)
	}
}

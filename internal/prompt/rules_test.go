package prompt

import "testing"

func TestVectorStyleForcesMinimalShading(t *testing.T) {
	doc := DefaultFrame()
	doc.Composition.Style = []string{"vector", "line-art"}
	doc.VisualStyle.Shading = ""
	ApplyMutualExclusions(doc)
	if doc.VisualStyle.Shading != "hatching/minimal" {
		t.Fatalf("shading: want=hatching/minimal got=%q", doc.VisualStyle.Shading)
	}
}

func TestVectorStyleKeepsExplicitShading(t *testing.T) {
	doc := DefaultFrame()
	doc.Composition.Style = []string{"vector"}
	doc.VisualStyle.Shading = "crosshatch"
	ApplyMutualExclusions(doc)
	if doc.VisualStyle.Shading != "crosshatch" {
		t.Fatalf("explicit shading overwritten: got %q", doc.VisualStyle.Shading)
	}
}

func TestNegativePromptForbidsGradients(t *testing.T) {
	doc := DefaultFrame()
	doc.Color.AllowGradients = true
	doc.NegativePrompt = "no photo, no gradients, no watermark"
	ApplyMutualExclusions(doc)
	if doc.Color.AllowGradients {
		t.Fatalf("allow_gradients should be forced false by negative prompt")
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	doc := DefaultFrame()
	doc.DesignTitle = ""
	doc.ImagePurpose = ""
	doc.PrintSpec.PxSize.Width = 0
	doc.Output.Format = "gif"
	errs := Validate(doc)
	if len(errs) != 4 {
		t.Fatalf("violation count: want=4 got=%d (%v)", len(errs), errs)
	}
}

func TestValidateAcceptsDefaultFrameWithTitle(t *testing.T) {
	doc := DefaultFrame()
	doc.DesignTitle = "Auto Design"
	if errs := Validate(doc); len(errs) != 0 {
		t.Fatalf("default frame should validate: %v", errs)
	}
}

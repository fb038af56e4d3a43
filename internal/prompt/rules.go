package prompt

import "strings"

// ApplyMutualExclusions enforces the cross-field consistency rules after
// assembly. Rules only fill fields the resolution left unset; they never
// overwrite an explicit creative choice, except where a negative
// instruction hard-forbids a feature.
func ApplyMutualExclusions(doc *Document) {
	// Vector styles keep shading minimal unless something set it.
	for _, s := range doc.Composition.Style {
		if s == "vector" {
			if doc.VisualStyle.Shading == "" {
				doc.VisualStyle.Shading = "hatching/minimal"
			}
			break
		}
	}
	// A "no gradients" negative instruction wins over the gradient flag.
	if strings.Contains(doc.NegativePrompt, "no gradients") {
		doc.Color.AllowGradients = false
	}
}

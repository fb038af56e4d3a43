package prompt

import "fmt"

var allowedFormats = map[string]bool{"png": true, "webp": true}

// Validate checks the structurally significant fields and returns the
// complete list of violations, never failing fast, so a caller can report
// every problem at once. A non-empty result is fatal for the attempt.
func Validate(doc *Document) []string {
	var errs []string
	if doc.DesignTitle == "" {
		errs = append(errs, "missing or invalid design_title")
	}
	if doc.ImagePurpose == "" {
		errs = append(errs, "missing or invalid image_purpose")
	}
	if doc.PrintSpec.PxSize.Width <= 0 || doc.PrintSpec.PxSize.Height <= 0 {
		errs = append(errs, "print_spec.px_size must have positive int width/height")
	}
	if doc.PrintSpec.DPITarget <= 0 {
		errs = append(errs, "print_spec.dpi_target must be a positive integer")
	}
	if !allowedFormats[doc.Output.Format] {
		errs = append(errs, fmt.Sprintf("output.format must be 'png' or 'webp', got %q", doc.Output.Format))
	}
	if doc.Output.NVariations < 1 {
		errs = append(errs, "output.n_variations must be >= 1")
	}
	return errs
}

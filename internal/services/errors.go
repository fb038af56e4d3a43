package services

import (
	"errors"
	"strings"
)

// ErrUnavailable signals that the text-synthesis collaborator cannot
// produce a value right now; callers fall back to random resolution.
var ErrUnavailable = errors.New("text synthesizer unavailable")

// ErrRunInProgress is returned when a second pipeline run is requested
// while one is executing. Runs are strictly serialized.
var ErrRunInProgress = errors.New("a design run is already in progress")

// ValidationError carries the complete list of schema violations found in
// a resolved document. It is fatal for the attempt: redrawing values
// cannot fix a structural defect.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "prompt validation failed: " + strings.Join(e.Violations, "; ")
}

package cards

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("invalid input")

// ValidationError reports a malformed value handed to the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the fields every engine entry point relies on.
func (c Card) Validate() error {
	if c.ID == "" {
		return Invalid("card.id", "empty")
	}
	if c.Content == "" {
		return Invalid("card.content", "empty for card %s", c.ID)
	}
	if c.HelpfulnessScore < 0 {
		return Invalid("card.helpfulness_score", "%d is negative for card %s", c.HelpfulnessScore, c.ID)
	}
	return nil
}

// CheckThreshold rejects similarity thresholds outside [0,100].
func CheckThreshold(threshold float64) error {
	if threshold < 0 || threshold > 100 || math.IsNaN(threshold) {
		return Invalid("threshold", "%v outside [0,100]", threshold)
	}
	return nil
}

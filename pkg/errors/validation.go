package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from user input.
const MaxNodeIDLength = 256

// ValidateNodeID checks that a node identifier is usable as a graph key and
// as a label in SVG and DOT output.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only identifiers
//   - No control characters (newlines, null bytes, ...)
//   - Maximum length of [MaxNodeIDLength] bytes
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return Validation("node id must not be empty")
	}

	if len(id) > MaxNodeIDLength {
		return Validation("node id too long (max %d characters): %.32q...", MaxNodeIDLength, id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return Validation("node id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidateFlowValue checks that an edge value is a finite number greater than zero.
func ValidateFlowValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Validation("value must be a finite number, current value: %v", v)
	}
	if v <= 0 {
		return Validation("value must be positive, current value: %v", v)
	}
	return nil
}

// ValidateDimension checks that a size parameter (width, height, thickness)
// is a finite positive number. name is used in the message.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be a positive number, got %v", name, v).
			WithSuggestion("use a value greater than zero")
	}
	return nil
}

package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateKey validates a record identity key.
//
// Keys are used to match records across transitions and appear verbatim in
// scene output, so the rules are conservative:
//   - No empty keys
//   - No control characters
//   - Maximum length of 256 characters
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "record key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidInput, "record key too long (max 256 characters)").WithKey(key[:32])
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "record key contains control characters").WithKey(key)
		}
	}

	return nil
}

// ValidateFieldName validates a field name used in a field spec.
func ValidateFieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidConfig, "field name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "field name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateRatio checks that v lies in [0, 1).
func ValidateRatio(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v >= 1 {
		return New(ErrCodeInvalidConfig, "%s must be in [0, 1), got %g", name, v)
	}
	return nil
}

// ValidateFinite checks that v is a finite number.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %g", name, v)
	}
	return nil
}

// ValidateFormat checks that format is one of the supported output formats.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}

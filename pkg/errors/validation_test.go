package errors

import (
	"math"
	"testing"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "a", false},
		{"with dash", "series-1", false},
		{"unicode", "café", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"value", false},
		{"", true},
		{"   ", true},
		{"a\tb", true},
	}
	for _, tt := range tests {
		if err := ValidateFieldName(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateFieldName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateRatio(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{0, false},
		{0.1, false},
		{0.99, false},
		{1, true},
		{-0.1, true},
		{math.NaN(), true},
	}
	for _, tt := range tests {
		if err := ValidateRatio("gapRatio", tt.v); (err != nil) != tt.wantErr {
			t.Errorf("ValidateRatio(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("x", 1.5); err != nil {
		t.Errorf("ValidateFinite(1.5) error = %v", err)
	}
	if err := ValidateFinite("x", math.Inf(1)); err == nil {
		t.Error("ValidateFinite(+Inf) should fail")
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "json"); err != nil {
		t.Errorf("ValidateFormat(svg) error = %v", err)
	}
	err := ValidateFormat("SVG", "svg", "json")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(SVG) = %v, want INVALID_FORMAT", err)
	}
}

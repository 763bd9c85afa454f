package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Database", false},
		{"with spaces", "API Gateway", false},
		{"unicode", "Zahlungsdienst Ü", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 300), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"default", false},
		{"3f2b8c1e-1d2a-4c5b-9e7f-0a1b2c3d4e5f", false},
		{"team.alpha_1", false},

		{"", true},
		{"../etc/passwd", true},
		{"a/b", true},
		{".hidden", true},
		{"a..b", true},
		{strings.Repeat("x", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateSessionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSessionID(%q) code = %s, want INVALID_INPUT", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"#fff", false},
		{"#3B82F6", false},
		{"blue", true},
		{"#12345", true},
		{"3b82f6", true},
	}

	for _, tt := range tests {
		if err := ValidateColor(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "n1", false},
		{"valid uuid", "6f1c2b1e-8f0a-4a5e-9d7b-6a3f1c2b1e8f", false},
		{"valid with spaces", "load data", false},
		{"valid unicode", "knoten-ü", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("node", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateGraphPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"json", "pipeline.json", ""},
		{"yaml", "dir/pipeline.yaml", ""},
		{"yml upper", "PIPELINE.YML", ""},

		{"empty", "", ErrCodeInvalidPath},
		{"null byte", "a\x00.json", ErrCodeInvalidPath},
		{"no extension", "pipeline", ErrCodeInvalidFormat},
		{"toml", "pipeline.toml", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphPath(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateGraphPath(%q) code = %q, want %q (err %v)", tt.input, got, tt.wantCode, err)
			}
		})
	}
}

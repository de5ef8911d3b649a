package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "aspirin", false},
		{"numeric", "42", false},
		{"unicode", "ацетилсалициловая кислота", false},
		{"with spaces", "CYP3A4 inhibition", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "graphs/warfarin.json", false},
		{"absolute", "/srv/data/lisinopril.json", false},
		{"upper-case extension", "DRUG.JSON", false},

		{"empty", "", true},
		{"wrong extension", "graph.yaml", true},
		{"no extension", "graph", true},
		{"null byte", "graph\x00.json", true},
		{"control char", "gra\x01ph.json", true},
		{"too long", strings.Repeat("a", 5000) + ".json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "dot"); err != nil {
		t.Errorf("svg rejected: %v", err)
	}
	err := ValidateFormat("png", "svg", "dot")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("png: got %v, want INVALID_FORMAT", err)
	}
	if !strings.Contains(UserMessage(err), "svg, dot") {
		t.Errorf("message %q should list allowed formats", UserMessage(err))
	}
}

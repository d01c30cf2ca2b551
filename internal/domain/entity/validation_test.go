package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateImageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain jpg", input: "a_01-01-2024.jpg", wantErr: false},
		{name: "gujarati name", input: "સમાચાર_15-02-2024.png", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: "   ", wantErr: true},
		{name: "slash", input: "images/a.jpg", wantErr: true},
		{name: "backslash", input: `images\a.jpg`, wantErr: true},
		{name: "parent reference", input: "..a.jpg", wantErr: true},
		{name: "nul byte", input: "a\x00.jpg", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 256) + ".jpg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateImageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected *ValidationError, got %T", err)
				}
				if vErr.Field != "image_name" {
					t.Errorf("Field = %q, want image_name", vErr.Field)
				}
			}
		})
	}
}

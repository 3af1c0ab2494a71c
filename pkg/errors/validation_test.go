package errors

import (
	"testing"
)

func TestValidateSpriteName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "hero", false},
		{"valid with dash", "hero-idle", false},
		{"valid with underscore", "hero_idle", false},
		{"valid with dot", "hero.idle", false},
		{"valid with subdirectory", "units/hero", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal ..", "foo/../bar", true},
		{"path traversal //", "foo//bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpriteName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpriteName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePadding(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"max", MaxPadding, false},

		{"negative", -1, true},
		{"too large", MaxPadding + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePadding(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePadding(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPadding) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPadding)
			}
		})
	}
}

func TestValidateCanvasSize(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr bool
	}{
		{"valid square", 1024, 1024, false},
		{"valid rectangular", 2048, 512, false},
		{"valid tiny", 1, 1, false},

		{"zero width", 0, 512, true},
		{"zero height", 512, 0, true},
		{"negative", -1, 512, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvasSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCanvasSize(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "png", false},
		{"jpg", "jpg", false},
		{"tiff", "tiff", false},
		{"uppercase", "PNG", false},
		{"with dot", ".png", false},

		{"empty", "", true},
		{"webp", "webp", true},
		{"svg", "svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtension(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExtension(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIsImageExtension(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"png", true},
		{".png", true},
		{"JPEG", true},
		{"txt", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsImageExtension(tt.input); got != tt.want {
			t.Errorf("IsImageExtension(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

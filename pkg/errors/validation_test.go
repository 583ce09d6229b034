package errors

import (
	"math"
	"testing"
)

func TestValidateFinite(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"negative", -3.5, false},
		{"large", 1e12, false},

		{"nan", math.NaN(), true},
		{"+inf", math.Inf(1), true},
		{"-inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFinite("value", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFinite(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateFinite(%v) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 40, false},

		{"negative", -0.01, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("value", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegative(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnitInterval(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"one", 1, false},
		{"half", 0.5, false},
		{"tiny", 1e-9, false},

		{"zero", 0, true},
		{"above one", 1.0001, true},
		{"negative", -0.5, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnitInterval("min_card_scale", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnitInterval(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOffset(t *testing.T) {
	if err := ValidateOffset(-250); err != nil {
		t.Errorf("negative offsets are valid overscroll: %v", err)
	}
	err := ValidateOffset(math.NaN())
	if err == nil {
		t.Fatal("NaN offset should be rejected")
	}
	if !Is(err, ErrCodeInvalidOffset) {
		t.Errorf("wrong code: %v", err)
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"short", "#fff", false},
		{"long", "#ff2d55", false},
		{"upper", "#FF2D55", false},

		{"empty", "", true},
		{"no hash", "ff2d55", true},
		{"named", "red", true},
		{"bad digit", "#ff2d5g", true},
		{"wrong length", "#ff2d5", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCardID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "pink", false},
		{"uuid", "0b8e3f4c-2f5e-4a7c-9d0e-1f2a3b4c5d6e", false},
		{"dotted", "deck.card_1", false},

		{"empty", "", true},
		{"space", "my card", true},
		{"quote", `a"b`, true},
		{"slash", "a/b", true},
		{"too long", string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCardID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDeck) {
				t.Errorf("ValidateCardID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidDeck,
		ErrCodeInvalidFormat,
		ErrCodeInvalidStyle,
		ErrCodeInvalidOffset,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

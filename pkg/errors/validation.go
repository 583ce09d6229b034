package errors

import (
	"math"
	"regexp"
	"unicode"
)

// ValidateFinite rejects NaN and ±Inf. Everything downstream of the fan
// configuration is arithmetic, so a single non-finite input would spread
// into every card transform.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative rejects non-finite and negative values.
func ValidateNonNegative(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", field, v)
	}
	return nil
}

// ValidateUnitInterval checks that v lies in the half-open interval (0, 1].
func ValidateUnitInterval(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in (0, 1], got %v", field, v)
	}
	return nil
}

// ValidateOffset checks a scroll offset supplied by a caller.
func ValidateOffset(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidOffset, "offset must be a finite number, got %v", v)
	}
	return nil
}

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS-style hex color used for card fills.
func ValidateHexColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidDeck, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}

// ValidateCardID validates a card identifier. IDs end up in SVG element ids
// and cache keys, so they are restricted to a conservative character set.
func ValidateCardID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDeck, "card id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidDeck, "card id too long (max 128 characters)")
	}
	for _, r := range id {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.') {
			return New(ErrCodeInvalidDeck, "card id %q contains invalid character %q", id, r)
		}
	}
	return nil
}

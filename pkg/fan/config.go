package fan

import (
	"math"

	"github.com/matzehuels/cardfan/pkg/easing"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
)

// Default configuration values.
const (
	DefaultCardWidth        = 300.0
	DefaultCardHeight       = 370.0
	DefaultMinCardScale     = 0.68
	DefaultMaxXTranslate    = 40.0
	DefaultMaxRotation      = -math.Pi / 20
	DefaultVisibleSideCards = 3

	// MaxVisibleSideCards bounds VisibleSideCards so that the hidden-card
	// distance stays well inside the int range.
	MaxVisibleSideCards = math.MaxInt32
)

// Size is a width/height pair in points.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Config holds the parameters of the fan effect. It is immutable during a
// single transform computation; changing it requires a relayout.
type Config struct {
	// CardSize is the untransformed size of every card.
	CardSize Size `json:"card_size"`

	// MinCardScale is the scale of a card at the edge of the fan. Must be in (0, 1].
	MinCardScale float64 `json:"min_card_scale"`

	// MaxXTranslate is how far cards shift horizontally at the edge of the fan.
	MaxXTranslate float64 `json:"max_x_translate"`

	// MaxRotation is the rotation in radians applied at the edge of the fan.
	MaxRotation float64 `json:"max_rotation"`

	// VisibleSideCards is the number of cards shown on each side of the
	// current card. Must be between 1 and MaxVisibleSideCards.
	VisibleSideCards uint `json:"visible_side_cards"`

	// AlignmentCorrection shifts the fan so that the first card is aligned to
	// the left edge when the fan is scrolled to the start, and the last card
	// to the right edge when scrolled to the end.
	AlignmentCorrection bool `json:"alignment_correction,omitempty"`

	// Easing names the curve applied to the horizontal translation of
	// standard cards. Empty means [easing.Default].
	Easing string `json:"easing,omitempty"`
}

// DefaultConfig returns the stock fan configuration.
func DefaultConfig() Config {
	return Config{
		CardSize:         Size{Width: DefaultCardWidth, Height: DefaultCardHeight},
		MinCardScale:     DefaultMinCardScale,
		MaxXTranslate:    DefaultMaxXTranslate,
		MaxRotation:      DefaultMaxRotation,
		VisibleSideCards: DefaultVisibleSideCards,
	}
}

// Validate checks every field and returns the first problem found as an
// INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := apperrors.ValidateNonNegative("card width", c.CardSize.Width); err != nil {
		return err
	}
	if err := apperrors.ValidateNonNegative("card height", c.CardSize.Height); err != nil {
		return err
	}
	if err := apperrors.ValidateUnitInterval("min card scale", c.MinCardScale); err != nil {
		return err
	}
	if err := apperrors.ValidateNonNegative("max x translate", c.MaxXTranslate); err != nil {
		return err
	}
	if err := apperrors.ValidateFinite("max rotation", c.MaxRotation); err != nil {
		return err
	}
	if c.VisibleSideCards < 1 || c.VisibleSideCards > MaxVisibleSideCards {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "visible side cards must be between 1 and %d, got %d", MaxVisibleSideCards, c.VisibleSideCards)
	}
	if _, ok := easing.ByName(c.Easing); !ok {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown easing %q (must be one of %v)", c.Easing, easing.Names())
	}
	return nil
}

// Normalize clamps fields that have an obvious nearest valid value. Only
// VisibleSideCards is clamped into [1, MaxVisibleSideCards]; everything else
// is returned unchanged so that a read-back matches what was set.
func (c Config) Normalize() Config {
	c.VisibleSideCards = max(1, min(MaxVisibleSideCards, c.VisibleSideCards))
	return c
}

// easingFunc resolves the configured curve. Validate guarantees the lookup
// succeeds; the sine fallback only covers unvalidated configs.
func (c Config) easingFunc() easing.Func {
	if f, ok := easing.ByName(c.Easing); ok {
		return f
	}
	return easing.OutSine
}

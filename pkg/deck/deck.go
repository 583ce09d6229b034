// Package deck reads and writes card fan deck files.
//
// A deck is a TOML document with a [fan] table holding the fan
// configuration and view size, and one [[cards]] entry per card:
//
//	[fan]
//	card_width = 200
//	card_height = 350
//	min_card_scale = 0.5
//	max_x_translate = 80
//	max_rotation_deg = -15
//	visible_side_cards = 5
//	view_width = 600
//	view_height = 500
//
//	[[cards]]
//	label = "Pink"
//	color = "#ff2d55"
//
// Missing [fan] keys take the defaults of [fan.DefaultConfig]. Cards without
// an id get a stable uuid derived from their position and label.
package deck

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
)

// Default view size.
const (
	DefaultViewWidth  = 720.0
	DefaultViewHeight = 520.0
)

// DefaultColor fills cards that do not set one.
const DefaultColor = "#8e8e93"

// Deck is a parsed deck file.
type Deck struct {
	Fan   Settings `toml:"fan" json:"fan"`
	Cards []Card   `toml:"cards" json:"cards"`
}

// Settings is the [fan] table.
type Settings struct {
	CardWidth           float64 `toml:"card_width" json:"card_width"`
	CardHeight          float64 `toml:"card_height" json:"card_height"`
	MinCardScale        float64 `toml:"min_card_scale" json:"min_card_scale"`
	MaxXTranslate       float64 `toml:"max_x_translate" json:"max_x_translate"`
	MaxRotationDeg      float64 `toml:"max_rotation_deg" json:"max_rotation_deg"`
	VisibleSideCards    uint    `toml:"visible_side_cards" json:"visible_side_cards"`
	AlignmentCorrection bool    `toml:"alignment_correction" json:"alignment_correction"`
	Easing              string  `toml:"easing,omitempty" json:"easing,omitempty"`
	ViewWidth           float64 `toml:"view_width" json:"view_width"`
	ViewHeight          float64 `toml:"view_height" json:"view_height"`
}

// Card is one [[cards]] entry.
type Card struct {
	ID    string `toml:"id" json:"id"`
	Label string `toml:"label,omitempty" json:"label,omitempty"`
	Color string `toml:"color" json:"color"`
}

// DefaultSettings mirrors fan.DefaultConfig with the default view size.
func DefaultSettings() Settings {
	cfg := fan.DefaultConfig()
	return Settings{
		CardWidth:        cfg.CardSize.Width,
		CardHeight:       cfg.CardSize.Height,
		MinCardScale:     cfg.MinCardScale,
		MaxXTranslate:    cfg.MaxXTranslate,
		MaxRotationDeg:   cfg.MaxRotation * 180 / math.Pi,
		VisibleSideCards: cfg.VisibleSideCards,
		ViewWidth:        DefaultViewWidth,
		ViewHeight:       DefaultViewHeight,
	}
}

// FanConfig converts the [fan] table to an engine configuration.
func (d *Deck) FanConfig() fan.Config {
	s := d.Fan
	return fan.Config{
		CardSize:            fan.Size{Width: s.CardWidth, Height: s.CardHeight},
		MinCardScale:        s.MinCardScale,
		MaxXTranslate:       s.MaxXTranslate,
		MaxRotation:         s.MaxRotationDeg * math.Pi / 180,
		VisibleSideCards:    s.VisibleSideCards,
		AlignmentCorrection: s.AlignmentCorrection,
		Easing:              s.Easing,
	}
}

// Geometry lays the deck's cards out on a one-page scroll surface centred
// in the view.
func (d *Deck) Geometry() fan.Geometry {
	cfg := d.FanConfig()
	width, originX := fan.CenteredSurface(d.Fan.ViewWidth, fan.PageWidthFor(cfg.CardSize.Width))
	return fan.NewGeometry(cfg.CardSize, len(d.Cards), width, originX)
}

// Validate checks the fan settings, view size and cards.
func (d *Deck) Validate() error {
	if err := d.FanConfig().Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "invalid [fan] table")
	}
	if d.Fan.ViewWidth <= 0 || d.Fan.ViewHeight <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidDeck, "view size must be positive, got %vx%v", d.Fan.ViewWidth, d.Fan.ViewHeight)
	}
	seen := make(map[string]int, len(d.Cards))
	for i, c := range d.Cards {
		if err := apperrors.ValidateCardID(c.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "card %d", i)
		}
		if j, dup := seen[c.ID]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidDeck, "cards %d and %d share id %q", j, i, c.ID)
		}
		seen[c.ID] = i
		if err := apperrors.ValidateHexColor(c.Color); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "card %d", i)
		}
	}
	return nil
}

// Parse decodes and validates a deck. Unknown keys are rejected so typos in
// the [fan] table do not silently fall back to defaults.
func Parse(data []byte) (*Deck, error) {
	d := &Deck{Fan: DefaultSettings()}
	md, err := toml.Decode(string(data), d)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDeck, err, "parse deck")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, apperrors.New(apperrors.ErrCodeInvalidDeck, "unknown keys: %s", strings.Join(keys, ", "))
	}
	d.fillCards()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads and parses a deck file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "deck %s", path)
		}
		return nil, fmt.Errorf("read deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Encode writes d as TOML.
func Encode(w io.Writer, d *Deck) error {
	return toml.NewEncoder(w).Encode(d)
}

// Bytes returns d encoded as TOML.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CardID returns the stable id of an unnamed card at index i.
func CardID(i int, label string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("card:%d:%s", i, label))).String()
}

func (d *Deck) fillCards() {
	for i := range d.Cards {
		c := &d.Cards[i]
		if c.ID == "" {
			c.ID = CardID(i, c.Label)
		}
		if c.Color == "" {
			c.Color = DefaultColor
		}
		if c.Label == "" {
			c.Label = fmt.Sprintf("Card %d", i+1)
		}
	}
}

// Package styles defines how cards look in rendered output.
//
// A [Style] turns a positioned card into an [Appearance]: fill, border,
// corner radius and a shade that darkens cards away from the center. The SVG
// and raster sinks both draw from the same Appearance, so a style looks the
// same in every format.
package styles

import (
	"bytes"
	"sort"

	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
)

// Style defines the visual appearance of cards.
type Style interface {
	// Name is the registry name of the style.
	Name() string
	// RenderDefs writes SVG <defs> content (filters, gradients).
	RenderDefs(buf *bytes.Buffer)
	// Appearance describes how to paint one card.
	Appearance(c Card) Appearance
}

// Card contains all data needed to draw a single card.
type Card struct {
	ID       string
	Label    string
	Color    string        // Fill color, #rgb or #rrggbb
	Index    int           // Position in the deck
	W, H     float64       // Untransformed size
	Progress float64       // Standard progress, 0 at the center
	Current  bool          // Whether this is the current card
	Matrix   fan.Transform // Local (centred) card space to view space

	// Decomposed placement of the card center in view space, used by
	// rasterisers that compose their own matrices.
	CX, CY   float64
	Scale    float64
	Rotation float64
}

// Appearance is the resolved paint for one card.
type Appearance struct {
	Fill        string  // Hex color or "none"
	Stroke      string  // Hex color or "none"
	StrokeWidth float64 // In card space
	Radius      float64 // Corner radius in card space
	Dash        bool    // Dashed border
	Shade       float64 // Black overlay alpha in [0, 1]
	LabelColor  string  // Hex color for the label
	Filter      string  // Optional SVG filter id from RenderDefs
}

// Default corner radius and border, matching the demo cards.
const (
	DefaultRadius      = 20.0
	DefaultStrokeWidth = 1.0
)

var registry = map[string]Style{
	Simple{}.Name():   Simple{},
	Shaded{}.Name():   Shaded{},
	Outlined{}.Name(): Outlined{},
}

// Default is the style used when none is given.
const Default = "simple"

// ByName returns the named style. An empty name selects [Default].
func ByName(name string) (Style, error) {
	if name == "" {
		name = Default
	}
	s, ok := registry[name]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidStyle, "unknown style %q (must be one of %v)", name, Names())
	}
	return s, nil
}

// Names returns the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package styles

import (
	"bytes"
	"math"
)

// Simple draws flat cards with a thin white border.
type Simple struct{}

func (Simple) Name() string                 { return "simple" }
func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) Appearance(c Card) Appearance {
	return Appearance{
		Fill:        c.Color,
		Stroke:      "#ffffff",
		StrokeWidth: DefaultStrokeWidth,
		Radius:      DefaultRadius,
		LabelColor:  "#ffffff",
	}
}

// Shaded darkens cards as they move away from the center and adds a soft
// drop shadow.
type Shaded struct{}

// maxShade is the overlay alpha at the edge of the fan.
const maxShade = 0.45

func (Shaded) Name() string { return "shaded" }

func (Shaded) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="card-shadow" x="-20%" y="-20%" width="140%" height="140%">
      <feDropShadow dx="0" dy="6" stdDeviation="8" flood-color="#000000" flood-opacity="0.35"/>
    </filter>
  </defs>
`)
}

func (Shaded) Appearance(c Card) Appearance {
	a := Simple{}.Appearance(c)
	a.Shade = maxShade * math.Min(1, math.Abs(c.Progress))
	a.Filter = "card-shadow"
	return a
}

// Outlined draws unfilled cards with a colored dashed border, highlighting
// the current card with a solid one.
type Outlined struct{}

func (Outlined) Name() string                 { return "outlined" }
func (Outlined) RenderDefs(buf *bytes.Buffer) {}

func (Outlined) Appearance(c Card) Appearance {
	return Appearance{
		Fill:        "none",
		Stroke:      c.Color,
		StrokeWidth: 3,
		Radius:      DefaultRadius,
		Dash:        !c.Current,
		LabelColor:  c.Color,
	}
}

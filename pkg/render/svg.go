package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/render/styles"
)

// RenderSVG draws frame as an SVG document. Cards are emitted back to front
// so later elements paint over earlier ones, and hidden cards are omitted.
func RenderSVG(frame fan.Frame, d *deck.Deck, opts ...Option) []byte {
	r := newRenderer(opts...)
	return r.svg(BuildScene(frame, d))
}

func (r renderer) svg(s Scene) []byte {
	w, h := r.viewport(s)
	dx, dy := r.shift(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)

	r.style.RenderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", styles.EscapeXML(r.background))
	}

	shift := fan.Translation(dx, dy)
	for _, c := range s.Cards {
		r.svgCard(&buf, c, shift.Multiply(c.Matrix))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) svgCard(buf *bytes.Buffer, c styles.Card, m fan.Transform) {
	a := r.style.Appearance(c)
	x, y := -c.W/2, -c.H/2

	fmt.Fprintf(buf, `  <g id="card-%s" class="card" data-index="%d" transform="%s">`+"\n",
		styles.EscapeXML(c.ID), c.Index, m.SVG())

	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" ry="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"`,
		x, y, c.W, c.H, a.Radius, a.Radius, styles.EscapeXML(a.Fill), styles.EscapeXML(a.Stroke), a.StrokeWidth)
	if a.Dash {
		buf.WriteString(` stroke-dasharray="8 6"`)
	}
	if a.Filter != "" {
		fmt.Fprintf(buf, ` filter="url(#%s)"`, a.Filter)
	}
	buf.WriteString("/>\n")

	if a.Shade > 0 {
		fmt.Fprintf(buf, `    <rect class="shade" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" ry="%.1f" fill="#000000" fill-opacity="%.3f"/>`+"\n",
			x, y, c.W, c.H, a.Radius, a.Radius, a.Shade)
	}

	if r.labels && c.Label != "" {
		fmt.Fprintf(buf, `    <text x="0" y="0" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
			styles.FontSize(c), styles.EscapeXML(a.LabelColor), styles.EscapeXML(styles.TruncateLabel(c)))
	}

	buf.WriteString("  </g>\n")
}

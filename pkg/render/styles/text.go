package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	fontWidthRatio = 0.8
	fontCharWidth  = 0.55
	fontSizeMin    = 10.0
	fontSizeMax    = 28.0
)

// FontSize picks a label size that fits the card width.
func FontSize(c Card) float64 {
	n := max(1, len(c.Label))
	byWidth := (c.W * fontWidthRatio) / (float64(n) * fontCharWidth)
	byHeight := c.H * 0.1
	return max(fontSizeMin, min(fontSizeMax, min(byWidth, byHeight)))
}

// TruncateLabel shortens the label to fit the card width at FontSize.
func TruncateLabel(c Card) string {
	label := c.Label
	charWidth := FontSize(c) * fontCharWidth
	maxChars := max(3, int(c.W*fontWidthRatio/charWidth))
	if len(label) <= maxChars {
		return label
	}
	return label[:maxChars-2] + ".."
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

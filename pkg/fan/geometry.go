package fan

import "math"

// PageFactor is the ratio between page width and card width. The extra
// quarter card is the gap between adjacent home positions.
const PageFactor = 1.25

// Geometry is the page model derived from the card size, the number of cards
// and the scroll surface. It is recomputed on every relayout and treated as a
// constant while transforms are computed.
type Geometry struct {
	CardSize       Size    `json:"card_size"`
	Count          int     `json:"count"`
	PageWidth      float64 `json:"page_width"`
	PageX          float64 `json:"page_x"`
	SurfaceWidth   float64 `json:"surface_width"`
	SurfaceOriginX float64 `json:"surface_origin_x"`
}

// NewGeometry lays out count cards of the given size on a scroll surface of
// surfaceWidth, positioned at surfaceOriginX inside the fan view.
func NewGeometry(cardSize Size, count int, surfaceWidth, surfaceOriginX float64) Geometry {
	return Geometry{
		CardSize:       cardSize,
		Count:          max(0, count),
		PageWidth:      PageWidthFor(cardSize.Width),
		PageX:          surfaceWidth/2 - cardSize.Width/2,
		SurfaceWidth:   surfaceWidth,
		SurfaceOriginX: surfaceOriginX,
	}
}

// PageWidthFor returns the rounded page width for a card width.
func PageWidthFor(cardWidth float64) float64 {
	return math.Round(cardWidth * PageFactor)
}

// CenteredSurface returns the width and origin of a paging scroll surface
// one page wide and centred in a view of viewWidth.
func CenteredSurface(viewWidth, pageWidth float64) (width, originX float64) {
	return pageWidth, (viewWidth - pageWidth) / 2
}

// Empty reports whether there is nothing to lay out, which is the case when
// the page width is zero. A zero-width card or one so narrow its page rounds
// to zero width is empty; a zero-height card still gets a layout.
func (g Geometry) Empty() bool {
	return g.PageWidth <= 0
}

// Home returns the content offset at which card i rests in the center.
func (g Geometry) Home(i int) float64 {
	return float64(i) * g.PageWidth
}

// ContentWidth is the scrollable width: one page per card.
func (g Geometry) ContentWidth() float64 {
	return float64(g.Count) * g.PageWidth
}

// MaxOffset is the largest resting offset (the last card centred).
func (g Geometry) MaxOffset() float64 {
	return max(0, g.ContentWidth()-g.PageWidth)
}

// OffsetPercent converts a content offset into pages.
func (g Geometry) OffsetPercent(offsetX float64) float64 {
	return offsetX / g.PageWidth
}

// ClampIndex clamps i to the valid card range, returning 0 for an empty deck.
func (g Geometry) ClampIndex(i int) int {
	return max(0, min(g.Count-1, i))
}

// PageOffset is the content offset at which card i is at rest. Hosts use it
// as the paging snap target.
func (g Geometry) PageOffset(i int) float64 {
	return g.Home(g.ClampIndex(i))
}

package fan

import (
	"fmt"
	"math"

	"github.com/matzehuels/cardfan/pkg/easing"
)

// Constants of the swipe path.
const (
	// SwipeHandoff is the swipe progress at which the first-swipe path hands
	// over to the second-swipe path.
	SwipeHandoff = 0.5

	// swipeTranslateFactor is how many pages a swiped card slides out.
	swipeTranslateFactor = 0.85

	// swipeMinScale is the scale of a swiped card at the handoff point.
	swipeMinScale = 0.75
)

// Path identifies which model computed a card's transform.
type Path int

const (
	PathStandard Path = iota
	PathFirstSwipe
	PathSecondSwipe
)

var pathNames = [...]string{"standard", "first-swipe", "second-swipe"}

func (p Path) String() string {
	if p < 0 || int(p) >= len(pathNames) {
		return "unknown"
	}
	return pathNames[p]
}

// MarshalText encodes the path by name.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a path name.
func (p *Path) UnmarshalText(text []byte) error {
	for i, name := range pathNames {
		if name == string(text) {
			*p = Path(i)
			return nil
		}
	}
	return fmt.Errorf("unknown path %q", text)
}

// CardFrame is the computed state of one card for one offset.
type CardFrame struct {
	Index int  `json:"index"`
	Path  Path `json:"path"`

	// Progress is the standard-path progress in [-1, 1], computed for every
	// card including the one being swiped. It is what the stylizer receives.
	Progress float64 `json:"progress"`

	// BaseX is the content offset plus alignment correction.
	BaseX float64 `json:"base_x"`

	// Path-specific components, composed on top of BaseX in this order.
	TranslateX float64 `json:"translate_x"`
	Scale      float64 `json:"scale"`
	Rotation   float64 `json:"rotation"`

	// Transform is T(BaseX) · T(TranslateX) · S(Scale) · R(Rotation),
	// relative to the card center.
	Transform Transform `json:"transform"`

	Hidden bool `json:"hidden"`
}

// Frame is the full output for one scroll offset.
type Frame struct {
	OffsetX       float64 `json:"offset_x"`
	OffsetPercent float64 `json:"offset_percent"`

	// CurrentIndex is round(OffsetPercent) clamped to the card range.
	CurrentIndex int `json:"current_index"`

	// Swipe is the tracking state after this frame.
	Swipe SwipeState `json:"swipe"`

	Cards []CardFrame `json:"cards"`

	// Order lists card indices back to front: the last entry is topmost.
	Order []int `json:"order"`
}

// Compute derives the frame for offsetX from the previous swipe state. It is
// a pure function; callers thread Frame.Swipe into the next call.
//
// ok is false when the geometry is empty (zero card size), in which case the
// returned frame is the zero value and no card should be touched.
func Compute(cfg Config, geo Geometry, offsetX float64, prev SwipeState) (frame Frame, ok bool) {
	if geo.Empty() || math.IsNaN(offsetX) || math.IsInf(offsetX, 0) {
		return Frame{}, false
	}
	cfg = cfg.Normalize()

	percent := geo.OffsetPercent(offsetX)
	swipe := prev.Next(percent)

	c := calculator{
		cfg:     cfg,
		geo:     geo,
		ease:    cfg.easingFunc(),
		offsetX: offsetX,
		percent: percent,
		swipe:   swipe,
	}

	frame = Frame{
		OffsetX:       offsetX,
		OffsetPercent: percent,
		CurrentIndex:  geo.ClampIndex(nearestPage(percent)),
		Swipe:         swipe,
		Cards:         make([]CardFrame, geo.Count),
		Order:         StackingOrder(geo, offsetX),
	}
	base := offsetX + c.alignmentCorrection()
	for i := range frame.Cards {
		frame.Cards[i] = c.card(i, base)
	}
	return frame, true
}

// =============================================================================
// Per-card computation
// =============================================================================

type components struct {
	translateX float64
	scale      float64
	rotation   float64
}

func (p components) transform(baseX float64) Transform {
	return Translation(baseX, 0).
		Translated(p.translateX, 0).
		Scaled(p.scale, p.scale).
		Rotated(p.rotation)
}

type calculator struct {
	cfg     Config
	geo     Geometry
	ease    easing.Func
	offsetX float64
	percent float64
	swipe   SwipeState
}

func (c calculator) card(i int, baseX float64) CardFrame {
	progress := c.standardProgress(i)

	path := PathStandard
	comps := c.standard(progress)
	if sp := c.swipe.Progress(c.percent); c.isSwiped(i, sp) {
		if math.Abs(sp) < SwipeHandoff {
			path, comps = PathFirstSwipe, c.firstSwipe(sp/SwipeHandoff)
		} else {
			path, comps = PathSecondSwipe, c.secondSwipe(sp)
		}
	}

	return CardFrame{
		Index:      i,
		Path:       path,
		Progress:   progress,
		BaseX:      baseX,
		TranslateX: comps.translateX,
		Scale:      comps.scale,
		Rotation:   comps.rotation,
		Transform:  comps.transform(baseX),
		Hidden:     Hidden(c.geo, c.cfg.VisibleSideCards, c.offsetX, i),
	}
}

// isSwiped reports whether card i takes the swipe path. The outermost cards
// only do so when the drag moves inward, since there is no card beyond them.
func (c calculator) isSwiped(i int, swipeProgress float64) bool {
	if i != c.swipe.Index {
		return false
	}
	last := c.geo.Count - 1
	switch {
	case i > 0 && i < last:
		return true
	case i == 0 && swipeProgress > 0:
		return true
	case i == last && swipeProgress < 0:
		return true
	}
	return false
}

// =============================================================================
// Standard path
// =============================================================================

// standardProgress is the signed distance from card i's home to the offset,
// in units of the visible side span, clamped to [-1, 1].
func (c calculator) standardProgress(i int) float64 {
	maxDistance := c.geo.PageWidth * float64(c.cfg.VisibleSideCards)
	return max(-1, min(1, (c.offsetX-c.geo.Home(i))/maxDistance))
}

// standard eases the translation only; scale and rotation follow the raw
// progress linearly.
func (c calculator) standard(p float64) components {
	return components{
		translateX: c.standardTranslate(p),
		scale:      c.standardScale(p),
		rotation:   c.standardRotation(p),
	}
}

func (c calculator) standardTranslate(p float64) float64 {
	return -c.cfg.MaxXTranslate * c.ease(p)
}

func (c calculator) standardScale(p float64) float64 {
	return 1 - (1-c.cfg.MinCardScale)*math.Abs(p)
}

func (c calculator) standardRotation(p float64) float64 {
	return c.cfg.MaxRotation * p
}

// =============================================================================
// Swipe path
// =============================================================================

// firstSwipe moves the card out of the way. p is the half-swipe progress,
// reaching ±1 at the handoff.
func (c calculator) firstSwipe(p float64) components {
	return components{
		translateX: c.firstSwipeTranslate(p),
		scale:      firstSwipeScale(p),
		rotation:   c.firstSwipeRotation(p),
	}
}

func (c calculator) firstSwipeTranslate(p float64) float64 {
	return -(c.geo.PageWidth * swipeTranslateFactor) * p
}

func firstSwipeScale(p float64) float64 {
	return 1 - (1-swipeMinScale)*math.Abs(p)
}

func (c calculator) firstSwipeRotation(p float64) float64 {
	return c.cfg.MaxRotation * p * 2
}

// secondSwipe settles the card from the first-swipe endpoint into the place
// the standard path would put it one page away. Each component blends from
// its first-swipe value at 1 to its standard value at the destination
// progress, weighted by the remaining distance.
func (c calculator) secondSwipe(swipeProgress float64) components {
	sign := 1.0
	if swipeProgress < 0 {
		sign = -1
	}
	second := sign * (math.Abs(swipeProgress) - SwipeHandoff) / SwipeHandoff
	inverted := (1 - math.Abs(second)) * sign
	destination := sign / float64(c.cfg.VisibleSideCards)

	blend := func(to, from, weight float64) float64 {
		delta := math.Abs(math.Abs(to) - math.Abs(from))
		return to - delta*weight
	}

	return components{
		translateX: blend(c.standardTranslate(destination), c.firstSwipeTranslate(1), inverted),
		scale:      blend(c.standardScale(destination), firstSwipeScale(1), math.Abs(inverted)),
		rotation:   blend(c.standardRotation(destination), c.firstSwipeRotation(1), inverted),
	}
}

// =============================================================================
// Alignment correction
// =============================================================================

// alignmentCorrection shifts the fan so the first card lines up with the
// view's left edge at offset 0 and the last card with the right edge at the
// end of the content. It is zero when disabled or with fewer than two cards.
func (c calculator) alignmentCorrection() float64 {
	if !c.cfg.AlignmentCorrection || c.geo.Count <= 1 {
		return 0
	}
	maxExtra := 2 * (c.geo.SurfaceOriginX + c.geo.PageX)
	progress := 0.5 - c.offsetX/(c.geo.ContentWidth()-c.geo.PageWidth)
	return -maxExtra * progress
}

// Package host applies computed fan frames to externally owned card surfaces.
//
// A [Fan] owns the card sequence, the stylizer callback and a [fan.Engine].
// The host environment supplies the [Container] the cards live in, reports
// scroll offsets through [Fan.OnScroll], and receives transforms, visibility
// and stacking order through the [Surface] and [Container] interfaces.
//
// A Fan is not safe for concurrent use. Like a UI widget, it is meant to be
// driven from a single goroutine.
package host

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardfan/pkg/fan"
)

// Surface is a card's visual surface.
type Surface interface {
	SetTransform(t fan.Transform)
	SetHidden(hidden bool)
}

// Container holds the card surfaces and owns their stacking order.
type Container interface {
	Attach(s Surface)
	Detach(s Surface)
	BringToFront(s Surface)
}

// Scroller is the paging scroll surface the fan sits on. *scroll.Surface
// implements it.
type Scroller interface {
	ContentOffset() float64
	SetPaging(pageWidth, contentWidth float64)
}

// Stylizer is called once per card after each transform pass with the card's
// standard progress: 0 in the center, ±1 at the edge of the fan.
type Stylizer func(s Surface, index int, progress float64)

// Option configures a Fan.
type Option func(*Fan)

// WithLogger logs layout and transform passes at debug level.
func WithLogger(l *log.Logger) Option {
	return func(f *Fan) { f.logger = l }
}

// WithStylizer sets the stylization callback.
func WithStylizer(s Stylizer) Option {
	return func(f *Fan) { f.stylizer = s }
}

// WithScroller attaches the scroll surface. The fan resizes its paging on
// every relayout and reads the offset back from it.
func WithScroller(s Scroller) Option {
	return func(f *Fan) { f.scroller = s }
}

// WithConfig sets the initial configuration. Invalid configurations are
// ignored in favour of the default; use Configure to get the error.
func WithConfig(cfg fan.Config) Option {
	return func(f *Fan) {
		if e, err := fan.NewEngine(cfg.Normalize()); err == nil {
			f.engine = e
		}
	}
}

// Fan is the host-side card fan widget.
type Fan struct {
	engine      *fan.Engine
	container   Container
	scroller    Scroller
	stylizer    Stylizer
	cards       []Surface
	logger      *log.Logger
	interactive bool
	offset      float64
	viewWidth   float64
	viewHeight  float64
}

// New returns a fan with the default configuration and no cards.
func New(container Container, opts ...Option) *Fan {
	engine, _ := fan.NewEngine(fan.DefaultConfig())
	f := &Fan{
		engine:      engine,
		container:   container,
		interactive: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns the configuration exactly as last set.
func (f *Fan) Config() fan.Config {
	return f.engine.Config()
}

// Configure validates cfg and applies it with a single relayout and
// retransform. VisibleSideCards of 0 is clamped to 1.
func (f *Fan) Configure(cfg fan.Config) error {
	if err := f.engine.Configure(cfg); err != nil {
		return err
	}
	f.relayout()
	return nil
}

// Cards returns the current card sequence.
func (f *Fan) Cards() []Surface {
	return f.cards
}

// SetCards replaces the card sequence. Old cards are detached, new ones
// attached in order, then the fan is laid out and transformed.
func (f *Fan) SetCards(cards []Surface) {
	for _, c := range f.cards {
		f.container.Detach(c)
	}
	f.cards = append([]Surface(nil), cards...)
	for _, c := range f.cards {
		f.container.Attach(c)
	}
	f.relayout()
}

// SetStylizer replaces the stylization callback. It takes effect on the next
// transform pass.
func (f *Fan) SetStylizer(s Stylizer) {
	f.stylizer = s
}

// SetViewSize sets the size of the fan view. The scroll surface is one page
// wide and centred horizontally, and is re-centred whenever the card size
// changes.
func (f *Fan) SetViewSize(width, height float64) {
	f.viewWidth, f.viewHeight = width, height
	f.relayout()
}

// SetSurfaceWidth positions the scroll surface explicitly. It overrides the
// centred surface until the next SetViewSize.
func (f *Fan) SetSurfaceWidth(width, originX float64) error {
	f.viewWidth = 0
	if err := f.engine.Layout(len(f.cards), width, originX); err != nil {
		return err
	}
	f.syncScroller()
	f.apply()
	return nil
}

// OnScroll retransforms the cards for a new content offset. It satisfies
// the scroll package's Observer interface.
func (f *Fan) OnScroll(offsetX float64) {
	f.offset = offsetX
	f.apply()
}

// CurrentIndex is the card nearest the current offset, clamped to the card
// range.
func (f *Fan) CurrentIndex() int {
	return f.engine.CurrentIndex()
}

// Frame returns the last applied frame.
func (f *Fan) Frame() (fan.Frame, bool) {
	return f.engine.Frame()
}

// Geometry returns the current page model.
func (f *Fan) Geometry() fan.Geometry {
	return f.engine.Geometry()
}

// SetInteractive enables or disables hit testing.
func (f *Fan) SetInteractive(interactive bool) {
	f.interactive = interactive
}

// Interactive reports whether the fan accepts hits.
func (f *Fan) Interactive() bool {
	return f.interactive
}

// HitTest delegates every hit to the scroll surface, so that drags anywhere
// on the fan scroll it. Whether the point lies inside the view is left to the
// host toolkit. All hits are rejected while the fan is not interactive or
// has no scroller.
func (f *Fan) HitTest(x, y float64) (Scroller, bool) {
	if !f.interactive || f.scroller == nil {
		return nil, false
	}
	return f.scroller, true
}

// relayout recomputes the geometry and retransforms.
func (f *Fan) relayout() {
	geo := f.engine.Geometry()
	width, originX := geo.SurfaceWidth, geo.SurfaceOriginX
	if f.viewWidth > 0 {
		width, originX = fan.CenteredSurface(f.viewWidth, fan.PageWidthFor(f.engine.Config().CardSize.Width))
	}
	// Inputs come from a valid engine, so Layout cannot fail here.
	_ = f.engine.Layout(len(f.cards), width, originX)
	f.syncScroller()

	if f.logger != nil {
		geo = f.engine.Geometry()
		f.logger.Debug("fan relayout", "cards", geo.Count, "page_width", geo.PageWidth, "surface_width", geo.SurfaceWidth)
	}
	f.apply()
}

func (f *Fan) syncScroller() {
	if f.scroller == nil {
		return
	}
	geo := f.engine.Geometry()
	f.scroller.SetPaging(geo.PageWidth, geo.ContentWidth())
	f.offset = f.scroller.ContentOffset()
}

// apply computes a frame and pushes it to the surfaces: transforms and
// stylization in index order, then stacking order, then visibility.
func (f *Fan) apply() {
	frame, ok := f.engine.Update(f.offset)
	if !ok {
		return
	}
	for _, card := range frame.Cards {
		s := f.cards[card.Index]
		s.SetTransform(card.Transform)
		if f.stylizer != nil {
			f.stylizer(s, card.Index, card.Progress)
		}
	}
	for _, i := range frame.Order {
		f.container.BringToFront(f.cards[i])
	}
	for _, card := range frame.Cards {
		f.cards[card.Index].SetHidden(card.Hidden)
	}
	if f.logger != nil {
		f.logger.Debug("fan transform", "offset", frame.OffsetX, "current", frame.CurrentIndex, "swipe", frame.Swipe.Index)
	}
}

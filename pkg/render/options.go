package render

import "github.com/matzehuels/cardfan/pkg/render/styles"

// Option configures rendering. Options apply to every format; raster-only
// options are ignored by SVG and JSON.
type Option func(*renderer)

type renderer struct {
	style       styles.Style
	background  string
	labels      bool
	width       float64
	height      float64
	scale       float64
	supersample int
}

func WithStyle(s styles.Style) Option    { return func(r *renderer) { r.style = s } }
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } } // "none" is transparent
func WithLabels() Option                 { return func(r *renderer) { r.labels = true } }
func WithSupersample(factor int) Option  { return func(r *renderer) { r.supersample = factor } }

// WithViewport overrides the deck's view size. The fan stays anchored to the
// deck's view center.
func WithViewport(width, height float64) Option {
	return func(r *renderer) { r.width, r.height = width, height }
}

// WithScale sets the raster output scale (2 renders at 2x resolution).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

// Default raster settings.
const (
	DefaultScale       = 1.0
	DefaultSupersample = 2
	DefaultBackground  = "#1c1c1e"

	// MaxScale bounds the raster output scale.
	MaxScale = 8.0

	// MaxPixels bounds the supersampled raster canvas (about 256 MiB of RGBA).
	MaxPixels = 64 << 20
)

func newRenderer(opts ...Option) renderer {
	r := renderer{
		style:       styles.Simple{},
		background:  DefaultBackground,
		scale:       DefaultScale,
		supersample: DefaultSupersample,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = DefaultScale
	}
	if r.supersample < 1 {
		r.supersample = 1
	}
	if r.background == "none" {
		r.background = ""
	}
	return r
}

// viewport returns the output size in points.
func (r renderer) viewport(s Scene) (float64, float64) {
	w, h := s.Width, s.Height
	if r.width > 0 && r.height > 0 {
		w, h = r.width, r.height
	}
	return w, h
}

// shift is the translation that keeps the scene centred in an overridden
// viewport.
func (r renderer) shift(s Scene) (float64, float64) {
	w, h := r.viewport(s)
	return (w - s.Width) / 2, (h - s.Height) / 2
}

// Package pipeline runs the deck → frames → artifacts pipeline shared by
// the CLI and the preview server.
//
// The pipeline has two stages:
//
//  1. Frames: feed a sequence of scroll offsets through one fan engine, so
//     that the swipe state carries from frame to frame like it would during
//     a real drag.
//  2. Render: turn each frame into SVG, PNG, WebP or JSON.
//
// Both stages are cached through a [cache.Cache].
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DeckPath: "deck.toml",
//	    Timeline: &pipeline.Timeline{From: 0, To: 1, Steps: 12},
//	    Formats:  []string{"png"},
//	})
//	png := result.Artifacts[3]["png"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardfan/pkg/cache"
	"github.com/matzehuels/cardfan/pkg/easing"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/render"
	"github.com/matzehuels/cardfan/pkg/render/styles"
	"github.com/matzehuels/cardfan/pkg/scroll"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultStyle       = styles.Default
	DefaultScale       = render.DefaultScale
	DefaultSupersample = render.DefaultSupersample

	// DefaultSteps is the number of frames of a timeline without Steps.
	DefaultSteps = 24

	// MaxFrames bounds a single run.
	MaxFrames = 2000
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{render.FormatSVG}

// =============================================================================
// Options
// =============================================================================

// Timeline asks for a swipe from page From to page To.
type Timeline struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Steps  int    `json:"steps,omitempty"`
	Easing string `json:"easing,omitempty"`
}

// Ease returns the timeline's easing. Timelines are linear unless they name
// a curve.
func (t *Timeline) Ease() (easing.Func, error) {
	if t.Easing == "" {
		return easing.Linear, nil
	}
	f, ok := easing.ByName(t.Easing)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown easing %q (must be one of %s)", t.Easing, strings.Join(easing.Names(), ", "))
	}
	return f, nil
}

// Options configures a pipeline run. Offsets, Pages and Timeline are
// concatenated in that order; with none of them the fan is rendered at rest
// on the first card.
type Options struct {
	// Deck source. DeckSource wins over DeckPath; with neither the sample
	// deck is used.
	DeckPath   string `json:"deck_path,omitempty"`
	DeckSource string `json:"deck,omitempty"`

	Offsets  []float64 `json:"offsets,omitempty"`
	Pages    []int     `json:"pages,omitempty"`
	Timeline *Timeline `json:"timeline,omitempty"`

	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Supersample int      `json:"supersample,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Background  string   `json:"background,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// Result is the output of Execute.
type Result struct {
	DeckHash string
	Frames   []fan.Frame
	// Artifacts[i] holds frame i's outputs keyed by format.
	Artifacts []map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds counts and timings of a run.
type Stats struct {
	Cards      int
	Frames     int
	Bytes      int
	FrameTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	FramesHit  bool
	RenderHits int
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormats checks every requested format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	_, err := styles.ByName(style)
	return err
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if err := o.validateOffsets(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults fills the render defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Supersample == 0 {
		o.Supersample = DefaultSupersample
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender checks the render options.
func (o *Options) ValidateForRender() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if !(o.Scale > 0 && o.Scale <= render.MaxScale) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "scale must be in (0, %v], got %v", render.MaxScale, o.Scale)
	}
	if o.Supersample < 1 || o.Supersample > 8 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "supersample must be between 1 and 8, got %d", o.Supersample)
	}
	if o.Background != "" && o.Background != "none" {
		if err := apperrors.ValidateHexColor(o.Background); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "background")
		}
	}
	return nil
}

func (o *Options) validateOffsets() error {
	for _, off := range o.Offsets {
		if err := apperrors.ValidateOffset(off); err != nil {
			return err
		}
	}
	if t := o.Timeline; t != nil {
		if t.Steps < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "timeline steps must not be negative, got %d", t.Steps)
		}
		if t.Steps == 0 {
			t.Steps = DefaultSteps
		}
		if _, err := t.Ease(); err != nil {
			return err
		}
	}
	if n := o.frameCount(); n > MaxFrames {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "%d frames requested, at most %d allowed", n, MaxFrames)
	}
	return nil
}

func (o *Options) frameCount() int {
	n := len(o.Offsets) + len(o.Pages)
	if o.Timeline != nil {
		n += o.Timeline.Steps
	}
	return n
}

// ResolveOffsets expands Offsets, Pages and Timeline into scroll offsets for
// the given geometry.
func (o *Options) ResolveOffsets(geo fan.Geometry) ([]float64, error) {
	out := append([]float64(nil), o.Offsets...)
	for _, p := range o.Pages {
		out = append(out, geo.PageOffset(p))
	}
	if t := o.Timeline; t != nil {
		ease, err := t.Ease()
		if err != nil {
			return nil, err
		}
		steps := t.Steps
		if steps == 0 {
			steps = DefaultSteps
		}
		out = append(out, scroll.Timeline(geo.PageWidth, t.From, t.To, steps, ease)...)
	}
	if len(out) == 0 {
		out = []float64{0}
	}
	return out, nil
}

// =============================================================================
// Cache Keys
// =============================================================================

// ArtifactKeyOpts returns the cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		Scale:       o.Scale,
		Supersample: o.Supersample,
		Labels:      o.Labels,
		Background:  o.Background,
	}
}

// RenderOptions converts the options to render options.
func (o *Options) RenderOptions() ([]render.Option, error) {
	style, err := styles.ByName(o.Style)
	if err != nil {
		return nil, err
	}
	opts := []render.Option{
		render.WithStyle(style),
		render.WithScale(o.Scale),
		render.WithSupersample(o.Supersample),
	}
	if o.Labels {
		opts = append(opts, render.WithLabels())
	}
	if o.Background != "" {
		opts = append(opts, render.WithBackground(o.Background))
	}
	return opts, nil
}

func (o Options) String() string {
	return fmt.Sprintf("formats=%v style=%s frames=%d", o.Formats, o.Style, o.frameCount())
}

// Package fan computes the transforms of a card fan carousel.
//
// A fan is a horizontally paged strip of cards. The card nearest the scroll
// offset sits in front at full size; its neighbours shrink, shift and rotate
// away on either side. While a card is being dragged it follows a two-phase
// swipe path instead: it first slides out past its neighbour, then settles
// into the spot the standard path would give it.
//
// [Compute] is the pure per-frame function. [Engine] wraps it with the only
// state that survives between frames, the [SwipeState].
//
// # Coordinates
//
// Offsets are content offsets of a paging scroll surface whose pages are
// [PageWidthFor] the card width. Card i rests at Home(i) = i·pageWidth. Every
// card is laid out at the same spot on the surface and moved into place by
// its transform, which is relative to the card center.
package fan

import (
	"sync"

	apperrors "github.com/matzehuels/cardfan/pkg/errors"
)

// Engine holds the configuration, layout and swipe state of one fan. It is
// safe for concurrent use.
type Engine struct {
	mu    sync.RWMutex
	cfg   Config
	geo   Geometry
	swipe SwipeState
	frame Frame
	valid bool
}

// NewEngine validates cfg and returns an engine with no cards.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	e.geo = NewGeometry(cfg.CardSize, 0, 0, 0)
	return e, nil
}

// Config returns the current configuration exactly as set.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Configure replaces the configuration and recomputes the geometry. The
// previous frame is invalidated; call Update to retransform.
//
// VisibleSideCards of 0 is clamped to 1. Any other invalid value is rejected
// and leaves the engine unchanged.
func (e *Engine) Configure(cfg Config) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.geo = NewGeometry(cfg.CardSize, e.geo.Count, e.geo.SurfaceWidth, e.geo.SurfaceOriginX)
	e.valid = false
	return nil
}

// Layout sets the number of cards and the position of the scroll surface
// inside the fan view.
func (e *Engine) Layout(count int, surfaceWidth, surfaceOriginX float64) error {
	if count < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "card count must not be negative, got %d", count)
	}
	if err := apperrors.ValidateFinite("surface width", surfaceWidth); err != nil {
		return err
	}
	if err := apperrors.ValidateFinite("surface origin", surfaceOriginX); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.geo = NewGeometry(e.cfg.CardSize, count, surfaceWidth, surfaceOriginX)
	e.valid = false
	return nil
}

// Geometry returns the current page model.
func (e *Engine) Geometry() Geometry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.geo
}

// Update computes the frame for offsetX and advances the swipe state. It
// returns false without changing anything when the card size is zero or the
// offset is not finite.
func (e *Engine) Update(offsetX float64) (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	frame, ok := Compute(e.cfg, e.geo, offsetX, e.swipe)
	if !ok {
		return Frame{}, false
	}
	e.swipe = frame.Swipe
	e.frame = frame
	e.valid = true
	return frame, true
}

// Frame returns the last computed frame. ok is false if nothing has been
// computed since the last configuration or layout change.
func (e *Engine) Frame() (Frame, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.frame, e.valid
}

// Swipe returns the swipe tracking state.
func (e *Engine) Swipe() SwipeState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.swipe
}

// CurrentIndex returns the card closest to the last offset, clamped to the
// card range.
func (e *Engine) CurrentIndex() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.valid {
		return e.geo.ClampIndex(e.swipe.Index)
	}
	return e.frame.CurrentIndex
}

// Reset clears the swipe state, as if the fan had been at rest on card 0.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.swipe = SwipeState{Resting: true}
	e.valid = false
}

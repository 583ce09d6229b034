// Package render draws computed fan frames.
//
// # Overview
//
// A [fan.Frame] says where every card goes; a [deck.Deck] says what the
// cards look like and how big the view is. This package combines the two
// into a [Scene] of positioned cards, back to front with hidden cards
// removed, and writes it out in one of several formats:
//
//   - SVG: one group per card carrying its affine matrix
//   - PNG: rasterised with gg at a supersample factor, then downscaled
//   - WebP: the same raster, losslessly encoded
//   - JSON: the frame, geometry and view-space matrices
//
// Basic usage:
//
//	frame, _ := fan.Compute(d.FanConfig(), d.Geometry(), offset, fan.SwipeState{})
//	svg := render.RenderSVG(frame, d, render.WithStyle(styles.Shaded{}), render.WithLabels())
//	png, err := render.RenderPNG(frame, d, render.WithScale(2))
//
// # Coordinates
//
// Every card is laid out at the same spot of a one-page scroll surface
// centred in the view. A card's view-space matrix is that spot's center
// (shifted left by the content offset, as the surface scrolls) composed with
// the card's own frame transform.
//
// [fan.Frame]: github.com/matzehuels/cardfan/pkg/fan.Frame
// [deck.Deck]: github.com/matzehuels/cardfan/pkg/deck.Deck
package render

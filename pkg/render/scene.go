package render

import (
	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/render/styles"
)

// Scene is a frame resolved into view space.
type Scene struct {
	Width    float64
	Height   float64
	Geometry fan.Geometry
	Frame    fan.Frame

	// Cards holds the visible cards back to front.
	Cards []styles.Card
}

// BuildScene positions the deck's cards for frame. Cards the frame marks as
// hidden, and frame entries with no matching deck card, are left out.
func BuildScene(frame fan.Frame, d *deck.Deck) Scene {
	geo := d.Geometry()
	s := Scene{
		Width:    d.Fan.ViewWidth,
		Height:   d.Fan.ViewHeight,
		Geometry: geo,
		Frame:    frame,
	}

	w, h := geo.CardSize.Width, geo.CardSize.Height
	originX := geo.SurfaceOriginX + geo.PageX + w/2 - frame.OffsetX
	originY := s.Height / 2
	anchor := fan.Translation(originX, originY)

	for _, i := range frame.Order {
		if i < 0 || i >= len(frame.Cards) || i >= len(d.Cards) {
			continue
		}
		cf := frame.Cards[i]
		if cf.Hidden {
			continue
		}
		dc := d.Cards[i]
		s.Cards = append(s.Cards, styles.Card{
			ID:       dc.ID,
			Label:    dc.Label,
			Color:    dc.Color,
			Index:    i,
			W:        w,
			H:        h,
			Progress: cf.Progress,
			Current:  i == frame.CurrentIndex,
			Matrix:   anchor.Multiply(cf.Transform),
			CX:       originX + cf.BaseX + cf.TranslateX,
			CY:       originY,
			Scale:    cf.Scale,
			Rotation: cf.Rotation,
		})
	}
	return s
}

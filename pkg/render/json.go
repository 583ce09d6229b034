package render

import (
	"encoding/json"

	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/fan"
)

type jsonOutput struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Style    string       `json:"style,omitempty"`
	Config   fan.Config   `json:"config"`
	Geometry fan.Geometry `json:"geometry"`
	Frame    fan.Frame    `json:"frame"`
	Cards    []jsonCard   `json:"cards"`
}

type jsonCard struct {
	ID     string        `json:"id"`
	Label  string        `json:"label,omitempty"`
	Color  string        `json:"color"`
	Index  int           `json:"index"`
	Matrix fan.Transform `json:"matrix"`
}

// RenderJSON exports the frame, the geometry it was computed on and the
// view-space matrix of every visible card (back to front) as indented JSON.
func RenderJSON(frame fan.Frame, d *deck.Deck, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	s := BuildScene(frame, d)
	w, h := r.viewport(s)
	dx, dy := r.shift(s)
	shift := fan.Translation(dx, dy)

	out := jsonOutput{
		Width:    w,
		Height:   h,
		Style:    r.style.Name(),
		Config:   d.FanConfig(),
		Geometry: s.Geometry,
		Frame:    frame,
		Cards:    make([]jsonCard, 0, len(s.Cards)),
	}
	for _, c := range s.Cards {
		out.Cards = append(out.Cards, jsonCard{
			ID:     c.ID,
			Label:  c.Label,
			Color:  c.Color,
			Index:  c.Index,
			Matrix: shift.Multiply(c.Matrix),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

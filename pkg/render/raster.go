package render

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/HugoSmits86/nativewebp"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/cardfan/pkg/deck"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/render/styles"
)

// RenderPNG rasterises frame and encodes it as PNG.
func RenderPNG(frame fan.Frame, d *deck.Deck, opts ...Option) ([]byte, error) {
	img, err := Rasterize(frame, d, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderWebP rasterises frame and encodes it as lossless WebP.
func RenderWebP(frame fan.Frame, d *deck.Deck, opts ...Option) ([]byte, error) {
	img, err := Rasterize(frame, d, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Rasterize draws frame at scale × supersample resolution and downsamples
// to the output size with a Catmull-Rom filter. Canvases above MaxPixels are
// rejected with INVALID_INPUT before anything is allocated.
func Rasterize(frame fan.Frame, d *deck.Deck, opts ...Option) (image.Image, error) {
	r := newRenderer(opts...)
	return r.raster(BuildScene(frame, d))
}

func (r renderer) raster(s Scene) (image.Image, error) {
	w, h := r.viewport(s)
	k := r.scale * float64(r.supersample)
	ss := float64(r.supersample)
	if canvas := math.Ceil(w*r.scale) * math.Ceil(h*r.scale) * ss * ss; !(canvas <= MaxPixels) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"raster canvas of %.0fx%.0f points at scale %v and supersample %d exceeds %d pixels", w, h, r.scale, r.supersample, MaxPixels)
	}
	outW := max(1, int(math.Ceil(w*r.scale)))
	outH := max(1, int(math.Ceil(h*r.scale)))

	dc := gg.NewContext(outW*r.supersample, outH*r.supersample)
	if r.background != "" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	dx, dy := r.shift(s)
	dc.Scale(k, k)
	dc.Translate(dx, dy)
	for _, c := range s.Cards {
		r.rasterCard(dc, c, k)
	}

	src := dc.Image()
	if r.supersample == 1 {
		return src, nil
	}
	// gg draws into a premultiplied *image.RGBA, so it can be scaled as is.
	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func (r renderer) rasterCard(dc *gg.Context, c styles.Card, k float64) {
	a := r.style.Appearance(c)

	dc.Push()
	defer dc.Pop()
	dc.Translate(c.CX, c.CY)
	dc.Scale(c.Scale, c.Scale)
	dc.Rotate(c.Rotation)

	rect := func() { dc.DrawRoundedRectangle(-c.W/2, -c.H/2, c.W, c.H, a.Radius) }

	if a.Fill != "none" {
		rect()
		dc.SetHexColor(a.Fill)
		dc.Fill()
	}
	if a.Shade > 0 {
		rect()
		dc.SetRGBA(0, 0, 0, a.Shade)
		dc.Fill()
	}
	if a.Stroke != "none" && a.StrokeWidth > 0 {
		rect()
		dc.SetHexColor(a.Stroke)
		dc.SetLineWidth(a.StrokeWidth * k * c.Scale)
		if a.Dash {
			dc.SetDash(8*k*c.Scale, 6*k*c.Scale)
		}
		dc.Stroke()
		dc.SetDash()
	}

	if r.labels && c.Label != "" {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetHexColor(a.LabelColor)
		dc.DrawStringAnchored(styles.TruncateLabel(c), 0, 0, 0.5, 0.5)
	}
}

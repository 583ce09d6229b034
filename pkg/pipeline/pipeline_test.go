package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cardfan/pkg/cache"
	"github.com/matzehuels/cardfan/pkg/deck"
	apperrors "github.com/matzehuels/cardfan/pkg/errors"
	"github.com/matzehuels/cardfan/pkg/fan"
)

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg", "png"}, false},
		{[]string{"webp", "json"}, false},
		{[]string{"svg", "pdf"}, true},
		{[]string{"SVG"}, true},
		{nil, false},
	}
	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"shaded", false},
		{"outlined", false},
		{"handdrawn", true},
	}
	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Timeline: &Timeline{From: 0, To: 1}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle || opts.Scale != DefaultScale || opts.Supersample != DefaultSupersample {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Timeline.Steps != DefaultSteps {
		t.Errorf("Timeline.Steps = %d, want %d", opts.Timeline.Steps, DefaultSteps)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call = %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	nan := 0.0
	nan = nan / nan
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, apperrors.ErrCodeInvalidFormat},
		{"style", Options{Style: "fancy"}, apperrors.ErrCodeInvalidStyle},
		{"scale", Options{Scale: -1}, apperrors.ErrCodeInvalidInput},
		{"scale too large", Options{Scale: 1e6}, apperrors.ErrCodeInvalidInput},
		{"supersample", Options{Supersample: 9}, apperrors.ErrCodeInvalidInput},
		{"background", Options{Background: "black"}, apperrors.ErrCodeInvalidInput},
		{"offset", Options{Offsets: []float64{nan}}, apperrors.ErrCodeInvalidOffset},
		{"steps", Options{Timeline: &Timeline{Steps: -2}}, apperrors.ErrCodeInvalidInput},
		{"easing", Options{Timeline: &Timeline{Easing: "bounce"}}, apperrors.ErrCodeInvalidConfig},
		{"too many", Options{Timeline: &Timeline{Steps: MaxFrames + 1}}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("ValidateAndSetDefaults() succeeded")
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestResolveOffsets(t *testing.T) {
	geo := deck.Sample().Geometry()
	pw := geo.PageWidth

	opts := Options{
		Offsets:  []float64{10},
		Pages:    []int{2},
		Timeline: &Timeline{From: 1, To: 0, Steps: 3},
	}
	got, err := opts.ResolveOffsets(geo)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 2 * pw, pw, pw / 2, 0}
	if len(got) != len(want) {
		t.Fatalf("ResolveOffsets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset %d = %v, want %v", i, got[i], want[i])
		}
	}

	empty, _ := (&Options{}).ResolveOffsets(geo)
	if len(empty) != 1 || empty[0] != 0 {
		t.Errorf("ResolveOffsets() with no input = %v, want [0]", empty)
	}
}

func TestComputeFramesCarriesSwipeState(t *testing.T) {
	d := deck.Sample()
	pw := d.Geometry().PageWidth

	// A drag from page 2 keeps card 2 on the swipe path past the midpoint.
	// A fresh engine jumping straight to 2.7 pages swipes card 3 instead.
	frames, err := ComputeFrames(d, []float64{2 * pw, 2.3 * pw, 2.7 * pw})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("len(frames) = %d, want 3", len(frames))
	}
	if got := frames[2].Cards[2].Path; got != fan.PathSecondSwipe {
		t.Errorf("card 2 path after drag = %v, want second-swipe", got)
	}

	fresh, _ := ComputeFrames(d, []float64{2.7 * pw})
	if got := fresh[0].Cards[2].Path; got != fan.PathStandard {
		t.Errorf("card 2 path of fresh engine = %v, want standard", got)
	}
	if got := fresh[0].Cards[3].Path; got != fan.PathFirstSwipe {
		t.Errorf("card 3 path of fresh engine = %v, want first-swipe", got)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{
		Timeline: &Timeline{From: 0, To: 1, Steps: 4},
		Formats:  []string{"svg", "json"},
	}
	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Frames) != 4 || len(first.Artifacts) != 4 {
		t.Fatalf("got %d frames, %d artifact sets; want 4", len(first.Frames), len(first.Artifacts))
	}
	if first.CacheInfo.FramesHit || first.CacheInfo.RenderHits != 0 {
		t.Errorf("first run hit the cache: %+v", first.CacheInfo)
	}
	if !bytes.HasPrefix(first.Artifacts[0]["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", first.Artifacts[0]["svg"])
	}
	if first.Stats.Cards != 12 || first.Stats.Bytes == 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.FramesHit || second.CacheInfo.RenderHits != 4 {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if !bytes.Equal(second.Artifacts[2]["json"], first.Artifacts[2]["json"]) {
		t.Error("cached artifact differs from rendered one")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.FramesHit || third.CacheInfo.RenderHits != 0 {
		t.Errorf("refresh run CacheInfo = %+v, want no hits", third.CacheInfo)
	}
}

func TestExecuteDeckSources(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	src := "[fan]\ncard_width = 100\ncard_height = 150\n\n[[cards]]\ncolor = \"#ff0000\"\n\n[[cards]]\ncolor = \"#00ff00\"\n"
	res, err := runner.Execute(ctx, Options{DeckSource: src, Pages: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Cards != 2 || res.Frames[0].CurrentIndex != 1 {
		t.Errorf("cards=%d current=%d, want 2 and 1", res.Stats.Cards, res.Frames[0].CurrentIndex)
	}

	path := filepath.Join(t.TempDir(), "deck.toml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runner.Execute(ctx, Options{DeckPath: path}); err != nil {
		t.Errorf("Execute(DeckPath) = %v", err)
	}

	_, err = runner.Execute(ctx, Options{DeckPath: filepath.Join(t.TempDir(), "nope.toml")})
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing deck error = %v, want FILE_NOT_FOUND", err)
	}

	_, err = runner.Execute(ctx, Options{DeckSource: "[fan]\nmin_card_scale = 2\n"})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidDeck) {
		t.Errorf("bad deck error = %v, want INVALID_DECK", err)
	}
}

func TestFrameHashDependsOnDeck(t *testing.T) {
	a := deck.Sample()
	b := deck.Sample()
	b.Cards[0].Color = "#000000"

	frames, _ := ComputeFrames(a, []float64{0})
	ha, _ := FrameHash(frames[0], a)
	hb, _ := FrameHash(frames[0], b)
	if ha == hb {
		t.Error("recolored deck shares a frame hash")
	}
}

func TestOptionsString(t *testing.T) {
	s := Options{Formats: []string{"png"}, Style: "simple", Pages: []int{1, 2}}.String()
	if !strings.Contains(s, "frames=2") {
		t.Errorf("String() = %q", s)
	}
}

package host

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardfan/pkg/fan"
	"github.com/matzehuels/cardfan/pkg/scroll"
)

type fakeCard struct {
	id         int
	transform  fan.Transform
	hidden     bool
	transforms int
}

func (c *fakeCard) SetTransform(t fan.Transform) {
	c.transform = t
	c.transforms++
}

func (c *fakeCard) SetHidden(hidden bool) { c.hidden = hidden }

// fakeContainer keeps its children back to front.
type fakeContainer struct {
	children []Surface
	detached []Surface
}

func (c *fakeContainer) Attach(s Surface) { c.children = append(c.children, s) }

func (c *fakeContainer) Detach(s Surface) {
	c.children = slices.DeleteFunc(c.children, func(x Surface) bool { return x == s })
	c.detached = append(c.detached, s)
}

func (c *fakeContainer) BringToFront(s Surface) {
	c.children = slices.DeleteFunc(c.children, func(x Surface) bool { return x == s })
	c.children = append(c.children, s)
}

func (c *fakeContainer) top() *fakeCard {
	return c.children[len(c.children)-1].(*fakeCard)
}

func newCards(n int) ([]*fakeCard, []Surface) {
	cards := make([]*fakeCard, n)
	surfaces := make([]Surface, n)
	for i := range cards {
		cards[i] = &fakeCard{id: i}
		surfaces[i] = cards[i]
	}
	return cards, surfaces
}

func TestSetCardsAttachesAndDetaches(t *testing.T) {
	container := &fakeContainer{}
	f := New(container)

	_, first := newCards(3)
	f.SetCards(first)
	if len(container.children) != 3 {
		t.Fatalf("attached %d cards, want 3", len(container.children))
	}

	_, second := newCards(2)
	f.SetCards(second)
	if len(container.detached) != 3 {
		t.Errorf("detached %d cards, want 3", len(container.detached))
	}
	if len(container.children) != 2 {
		t.Errorf("container holds %d cards, want 2", len(container.children))
	}
	if got := f.Geometry().Count; got != 2 {
		t.Errorf("Geometry().Count = %d, want 2", got)
	}
}

func TestConfigureRoundTrip(t *testing.T) {
	f := New(&fakeContainer{})
	cfg := fan.Config{
		CardSize:            fan.Size{Width: 200, Height: 350},
		MinCardScale:        0.5,
		MaxXTranslate:       80,
		MaxRotation:         -0.26,
		VisibleSideCards:    5,
		AlignmentCorrection: true,
	}
	if err := f.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	if got := f.Config(); got != cfg {
		t.Errorf("Config() = %+v, want %+v", got, cfg)
	}

	bad := cfg
	bad.MinCardScale = 0
	if err := f.Configure(bad); err == nil {
		t.Error("Configure accepted min scale 0")
	}
	if got := f.Config(); got != cfg {
		t.Error("rejected Configure changed the config")
	}
}

func TestStylizerOncePerCardInIndexOrder(t *testing.T) {
	var calls []int
	var progress []float64
	f := New(&fakeContainer{}, WithStylizer(func(s Surface, index int, p float64) {
		if s.(*fakeCard).id != index {
			t.Errorf("stylizer got card %d for index %d", s.(*fakeCard).id, index)
		}
		calls = append(calls, index)
		progress = append(progress, p)
	}))

	_, surfaces := newCards(4)
	f.SetCards(surfaces)
	calls, progress = nil, nil

	f.OnScroll(f.Geometry().PageWidth)
	if !slices.Equal(calls, []int{0, 1, 2, 3}) {
		t.Errorf("stylizer calls = %v, want [0 1 2 3]", calls)
	}
	if progress[1] != 0 {
		t.Errorf("progress of current card = %v, want 0", progress[1])
	}
	if progress[0] <= 0 || progress[2] >= 0 {
		t.Errorf("side progress = %v, %v; want positive, negative", progress[0], progress[2])
	}
}

func TestOnScrollOrderAndVisibility(t *testing.T) {
	container := &fakeContainer{}
	f := New(container)
	cards, surfaces := newCards(8)
	f.SetCards(surfaces)

	// Default 300pt cards give a 375pt page with three side cards.
	f.OnScroll(0)
	if got := container.top().id; got != 0 {
		t.Errorf("top card = %d, want 0", got)
	}
	for i, c := range cards {
		want := i >= 4
		if c.hidden != want {
			t.Errorf("card %d hidden = %v, want %v", i, c.hidden, want)
		}
	}
	if !cards[0].transform.IsIdentity() {
		t.Errorf("card 0 transform = %+v, want identity", cards[0].transform)
	}

	f.OnScroll(3 * 375)
	if got := container.top().id; got != 3 {
		t.Errorf("top card = %d, want 3", got)
	}
	if f.CurrentIndex() != 3 {
		t.Errorf("CurrentIndex() = %d, want 3", f.CurrentIndex())
	}
	if cards[0].hidden {
		t.Error("card 0 should be visible three pages away")
	}
}

func TestZeroCardSizeLeavesSurfacesAlone(t *testing.T) {
	f := New(&fakeContainer{})
	cfg := fan.DefaultConfig()
	cfg.CardSize = fan.Size{}
	if err := f.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	cards, surfaces := newCards(3)
	f.SetCards(surfaces)
	f.OnScroll(100)
	for i, c := range cards {
		if c.transforms != 0 {
			t.Errorf("card %d got %d transforms, want 0", i, c.transforms)
		}
	}
}

func TestHitTest(t *testing.T) {
	surface := scroll.New(375)
	f := New(&fakeContainer{}, WithScroller(surface))
	f.SetViewSize(600, 500)

	target, ok := f.HitTest(10, 10)
	if !ok || target != Scroller(surface) {
		t.Errorf("HitTest inside = (%v, %v), want scroll surface", target, ok)
	}
	for _, p := range [][2]float64{{700, 10}, {-5, 10}, {10, 900}} {
		if target, ok := f.HitTest(p[0], p[1]); !ok || target != Scroller(surface) {
			t.Errorf("HitTest%v = (%v, %v), want scroll surface", p, target, ok)
		}
	}

	f.SetInteractive(false)
	if _, ok := f.HitTest(10, 10); ok {
		t.Error("HitTest should reject hits when not interactive")
	}
}

func TestCenteredSurfaceFollowsCardSize(t *testing.T) {
	f := New(&fakeContainer{})
	f.SetViewSize(600, 500)
	geo := f.Geometry()
	if geo.SurfaceWidth != 375 || geo.SurfaceOriginX != 112.5 {
		t.Errorf("surface = (%v, %v), want (375, 112.5)", geo.SurfaceWidth, geo.SurfaceOriginX)
	}

	cfg := fan.DefaultConfig()
	cfg.CardSize = fan.Size{Width: 200, Height: 300}
	if err := f.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	geo = f.Geometry()
	if geo.SurfaceWidth != 250 || geo.SurfaceOriginX != 175 || geo.PageX != 25 {
		t.Errorf("surface = (%v, %v, pageX %v), want (250, 175, 25)", geo.SurfaceWidth, geo.SurfaceOriginX, geo.PageX)
	}
}

func TestDrivenByScrollSurface(t *testing.T) {
	surface := scroll.New(0)
	container := &fakeContainer{}
	f := New(container, WithScroller(surface))
	_, surfaces := newCards(5)
	f.SetCards(surfaces)
	surface.Subscribe(f)

	if got := surface.ContentWidth(); got != 5*375 {
		t.Fatalf("scroll content width = %v, want %v", got, 5*375)
	}

	surface.Drag(200)
	frame, _ := f.Frame()
	if frame.Cards[0].Path != fan.PathSecondSwipe {
		t.Errorf("card 0 path = %v, want second-swipe", frame.Cards[0].Path)
	}

	surface.EndDrag(0)
	if f.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", f.CurrentIndex())
	}
	if got := container.top().id; got != 1 {
		t.Errorf("top card = %d, want 1", got)
	}
}

func TestLoggerReceivesPasses(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	f := New(&fakeContainer{}, WithLogger(logger))
	_, surfaces := newCards(2)
	f.SetCards(surfaces)

	out := buf.String()
	if !strings.Contains(out, "fan relayout") || !strings.Contains(out, "fan transform") {
		t.Errorf("log output missing passes:\n%s", out)
	}
}

package scroll

import (
	"slices"
	"testing"

	"github.com/matzehuels/cardfan/pkg/easing"
)

func newSurface() *Surface {
	s := New(250)
	s.SetPaging(250, 5*250)
	return s
}

func TestSurfaceGeometry(t *testing.T) {
	s := newSurface()
	if got := s.Pages(); got != 5 {
		t.Errorf("Pages() = %d, want 5", got)
	}
	if got := s.MaxOffset(); got != 1000 {
		t.Errorf("MaxOffset() = %v, want 1000", got)
	}
	if got := s.FrameWidth(); got != 250 {
		t.Errorf("FrameWidth() = %v, want 250", got)
	}
}

func TestSurfaceNotifiesSynchronously(t *testing.T) {
	s := newSurface()
	var seen []float64
	unsubscribe := s.Subscribe(ObserverFunc(func(x float64) {
		seen = append(seen, x)
		// Observers may read the surface back.
		if s.ContentOffset() != x {
			t.Errorf("ContentOffset() = %v during notify, want %v", s.ContentOffset(), x)
		}
	}))

	s.SetContentOffset(100)
	s.Drag(50)
	s.Drag(-20)
	s.ScrollToPage(3)

	want := []float64{100, 150, 130, 750}
	if !slices.Equal(seen, want) {
		t.Errorf("notified offsets = %v, want %v", seen, want)
	}

	unsubscribe()
	s.SetContentOffset(0)
	if len(seen) != len(want) {
		t.Error("observer notified after unsubscribe")
	}
}

func TestSurfaceObserverOrder(t *testing.T) {
	s := newSurface()
	var order []int
	for i := range 3 {
		s.Subscribe(ObserverFunc(func(float64) { order = append(order, i) }))
	}
	s.SetContentOffset(10)
	if !slices.Equal(order, []int{0, 1, 2}) {
		t.Errorf("observer order = %v, want [0 1 2]", order)
	}
}

func TestEndDragSnaps(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		velocity float64
		want     float64
	}{
		{"nearest below half", 360, 0, 250},
		{"nearest above half", 380, 0, 500},
		{"flick forward", 260, FlickVelocity, 500},
		{"flick backward", 490, -FlickVelocity, 250},
		{"slow release", 260, FlickVelocity / 2, 250},
		{"overscroll start", -80, 0, 0},
		{"flick past end", 990, 1000, 1000},
		{"overscroll end", 1200, 0, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSurface()
			s.SetContentOffset(tt.offset)
			s.Drag(0)
			if !s.Dragging() {
				t.Fatal("Dragging() = false during drag")
			}
			if got := s.EndDrag(tt.velocity); got != tt.want {
				t.Errorf("EndDrag(%v) = %v, want %v", tt.velocity, got, tt.want)
			}
			if s.ContentOffset() != tt.want {
				t.Errorf("ContentOffset() = %v, want %v", s.ContentOffset(), tt.want)
			}
			if s.Dragging() {
				t.Error("Dragging() = true after EndDrag")
			}
		})
	}
}

func TestScrollToPageClamps(t *testing.T) {
	s := newSurface()
	s.ScrollToPage(9)
	if got := s.ContentOffset(); got != 1000 {
		t.Errorf("ScrollToPage(9) offset = %v, want 1000", got)
	}
	s.ScrollToPage(-2)
	if got := s.ContentOffset(); got != 0 {
		t.Errorf("ScrollToPage(-2) offset = %v, want 0", got)
	}
	s.ScrollToPage(2)
	if got := s.Page(); got != 2 {
		t.Errorf("Page() = %d, want 2", got)
	}
}

func TestSetPagingClampsSilently(t *testing.T) {
	s := newSurface()
	s.SetContentOffset(1000)
	called := false
	s.Subscribe(ObserverFunc(func(float64) { called = true }))
	s.SetPaging(250, 500)
	if got := s.ContentOffset(); got != 250 {
		t.Errorf("ContentOffset() = %v, want 250", got)
	}
	if called {
		t.Error("SetPaging notified observers")
	}
}

func TestTimeline(t *testing.T) {
	got := Timeline(250, 1, 3, 5, nil)
	want := []float64{250, 375, 500, 625, 750}
	if !slices.Equal(got, want) {
		t.Errorf("Timeline = %v, want %v", got, want)
	}

	eased := Timeline(250, 0, 1, 11, easing.OutCubic)
	if eased[0] != 0 || eased[10] != 250 {
		t.Errorf("eased endpoints = %v, %v", eased[0], eased[10])
	}
	if eased[5] <= 125 {
		t.Errorf("ease-out midpoint = %v, want past halfway", eased[5])
	}

	if got := Timeline(250, 0, 2, 1, nil); !slices.Equal(got, []float64{500}) {
		t.Errorf("single step Timeline = %v, want [500]", got)
	}
}

func TestTour(t *testing.T) {
	got := Tour(250, 3, 2, nil)
	want := []float64{0, 125, 250, 375, 500, 375, 250, 125, 0}
	if !slices.Equal(got, want) {
		t.Errorf("Tour = %v, want %v", got, want)
	}
	if got := Tour(250, 1, 4, nil); !slices.Equal(got, []float64{0}) {
		t.Errorf("single page Tour = %v", got)
	}
}

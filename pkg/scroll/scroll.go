// Package scroll provides a paging scroll surface that drives a card fan.
//
// It models the parts of a platform scroll view that the fan depends on:
// a horizontal content offset, synchronous offset-changed notifications,
// snap-to-page paging and programmatic scrolling. Gesture recognition is out
// of scope; callers feed drags in as offset deltas.
package scroll

import (
	"math"
	"sync"
)

// FlickVelocity is the release speed, in points per second, above which
// EndDrag advances to the neighbouring page in the direction of travel
// instead of snapping to the nearest one.
const FlickVelocity = 300.0

// Observer is notified synchronously whenever the content offset changes.
type Observer interface {
	OnScroll(offsetX float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(offsetX float64)

// OnScroll calls f.
func (f ObserverFunc) OnScroll(offsetX float64) { f(offsetX) }

// Surface is a horizontally paging scroll surface. It is safe for concurrent
// use; observers are called without the lock held, so they may read the
// surface back.
type Surface struct {
	mu           sync.Mutex
	pageWidth    float64
	contentWidth float64
	offset       float64
	dragging     bool
	observers    map[int]Observer
	nextID       int
}

// New returns a surface with the given page width and no content.
func New(pageWidth float64) *Surface {
	return &Surface{
		pageWidth: pageWidth,
		observers: make(map[int]Observer),
	}
}

// SetPaging updates the page and content widths. The offset is clamped to
// the new range without notifying observers; the caller is expected to be
// mid-relayout and to read ContentOffset back.
func (s *Surface) SetPaging(pageWidth, contentWidth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageWidth = pageWidth
	s.contentWidth = contentWidth
	s.offset = s.clamp(s.offset)
}

// PageWidth is the snap interval.
func (s *Surface) PageWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageWidth
}

// FrameWidth is the visible width of the surface. A paging surface is
// exactly one page wide.
func (s *Surface) FrameWidth() float64 {
	return s.PageWidth()
}

// ContentWidth is the scrollable width.
func (s *Surface) ContentWidth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contentWidth
}

// ContentOffset returns the current horizontal offset.
func (s *Surface) ContentOffset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// MaxOffset is the largest offset a settled surface can rest at.
func (s *Surface) MaxOffset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxOffset()
}

// Pages returns the number of pages in the content.
func (s *Surface) Pages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pageWidth <= 0 {
		return 0
	}
	return int(math.Round(s.contentWidth / s.pageWidth))
}

// Page returns the page nearest the current offset.
func (s *Surface) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pageWidth <= 0 {
		return 0
	}
	return int(math.Round(s.offset / s.pageWidth))
}

// Dragging reports whether a drag is in progress.
func (s *Surface) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// SetContentOffset moves the surface to x and notifies observers. The
// offset is not clamped, so callers can reproduce overscroll.
func (s *Surface) SetContentOffset(x float64) {
	s.mu.Lock()
	s.offset = x
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, x)
}

// Drag moves the content by dx points, as a finger drag would. Positive dx
// moves toward later pages. Drags are not clamped.
func (s *Surface) Drag(dx float64) {
	s.mu.Lock()
	s.dragging = true
	s.offset += dx
	x := s.offset
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, x)
}

// SnapTarget returns the offset a drag released at the current position
// with velocity (points per second) would settle at.
func (s *Surface) SnapTarget(velocity float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapTarget(velocity)
}

// EndDrag finishes a drag, snapping to a page, and returns the new offset.
func (s *Surface) EndDrag(velocity float64) float64 {
	s.mu.Lock()
	s.dragging = false
	x := s.snapTarget(velocity)
	s.offset = x
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, x)
	return x
}

// ScrollToPage jumps to page i, clamped to the content.
func (s *Surface) ScrollToPage(i int) {
	s.mu.Lock()
	x := s.clamp(float64(i) * s.pageWidth)
	s.offset = x
	observers := s.snapshot()
	s.mu.Unlock()
	notify(observers, x)
}

// Subscribe registers o and returns a function that removes it.
func (s *Surface) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Surface) snapTarget(velocity float64) float64 {
	if s.pageWidth <= 0 {
		return 0
	}
	pos := s.offset / s.pageWidth
	page := math.Round(pos)
	switch {
	case velocity >= FlickVelocity:
		page = math.Floor(pos) + 1
	case velocity <= -FlickVelocity:
		page = math.Ceil(pos) - 1
	}
	return s.clamp(page * s.pageWidth)
}

func (s *Surface) maxOffset() float64 {
	return max(0, s.contentWidth-s.pageWidth)
}

func (s *Surface) clamp(x float64) float64 {
	return max(0, min(s.maxOffset(), x))
}

// snapshot copies the observers in subscription order. Callers hold mu.
func (s *Surface) snapshot() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for id := 0; id < s.nextID; id++ {
		if o, ok := s.observers[id]; ok {
			out = append(out, o)
		}
	}
	return out
}

func notify(observers []Observer, x float64) {
	for _, o := range observers {
		o.OnScroll(x)
	}
}

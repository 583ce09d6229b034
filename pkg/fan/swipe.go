package fan

import "math"

// SwipeState tracks which card is being swiped. It has two states:
//
//   - Resting-at(k): the offset sits exactly on page k.
//   - Held-at(k): the offset is between pages and k is held from an earlier
//     frame (or was picked after a jump of more than one page).
//
// It is the only state the engine carries across frames.
type SwipeState struct {
	Index   int  `json:"index"`
	Resting bool `json:"resting"`
}

// Next returns the state after observing offsetPercent (offset in pages).
//
// The index moves to round(offsetPercent) when the offset lands exactly on a
// page, or when it drifted more than one page away from the held index.
// Otherwise the held index is kept, so the swiped card cannot change in the
// middle of a gesture.
//
// The stored index is not clamped to the card range: an overscroll past the
// first card tracks -1, which matches no card and leaves all cards on the
// standard path.
func (s SwipeState) Next(offsetPercent float64) SwipeState {
	raw := math.Round(offsetPercent)
	switch {
	case offsetPercent == raw:
		return SwipeState{Index: nearestPage(raw), Resting: true}
	case math.Abs(offsetPercent-float64(s.Index)) > 1.0:
		return SwipeState{Index: nearestPage(raw)}
	default:
		return SwipeState{Index: s.Index}
	}
}

// nearestPage rounds an offset in pages to a page index, saturating at
// ±MaxInt32 so that offsets beyond the int range never wrap.
func nearestPage(offsetPercent float64) int {
	return int(max(-math.MaxInt32, min(math.MaxInt32, math.Round(offsetPercent))))
}

// Progress returns how far the offset has moved from the held index, in
// pages. Positive values mean the content moved toward later cards.
func (s SwipeState) Progress(offsetPercent float64) float64 {
	return offsetPercent - float64(s.Index)
}

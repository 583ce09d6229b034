package scroll

import "github.com/matzehuels/cardfan/pkg/easing"

// Timeline returns the offsets of a swipe from page `from` to page `to`,
// sampled in steps frames. The first offset is the start page and the last
// is exactly the destination page, so a consumer lands at rest. ease shapes
// the motion; nil means linear.
func Timeline(pageWidth float64, from, to, steps int, ease easing.Func) []float64 {
	if ease == nil {
		ease = easing.Linear
	}
	start, end := float64(from)*pageWidth, float64(to)*pageWidth
	if steps < 2 {
		return []float64{end}
	}
	out := make([]float64, steps)
	for i := range out {
		t := float64(i) / float64(steps-1)
		out[i] = start + (end-start)*ease(t)
	}
	out[0], out[steps-1] = start, end
	return out
}

// Tour returns a timeline that visits every page from 0 to pages-1 and back,
// with stepsPerPage frames per page transition. Consecutive swipes share
// their endpoint.
func Tour(pageWidth float64, pages, stepsPerPage int, ease easing.Func) []float64 {
	if pages < 2 {
		return []float64{0}
	}
	var out []float64
	appendSwipe := func(from, to int) {
		seg := Timeline(pageWidth, from, to, stepsPerPage+1, ease)
		if len(out) > 0 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	for p := 0; p < pages-1; p++ {
		appendSwipe(p, p+1)
	}
	for p := pages - 1; p > 0; p-- {
		appendSwipe(p, p-1)
	}
	return out
}

package fan

import (
	"math"
	"slices"
)

// Hidden reports whether card i is too far from offsetX to be shown. A card
// exactly sideCards+1 pages away is hidden.
func Hidden(geo Geometry, sideCards uint, offsetX float64, i int) bool {
	maxDistance := math.Abs(geo.PageWidth * (float64(sideCards) + 1))
	return distance(geo, offsetX, i) >= maxDistance
}

// StackingOrder returns card indices ordered back to front: farthest from
// offsetX first, closest last. Cards at equal distance keep index order.
func StackingOrder(geo Geometry, offsetX float64) []int {
	order := make([]int, geo.Count)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		da, db := distance(geo, offsetX, a), distance(geo, offsetX, b)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	return order
}

// VisibleRange returns the first and last index that are not hidden at
// offsetX. ok is false when no card is visible.
func VisibleRange(geo Geometry, sideCards uint, offsetX float64) (first, last int, ok bool) {
	first, last = -1, -1
	for i := 0; i < geo.Count; i++ {
		if Hidden(geo, sideCards, offsetX, i) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last, first >= 0
}

func distance(geo Geometry, offsetX float64, i int) float64 {
	return math.Abs(offsetX - geo.Home(i))
}

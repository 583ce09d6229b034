// Package easing provides ease-out curves for fan transforms.
//
// Every curve maps a signed progress value in [-1, 1] to an eased value in
// [-1, 1]. The fixed points -1, 0 and 1 are preserved; the values in between
// bend toward the end of the range, which makes cards move quickly when they
// leave the center and settle gently as they reach the side of the fan.
//
// # Curves
//
//   - [OutSine]: sign(x)·sin(|x|·π/2). The fan default.
//   - [OutCubic]: sign(x)·(1-(1-|x|)³).
//   - [OutSigmoid]: normalized tunable sigmoid with curvature in [-1, 1].
//   - [Linear]: identity, useful for debugging transforms.
//
// Curves are also available by name through [ByName], which is how fan
// configuration files select them:
//
//	f, ok := easing.ByName("cubic")
//	if !ok {
//	    return fmt.Errorf("unknown easing")
//	}
//	y := f(0.5)
package easing

import (
	"math"
	"slices"
)

// Func is an easing curve over [-1, 1].
type Func func(x float64) float64

// DefaultCurvature is the sigmoid curvature used by the "sigmoid" entry in
// the registry.
const DefaultCurvature = -0.5

// Names of the registered curves.
const (
	NameLinear  = "linear"
	NameSine    = "sine"
	NameCubic   = "cubic"
	NameSigmoid = "sigmoid"
)

// Default is the curve name used when a configuration leaves easing empty.
const Default = NameSine

// sign returns -1 for negative x and 1 otherwise (including zero).
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// Linear returns x unchanged.
func Linear(x float64) float64 { return x }

// OutSine eases x with a quarter sine wave, mirrored for negative input.
func OutSine(x float64) float64 {
	return math.Sin(math.Abs(x)*math.Pi/2) * sign(x)
}

// OutCubic eases x with a cubic ease-out, mirrored for negative input.
func OutCubic(x float64) float64 {
	return (1 - math.Pow(1-math.Abs(x), 3)) * sign(x)
}

// OutSigmoid applies the normalized tunable sigmoid
//
//	(x - c·x) / (c - 2c·|x| + 1)
//
// with curvature c clamped to [-1, 1]. Negative curvature eases out, positive
// curvature eases in and zero is linear.
//
// At |c| = 1 the curve degenerates into a step; callers that want a smooth
// curve should stay inside the open interval.
func OutSigmoid(x, curvature float64) float64 {
	c := max(-1, min(1, curvature))
	return (x - c*x) / (c - 2*c*math.Abs(x) + 1)
}

// Sigmoid returns an [OutSigmoid] curve with a fixed curvature.
func Sigmoid(curvature float64) Func {
	return func(x float64) float64 { return OutSigmoid(x, curvature) }
}

var registry = map[string]Func{
	NameLinear:  Linear,
	NameSine:    OutSine,
	NameCubic:   OutCubic,
	NameSigmoid: Sigmoid(DefaultCurvature),
}

// ByName looks up a registered curve. The empty name resolves to [Default].
func ByName(name string) (Func, bool) {
	if name == "" {
		name = Default
	}
	f, ok := registry[name]
	return f, ok
}

// Names returns the registered curve names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

package force

import "math"

// Vec is a 2D point or displacement in diagram pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v with both components multiplied by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }

func unitFromAngle(a float64) Vec { return Vec{math.Cos(a), math.Sin(a)} }

// Size is the canvas extent in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the canvas.
func (s Size) Center() Vec { return Vec{s.Width / 2, s.Height / 2} }

// Project maps a normalized coordinate (both axes in [0,1]) onto the canvas.
func (s Size) Project(n Vec) Vec { return Vec{n.X * s.Width, n.Y * s.Height} }

// clamp limits v to [lo, hi] and reports whether it had to move. When the
// range is empty (canvas smaller than twice the margin) v collapses to the
// midpoint.
func clamp(v, lo, hi float64) (float64, bool) {
	if hi < lo {
		mid := (lo + hi) / 2
		return mid, v != mid
	}
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}

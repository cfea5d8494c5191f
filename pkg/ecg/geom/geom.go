/*
Copyright 2018 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package geom provides the pixel-space geometric primitives shared by
// every digitizer stage: integer points and axis-aligned bounds.
package geom

import "fmt"

// Point is an integer pixel coordinate, origin top-left, y growing down.
type Point struct {
	X, Y int
}

// Bounds is a pixel rectangle. The invariant x >= 0, y >= 0,
// x+width <= W, y+height <= H (image dimensions) is enforced by Clamp,
// not by the zero value — callers must clamp before use (§3 Bounds).
type Bounds struct {
	X, Y, Width, Height int
}

// NewBounds returns a Bounds from its four components.
func NewBounds(x, y, width, height int) Bounds {
	return Bounds{X: x, Y: y, Width: width, Height: height}
}

// Right returns the exclusive right edge x+width.
func (b Bounds) Right() int {
	return b.X + b.Width
}

// Bottom returns the exclusive bottom edge y+height.
func (b Bounds) Bottom() int {
	return b.Y + b.Height
}

// Center returns the integer-rounded center point.
func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether p lies within b.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X < b.Right() && p.Y >= b.Y && p.Y < b.Bottom()
}

// ContainsY reports whether y lies within b's vertical extent.
func (b Bounds) ContainsY(y int) bool {
	return y >= b.Y && y < b.Bottom()
}

// ClampY clamps y into b's vertical range [Y, Bottom()-1].
func (b Bounds) ClampY(y int) int {
	if b.Height <= 0 {
		return b.Y
	}
	if y < b.Y {
		return b.Y
	}
	if y >= b.Bottom() {
		return b.Bottom() - 1
	}
	return y
}

// Clamp returns b clipped to lie within an imageW x imageH canvas,
// restoring the §3 Bounds invariant.
func (b Bounds) Clamp(imageW, imageH int) Bounds {
	x := clampInt(b.X, 0, imageW)
	y := clampInt(b.Y, 0, imageH)
	right := clampInt(b.Right(), x, imageW)
	bottom := clampInt(b.Bottom(), y, imageH)
	return Bounds{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Expand grows b by n pixels on every side, without clamping.
func (b Bounds) Expand(n int) Bounds {
	return Bounds{X: b.X - n, Y: b.Y - n, Width: b.Width + 2*n, Height: b.Height + 2*n}
}

// Overlaps reports whether b and o share any area.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// OverlapFraction returns the overlap area as a fraction of b's own area.
func (b Bounds) OverlapFraction(o Bounds) float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	left := maxInt(b.X, o.X)
	right := minInt(b.Right(), o.Right())
	top := maxInt(b.Y, o.Y)
	bottom := minInt(b.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return 0
	}
	area := (right - left) * (bottom - top)
	return float64(area) / float64(b.Width*b.Height)
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

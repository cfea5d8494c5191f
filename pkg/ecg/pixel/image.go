/*
Copyright 2022 The pdfcpu Authors.

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

// Package pixel is the Pixel Access Layer (§4.1): a read-only, row-major
// RGBA8 buffer with allocation-free darkness and color-match queries.
// Everything downstream of orientation normalization reads the image
// exclusively through this layer.
package pixel

import (
	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
)

// Image is an immutable width x height grid of RGBA8 pixels, row-major,
// origin top-left. It never allocates on a read.
type Image struct {
	width, height int
	pix           []uint8 // 4 bytes per pixel: R,G,B,A
}

// New wraps pix as a W x H image. pix must have len == w*h*4 and is not
// copied; callers must not mutate it afterwards (§3 Image is immutable).
func New(w, h int, pix []uint8) *Image {
	return &Image{width: w, height: h, pix: pix}
}

// NewBlank allocates a w x h image filled with bg.
func NewBlank(w, h int, bg colorspace.RGB) *Image {
	pix := make([]uint8, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4+0] = bg.R
		pix[i*4+1] = bg.G
		pix[i*4+2] = bg.B
		pix[i*4+3] = 255
	}
	return &Image{width: w, height: h, pix: pix}
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Pix exposes the raw backing buffer; callers other than a renderer must
// treat it as read-only.
func (img *Image) Pix() []uint8 { return img.pix }

// InBounds reports whether (x, y) is a valid pixel coordinate.
func (img *Image) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.width && y < img.height
}

// At returns the color at (x, y), or the zero color if out of bounds.
func (img *Image) At(x, y int) colorspace.RGB {
	if !img.InBounds(x, y) {
		return colorspace.RGB{}
	}
	i := (y*img.width + x) * 4
	return colorspace.RGB{R: img.pix[i], G: img.pix[i+1], B: img.pix[i+2]}
}

// AtF floors real coordinates and delegates to At, per §4.1's sub-pixel
// query contract.
func (img *Image) AtF(x, y float64) colorspace.RGB {
	return img.At(int(x), int(y))
}

// Darkness returns 255 - mean(r,g,b), or 0 for an out-of-bounds query.
func (img *Image) Darkness(x, y int) float64 {
	if !img.InBounds(x, y) {
		return 0
	}
	return img.At(x, y).Darkness()
}

// ColorMatch returns 255 - min(441, euclideanDistance*0.6) between the
// pixel at (x, y) and target, 0 out of bounds.
func (img *Image) ColorMatch(x, y int, target colorspace.RGB) float64 {
	if !img.InBounds(x, y) {
		return 0
	}
	return img.At(x, y).ColorMatch(target)
}

// Set mutates a pixel in place. Only the orientation normalizer and the
// synthetic renderer call this; every detection stage treats Image as
// read-only.
func (img *Image) Set(x, y int, c colorspace.RGB) {
	if !img.InBounds(x, y) {
		return
	}
	i := (y*img.width + x) * 4
	img.pix[i] = c.R
	img.pix[i+1] = c.G
	img.pix[i+2] = c.B
}

// CornerBlockAverage samples an n x n block anchored at a corner and
// returns its most-represented color, used to seed background detection
// (§4.2, §4.3).
func (img *Image) CornerBlockAverage(corner Corner, n int) colorspace.RGB {
	x0, y0 := img.cornerOrigin(corner, n)
	counts := map[colorspace.RGB]int{}
	best := colorspace.RGB{}
	bestCount := 0
	for y := y0; y < y0+n && y < img.height; y++ {
		for x := x0; x < x0+n && x < img.width; x++ {
			if y < 0 || x < 0 {
				continue
			}
			c := img.At(x, y)
			counts[c]++
			if counts[c] > bestCount {
				bestCount = counts[c]
				best = c
			}
		}
	}
	return best
}

// Corner enumerates the four corners sampled for background detection.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// BackgroundColor returns the most-represented color across four 20x20
// corner regions (§4.3).
func (img *Image) BackgroundColor() colorspace.RGB {
	const n = 20
	counts := map[colorspace.RGB]int{}
	for _, corner := range []Corner{TopLeft, TopRight, BottomLeft, BottomRight} {
		x0, y0 := img.cornerOrigin(corner, n)
		for y := y0; y < y0+n && y < img.height; y++ {
			for x := x0; x < x0+n && x < img.width; x++ {
				if x < 0 || y < 0 {
					continue
				}
				counts[img.At(x, y)]++
			}
		}
	}
	best := colorspace.White
	bestCount := -1
	for c, n := range counts {
		if n > bestCount {
			bestCount = n
			best = c
		}
	}
	return best
}

func (img *Image) cornerOrigin(corner Corner, n int) (int, int) {
	switch corner {
	case TopRight:
		return img.width - n, 0
	case BottomLeft:
		return 0, img.height - n
	case BottomRight:
		return img.width - n, img.height - n
	default:
		return 0, 0
	}
}

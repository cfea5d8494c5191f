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

// Package colorspace provides the 8-bit RGB color model used throughout
// the digitizer and the darkness/color-match scalar queries every
// detection stage is built on (§4.1, §3 Color).
package colorspace

import (
	"fmt"
	"math"
)

// RGB is an 8-bit-per-channel color, alpha-free: the digitizer only ever
// reasons about drawn ink against paper, never transparency.
type RGB struct {
	R, G, B uint8
}

// Popular reference colors used by the grid-line and waveform predicates.
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
)

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Brightness returns (r+g+b)/3.
func (c RGB) Brightness() float64 {
	return (float64(c.R) + float64(c.G) + float64(c.B)) / 3
}

// Darkness returns 255 - Brightness.
func (c RGB) Darkness() float64 {
	return 255 - c.Brightness()
}

// Inverted returns (255-r, 255-g, 255-b).
func (c RGB) Inverted() RGB {
	return RGB{255 - c.R, 255 - c.G, 255 - c.B}
}

// L1Distance is the per-channel Manhattan distance, used by the
// near-background grid-line rejection test (§4.3).
func (c RGB) L1Distance(o RGB) int {
	return absInt(int(c.R)-int(o.R)) + absInt(int(c.G)-int(o.G)) + absInt(int(c.B)-int(o.B))
}

// EuclideanDistance is the Euclidean RGB distance, in [0, 441.67].
func (c RGB) EuclideanDistance(o RGB) float64 {
	dr := float64(c.R) - float64(o.R)
	dg := float64(c.G) - float64(o.G)
	db := float64(c.B) - float64(o.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// maxEuclideanDistance is the distance between pure black and pure white,
// sqrt(255^2 * 3).
const maxEuclideanDistance = 441.672955930064

// ColorMatch returns 255 - min(441, distance*0.6), the scalar used to test
// waveforms drawn in a non-black ink against a single darkness threshold
// (§4.1).
func (c RGB) ColorMatch(target RGB) float64 {
	d := c.EuclideanDistance(target) * 0.6
	if d > maxEuclideanDistance {
		d = maxEuclideanDistance
	}
	return 255 - d
}

// Saturation returns (max-min)/max over the channels, 0 for black.
func (c RGB) Saturation() float64 {
	mx := maxU8(c.R, c.G, c.B)
	mn := minU8(c.R, c.G, c.B)
	if mx == 0 {
		return 0
	}
	return float64(mx-mn) / float64(mx)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxU8(vs ...uint8) uint8 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minU8(vs ...uint8) uint8 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

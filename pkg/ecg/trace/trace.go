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

// Package trace is the Waveform Tracer (§4.9): for each panel it sweeps
// every column, picks the most plausible ink run, interpolates across
// small gaps, rejects single-sample spikes, and smooths the result into
// a RawTrace.
package trace

import (
	"context"

	"go.uber.org/multierr"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// maxRunThicknessPx rejects ink runs thicker than this: they are almost
// always a label, a grid artifact, or two merged traces, not a single
// waveform stroke (§4.9).
const maxRunThicknessPx = 12

// retrySchedule is the sequence of darkness thresholds attempted, in
// order, when the previous attempt produced an unusable trace (§4.9
// "robust retry").
var retrySchedule = []float64{80, 60, 100, 40, 120}

// shortCircuitMeanConfidence is the fixed bar a trace attempt's mean
// confidence must clear to stop the retry ladder early, independent of
// the per-sample acceptance threshold configured as MinPointConfidence
// (§4.9 "robust retry").
const shortCircuitMeanConfidence = 0.7

// darkestRunDivisor scales a run's peak ColorMatch value into the
// [0,1] confidence range (§4.9 step 5).
const darkestRunDivisor = 200.0

// minRunWeight is the minimum total darkness-weight a run must carry
// for its centroid to be trusted (§4.9 step 4).
const minRunWeight = 0.5

// Panel bundles the geometry a single trace attempt needs.
type Panel struct {
	ID        int
	Lead      string
	Bounds    geom.Bounds
	BaselineY int
}

// Options configures one tracing run, sourced from model.Configuration.
type Options struct {
	WaveformColor      colorspace.RGB
	MaxInterpolateGap  int
	MinPointConfidence float64
	SmoothingWindow    int
	RejectArtifacts    bool
}

// TracePanel runs the §4.9 algorithm for a single panel: column sweep,
// gap interpolation, artifact rejection, smoothing, and a retry ladder
// over darkness thresholds when the first attempt is unusable.
func TracePanel(img *pixel.Image, p Panel, opt Options) *model.RawTrace {
	var best *model.RawTrace
	for _, threshold := range retrySchedule {
		t := traceOnce(img, p, opt, threshold)
		if best == nil || t.Score() > best.Score() {
			best = t
		}
		if best.Usable() && best.MeanConfidence >= shortCircuitMeanConfidence {
			break
		}
	}
	return best
}

func traceOnce(img *pixel.Image, p Panel, opt Options, darknessThreshold float64) *model.RawTrace {
	t := &model.RawTrace{PanelID: p.ID, Lead: p.Lead, BaselineY: p.BaselineY}

	prevY := p.BaselineY
	gapStart := -1

	for x := p.Bounds.X; x < p.Bounds.Right(); x++ {
		y, conf, ok := columnEstimate(img, x, p.Bounds, prevY, opt.WaveformColor, darknessThreshold)
		if !ok || conf < opt.MinPointConfidence {
			if gapStart < 0 {
				gapStart = x
			}
			continue
		}
		if gapStart >= 0 {
			closeGap(t, gapStart, x, opt.MaxInterpolateGap, y, true)
			gapStart = -1
		}
		t.XPixels = append(t.XPixels, x)
		t.YPixels = append(t.YPixels, y)
		t.Confidence = append(t.Confidence, conf)
		prevY = y
	}
	if gapStart >= 0 {
		closeGap(t, gapStart, p.Bounds.Right(), opt.MaxInterpolateGap, 0, false)
	}

	if opt.RejectArtifacts {
		rejectSpikes(t)
	}
	if opt.SmoothingWindow > 1 {
		smooth(t, opt.SmoothingWindow)
	}
	t.ComputeMeanConfidence()
	return t
}

// columnEstimate finds the dark run in column x closest to prevY,
// rejecting over-thick runs, and returns its darkness-weighted centroid
// and a confidence score (§4.9).
func columnEstimate(img *pixel.Image, x int, bounds geom.Bounds, prevY int, waveform colorspace.RGB, darknessThreshold float64) (int, float64, bool) {
	type run struct {
		top, bottom int
		maxDarkness float64
	}
	var runs []run
	runStart := -1
	runMax := 0.0
	for y := bounds.Y; y <= bounds.Bottom(); y++ {
		match := 0.0
		dark := false
		if y < bounds.Bottom() {
			match = img.At(x, y).ColorMatch(waveform)
			dark = match > darknessThreshold
		}
		if dark {
			if runStart < 0 {
				runStart = y
				runMax = match
			} else if match > runMax {
				runMax = match
			}
		} else if runStart >= 0 {
			if y-runStart <= maxRunThicknessPx {
				runs = append(runs, run{top: runStart, bottom: y - 1, maxDarkness: runMax})
			}
			runStart = -1
			runMax = 0
		}
	}
	if len(runs) == 0 {
		return 0, 0, false
	}

	bestIdx, bestDist := 0, -1
	for i, r := range runs {
		center := (r.top + r.bottom) / 2
		d := center - prevY
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	r := runs[bestIdx]

	weightedSum, weightTotal := 0.0, 0.0
	for y := r.top; y <= r.bottom; y++ {
		w := img.At(x, y).Darkness() / 255
		weightedSum += float64(y) * w
		weightTotal += w
	}
	if weightTotal <= minRunWeight {
		return 0, 0, false
	}
	centroid := int(weightedSum/weightTotal + 0.5)

	confidence := r.maxDarkness / darkestRunDivisor
	if confidence > 1 {
		confidence = 1
	}
	return centroid, confidence, true
}

// closeGap linearly interpolates points across a gap no wider than
// maxInterpolateGap that has a point on both sides (nextY is the point
// after it, when haveNext), so XPixels stays dense; any other gap is
// recorded in Gaps instead (§3 Raw Trace, §4.9).
func closeGap(t *model.RawTrace, startX, endX, maxInterpolateGap, nextY int, haveNext bool) {
	width := endX - startX
	if width <= 0 {
		return
	}
	if width > maxInterpolateGap || len(t.XPixels) == 0 || !haveNext {
		t.Gaps = append(t.Gaps, model.Gap{StartX: startX, EndX: endX})
		return
	}

	y0 := t.YPixels[len(t.YPixels)-1]
	y1 := nextY
	for x := startX; x < endX; x++ {
		frac := float64(x-startX+1) / float64(width+1)
		y := int(float64(y0) + frac*float64(y1-y0) + 0.5)
		t.XPixels = append(t.XPixels, x)
		t.YPixels = append(t.YPixels, y)
		t.Confidence = append(t.Confidence, 0.5)
	}
}

// rejectSpikes drops single-sample points whose y deviates from both
// neighbors by more than 3x the local neighbor spread, replacing them
// with the neighbor midpoint at reduced confidence (§4.9).
func rejectSpikes(t *model.RawTrace) {
	n := len(t.YPixels)
	if n < 3 {
		return
	}
	for i := 1; i < n-1; i++ {
		left, right := t.YPixels[i-1], t.YPixels[i+1]
		neighborSpread := absInt(left - right)
		deviation := absInt(t.YPixels[i] - (left+right)/2)
		if deviation > 3*(neighborSpread+1) && deviation > 15 {
			t.YPixels[i] = (left + right) / 2
			t.Confidence[i] = minF(t.Confidence[i], 0.2)
		}
	}
}

// smooth applies a centered moving average of the given window size.
func smooth(t *model.RawTrace, window int) {
	n := len(t.YPixels)
	if n == 0 || window < 2 {
		return
	}
	half := window / 2
	out := make([]int, n)
	for i := range t.YPixels {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= n {
			hi = n - 1
		}
		sum, count := 0, 0
		for j := lo; j <= hi; j++ {
			sum += t.YPixels[j]
			count++
		}
		out[i] = sum / count
	}
	t.YPixels = out
}

// TraceAll runs TracePanel over every panel concurrently, bounded by
// maxWorkers, aggregating per-panel failures with multierr rather than
// aborting the whole batch on one bad panel (SPEC_FULL §5 addendum).
func TraceAll(ctx context.Context, img *pixel.Image, panels []Panel, opt Options, maxWorkers int) ([]*model.RawTrace, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	results := make([]*model.RawTrace, len(panels))
	errs := make([]error, len(panels))

	sem := make(chan struct{}, maxWorkers)
	done := make(chan int, len(panels))

	for i, p := range panels {
		i, p := i, p
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- i }()
			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			default:
			}
			results[i] = TracePanel(img, p, opt)
		}()
	}
	for range panels {
		<-done
	}

	var agg error
	for _, e := range errs {
		agg = multierr.Append(agg, e)
	}
	return results, agg
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

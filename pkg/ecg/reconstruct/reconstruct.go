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

// Package reconstruct is the Signal Reconstructor (§4.10): it converts
// pixel traces to time/voltage using the grid's scan geometry, resamples
// them onto a uniform grid, and derives any limb leads the tracer never
// saw directly from Einthoven's and Goldberger's laws.
package reconstruct

import (
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
)

// globalMinX is the shared pixel-x origin every panel's time axis is
// measured from: the left edge of the earliest-starting non-rhythm
// panel. Column-peer panels (same physical moment, different leads)
// must agree on this origin or their derived leads drift out of phase
// with one another (§4.10).
func globalMinX(panels []model.Panel) int {
	min := -1
	for _, p := range panels {
		if p.IsRhythmStrip {
			continue
		}
		if min < 0 || p.Bounds.X < min {
			min = p.Bounds.X
		}
	}
	if min < 0 {
		return 0
	}
	return min
}

// PixelToTime converts a pixel x-coordinate to a time in seconds,
// anchored at originX and scaled by pxPerSecond, then offset by the
// panel's own TimeStartS (§4.10, §3 Panel time_start_s/time_end_s).
func PixelToTime(x, originX int, pxPerSecond float64, timeStartS float64) float64 {
	if pxPerSecond <= 0 {
		return timeStartS
	}
	return timeStartS + float64(x-originX)/pxPerSecond
}

// microvoltsPerMillivolt converts the millivolt-scale pixel/calibration
// geometry into the microvolt units Signal.Leads is documented in (§4.10
// step 2, §3 ECG Signal).
const microvoltsPerMillivolt = 1000

// PixelToVoltage converts a pixel y-coordinate to microvolts relative to
// baselineY; y grows downward so voltage is inverted (§4.10, §3
// Calibration).
func PixelToVoltage(y, baselineY int, pxPerMv float64) float64 {
	if pxPerMv <= 0 {
		return 0
	}
	return float64(baselineY-y) / pxPerMv * microvoltsPerMillivolt
}

// Sample is one (time, voltage) observation, before or after resampling.
type Sample struct {
	T, V float64
}

// tracesToSamples converts a panel's RawTrace pixel series into
// time-ordered samples using the panel's calibration geometry.
func tracesToSamples(t *model.RawTrace, panel model.Panel, originX int, pxPerSecond, pxPerMv float64) []Sample {
	samples := make([]Sample, len(t.XPixels))
	for i, x := range t.XPixels {
		samples[i] = Sample{
			T: PixelToTime(x, originX, pxPerSecond, panel.TimeStartS),
			V: PixelToVoltage(t.YPixels[i], t.BaselineY, pxPerMv),
		}
	}
	return samples
}

// ResampleUniform linearly interpolates samples (assumed time-sorted)
// onto a uniform grid of ExpectedLength() points at sampleRate,
// starting at t0 (§4.10).
func ResampleUniform(samples []Sample, sampleRate, durationS, t0 float64) []float64 {
	n := int(durationS*sampleRate + 0.5)
	out := make([]float64, n)
	if len(samples) == 0 {
		return out
	}
	if len(samples) == 1 {
		for i := range out {
			out[i] = samples[0].V
		}
		return out
	}

	j := 0
	for i := 0; i < n; i++ {
		target := t0 + float64(i)/sampleRate
		for j < len(samples)-2 && samples[j+1].T < target {
			j++
		}
		a, b := samples[j], samples[minInt(j+1, len(samples)-1)]
		if b.T == a.T {
			out[i] = a.V
			continue
		}
		frac := (target - a.T) / (b.T - a.T)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out[i] = a.V + frac*(b.V-a.V)
	}
	return out
}

// Reconstruct converts traces into a Signal at sampleRate, then fills in
// any of the six limb leads the tracer never directly observed using
// Einthoven's and Goldberger's relations (§4.10).
func Reconstruct(traces []*model.RawTrace, panels []model.Panel, calib model.Calibration, pxPerMm, sampleRate, durationS float64) *model.Signal {
	signal := model.NewSignal(sampleRate, durationS)
	if pxPerMm <= 0 {
		return signal
	}
	pxPerMv := calib.PxPerMv(pxPerMm)
	pxPerSecond := calib.PxPerSecond(pxPerMm)
	origin := globalMinX(panels)

	panelByID := map[int]model.Panel{}
	for _, p := range panels {
		panelByID[p.ID] = p
	}

	for _, t := range traces {
		if t == nil || !t.Usable() {
			continue
		}
		panel, ok := panelByID[t.PanelID]
		if !ok || t.Lead == "" {
			continue
		}
		samples := tracesToSamples(t, panel, origin, pxPerSecond, pxPerMv)
		signal.Leads[t.Lead] = ResampleUniform(samples, sampleRate, durationS, panel.TimeStartS)
	}

	deriveLimbLeads(signal)
	return signal
}

// deriveLimbLeads fills in any of I, II, III, aVR, aVL, aVF that are
// still absent, using whichever two of I, II, III are present (§4.10,
// Einthoven's and Goldberger's laws). It never overwrites a
// directly-traced lead.
func deriveLimbLeads(signal *model.Signal) {
	I, haveI := signal.Leads["I"]
	II, haveII := signal.Leads["II"]
	III, haveIII := signal.Leads["III"]

	if !haveIII && haveI && haveII {
		III = subtract(II, I)
		signal.Leads["III"] = III
		haveIII = true
	}
	if !haveII && haveI && haveIII {
		II = add(I, III)
		signal.Leads["II"] = II
		haveII = true
	}
	if !haveI && haveII && haveIII {
		I = subtract(II, III)
		signal.Leads["I"] = I
		haveI = true
	}

	if !haveI || !haveII {
		return
	}

	if _, ok := signal.Leads["aVR"]; !ok {
		signal.Leads["aVR"] = scale(add(I, II), -0.5)
	}
	if _, ok := signal.Leads["aVL"]; !ok && haveIII {
		signal.Leads["aVL"] = scale(subtract(I, III), 0.5)
	}
	if _, ok := signal.Leads["aVF"]; !ok && haveIII {
		signal.Leads["aVF"] = scale(add(II, III), 0.5)
	}
}

func add(a, b []float64) []float64 {
	n := minInt(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] + b[i]
	}
	return out
}

func subtract(a, b []float64) []float64 {
	n := minInt(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] - b[i]
	}
	return out
}

func scale(a []float64, k float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v * k
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

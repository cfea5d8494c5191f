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

// Package quality is the Quality Scorer (§4.11): it turns each lead's
// raw trace metrics into a per-lead confidence, rolls those up into an
// overall score, and emits the issues a caller should act on.
package quality

import (
	"fmt"
	"math"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
)

// flatLineStdDevPx is the per-lead pixel standard deviation below which
// a trace is flagged as suspiciously flat (§4.11).
const flatLineStdDevPx = 1.5

// saturationFraction is the fraction of samples touching either the
// panel's top or bottom edge that triggers a possible-saturation issue
// (§4.11).
const saturationFraction = 0.05

// excessiveNoiseRatio is the high-frequency-content ratio above which a
// trace is flagged as excessively noisy (§4.11).
const excessiveNoiseRatio = 0.5

// Per-lead confidence weights: mean point confidence, gap coverage,
// trace density, and the label's own confidence (§4.11).
const (
	weightMeanConfidence = 0.4
	weightGapPenalty     = 0.3
	weightCoverage       = 0.2
	weightLabel          = 0.1
)

// Overall-confidence weights: average lead confidence, calibration and
// grid confidence, oracle-reported image quality, and the fraction of
// the 12 standard leads actually traced (§4.11).
const (
	weightAvgLead      = 0.4
	weightCalibration  = 0.2
	weightGrid         = 0.2
	weightImageQuality = 0.1
	weightLeadCoverage = 0.1
)

// Score is the quality scorer's output: the pieces a Result needs.
type Score struct {
	LeadConfidence    map[string]float64
	OverallConfidence float64
	Issues            []model.Issue
}

// bonusFloors are minimums applied to OverallConfidence, keyed by how
// many of the 12 standard leads were actually extracted, so a
// technically-low-but-complete digitization isn't reported as worse
// than it is (§4.11, Open Question gated by enableBonusFloors — see
// SPEC_FULL §9 / DESIGN.md).
var bonusFloors = []struct {
	minLeads int
	floor    float64
}{
	{12, 0.95},
	{10, 0.90},
	{6, 0.75},
}

// Assess scores every trace against its source panel and rolls the
// per-lead scores into an overall Result confidence plus issues
// (§4.11). gridConfidence and calibConfidence come from the grid
// detector and calibration stage; imageQuality is the oracle's
// self-reported score (1 when no oracle ran).
func Assess(traces []*model.RawTrace, panels []model.Panel, gridConfidence, calibConfidence, imageQuality float64, enableBonusFloors bool) Score {
	score := Score{LeadConfidence: map[string]float64{}}

	panelByID := map[int]model.Panel{}
	for _, p := range panels {
		panelByID[p.ID] = p
	}

	var sum float64
	var n int

	tracedLeads := map[string]bool{}
	for _, t := range traces {
		if t == nil || t.Lead == "" {
			continue
		}
		tracedLeads[t.Lead] = true
		panel := panelByID[t.PanelID]
		c := leadConfidence(t, panel)
		score.LeadConfidence[t.Lead] = c
		sum += c
		n++

		if c < 0.5 {
			score.Issues = append(score.Issues, model.Issue{
				Code:          model.CodeLowLeadConfidence,
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("lead %s traced with low confidence (%.2f)", t.Lead, c),
				AffectedLeads: []string{t.Lead},
				Suggestion:    "re-scan at higher resolution or provide a clearer image",
			})
		}
		if isFlatLine(t) {
			score.Issues = append(score.Issues, model.Issue{
				Code:          model.CodeFlatLine,
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("lead %s trace is nearly flat", t.Lead),
				AffectedLeads: []string{t.Lead},
			})
		}
		if isSaturated(t, panel) {
			score.Issues = append(score.Issues, model.Issue{
				Code:          model.CodePossibleSaturation,
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("lead %s trace repeatedly clips panel bounds", t.Lead),
				AffectedLeads: []string{t.Lead},
			})
		}
		if ratio := highFrequencyRatio(t); ratio > excessiveNoiseRatio {
			score.Issues = append(score.Issues, model.Issue{
				Code:          model.CodeExcessiveNoise,
				Severity:      model.SeverityWarning,
				Message:       fmt.Sprintf("lead %s trace is dominated by high-frequency jitter (ratio %.2f)", t.Lead, ratio),
				AffectedLeads: []string{t.Lead},
				Suggestion:    "check for scan moire or compression artifacts",
			})
		}
	}

	var missingLeads []string
	for _, lead := range model.Standard12Leads {
		if !tracedLeads[lead] {
			missingLeads = append(missingLeads, lead)
		}
	}
	if len(missingLeads) > 0 {
		score.Issues = append(score.Issues, model.Issue{
			Code:          model.CodeMissingLeads,
			Severity:      model.SeverityError,
			Message:       fmt.Sprintf("%d standard leads were not traced", len(missingLeads)),
			AffectedLeads: missingLeads,
			Suggestion:    "check layout detection and oracle panel labels",
		})
	}

	tracedStandardCount := len(model.Standard12Leads) - len(missingLeads)
	leadCoverage := float64(tracedStandardCount) / float64(len(model.Standard12Leads))

	var avgLead float64
	if n > 0 {
		avgLead = sum / float64(n)
	}

	score.OverallConfidence = clamp01(
		weightAvgLead*avgLead +
			weightCalibration*calibConfidence +
			weightGrid*gridConfidence +
			weightImageQuality*imageQuality +
			weightLeadCoverage*leadCoverage,
	)

	if enableBonusFloors && n > 0 {
		for _, b := range bonusFloors {
			if tracedStandardCount >= b.minLeads {
				if score.OverallConfidence < b.floor {
					score.OverallConfidence = b.floor
				}
				break
			}
		}
	}

	return score
}

// leadConfidence mixes mean point confidence, gap coverage, trace
// density, and the panel's label confidence into a single [0,1] score
// (§4.11).
func leadConfidence(t *model.RawTrace, panel model.Panel) float64 {
	width := panel.Bounds.Width
	if width <= 0 {
		width = t.TraceWidth()
	}

	gapRatio := 0.0
	if width > 0 {
		gapRatio = float64(t.TotalGapWidth()) / float64(width)
	}
	if gapRatio > 0.5 {
		gapRatio = 0.5
	}

	coverage := 1.0
	if width > 0 {
		coverage = float64(len(t.XPixels)) / float64(width)
		if coverage > 1 {
			coverage = 1
		}
	}

	c := weightMeanConfidence*t.MeanConfidence +
		weightGapPenalty*(1-gapRatio) +
		weightCoverage*coverage +
		weightLabel*panel.LabelConfidence
	return clamp01(c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFlatLine(t *model.RawTrace) bool {
	if len(t.YPixels) < 10 {
		return false
	}
	mean := 0.0
	for _, y := range t.YPixels {
		mean += float64(y)
	}
	mean /= float64(len(t.YPixels))

	variance := 0.0
	for _, y := range t.YPixels {
		d := float64(y) - mean
		variance += d * d
	}
	variance /= float64(len(t.YPixels))
	stdDevPx := math.Sqrt(variance)

	return stdDevPx < flatLineStdDevPx
}

func isSaturated(t *model.RawTrace, panel model.Panel) bool {
	if len(t.YPixels) == 0 || panel.Bounds.Height == 0 {
		return false
	}
	top, bottom := panel.Bounds.Y, panel.Bounds.Bottom()-1
	clipped := 0
	for _, y := range t.YPixels {
		if y <= top+1 || y >= bottom-1 {
			clipped++
		}
	}
	return float64(clipped)/float64(len(t.YPixels)) > saturationFraction
}

// highFrequencyRatio is the fraction of consecutive sample-to-sample
// steps that reverse direction from the previous step: a proxy for
// jitter that a slow-moving waveform does not exhibit but scan noise
// does (§4.11 EXCESSIVE_NOISE).
func highFrequencyRatio(t *model.RawTrace) float64 {
	n := len(t.YPixels)
	if n < 3 {
		return 0
	}
	prevDelta := t.YPixels[1] - t.YPixels[0]
	flips := 0
	compared := 0
	for i := 2; i < n; i++ {
		delta := t.YPixels[i] - t.YPixels[i-1]
		if delta == 0 {
			continue
		}
		if prevDelta != 0 {
			compared++
			if (delta > 0) != (prevDelta > 0) {
				flips++
			}
		}
		prevDelta = delta
	}
	if compared == 0 {
		return 0
	}
	return float64(flips) / float64(compared)
}

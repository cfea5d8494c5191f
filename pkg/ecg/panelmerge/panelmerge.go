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

// Package panelmerge is the Panel Merger (§4.7): it trusts the rule-based
// Layout Detector's geometry over the oracle's (oracle bounds are a
// hint, not ground truth — §9 "oracle as untrusted input") and borrows
// only the oracle's lead labels and baseline hints, nearest panel by
// center distance.
// Panels the oracle never covers fall back to the standard layout map.
package panelmerge

import (
	"math"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/layout"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/oracle"
)

// maxLabelDistancePx bounds how far a region's center may be from an
// oracle panel hint's center and still borrow its label (§4.7).
const maxLabelDistancePx = 60

// positionInferredConfidenceCap is the ceiling on confidence for labels
// assigned purely from standard-layout position, never from any
// observed evidence (§4.7).
const positionInferredConfidenceCap = 0.7

// Merge converts layout regions into Panels, assigning each a lead
// label either by nearest oracle hint or by standard-layout position
// inference (§4.7).
func Merge(lr layout.Result, analysis *oracle.Analysis) []model.Panel {
	panels := make([]model.Panel, len(lr.Regions))
	for i, r := range lr.Regions {
		panels[i] = model.Panel{
			ID:            i,
			Bounds:        r.Bounds,
			BaselineY:     r.BaselineY,
			Row:           r.Row,
			Col:           r.Col,
			IsRhythmStrip: r.IsRhythmStrip,
		}
	}

	assignFromOracle(panels, analysis)
	assignFromStandardLayout(panels, lr.Format)

	return panels
}

// assignFromOracle copies each unassigned panel's lead from the nearest
// oracle panel hint within maxLabelDistancePx, if any (§4.7).
func assignFromOracle(panels []model.Panel, analysis *oracle.Analysis) {
	if analysis == nil || len(analysis.Panels) == 0 {
		return
	}
	for i := range panels {
		center := panels[i].Bounds.Center()
		bestIdx := -1
		bestDist := math.MaxFloat64
		for j, hint := range analysis.Panels {
			hc := hintCenter(hint)
			d := distance(center, hc)
			if d < bestDist {
				bestDist = d
				bestIdx = j
			}
		}
		if bestIdx < 0 || bestDist > maxLabelDistancePx {
			continue
		}
		hint := analysis.Panels[bestIdx]

		panels[i].OracleBaselineY = int(hint.BaselineY.F())
		panels[i].OracleBaselineKnown = true

		if hint.Lead == "" {
			continue
		}
		panels[i].Lead = hint.Lead
		panels[i].LeadSource = model.LeadSourceTextLabel
		panels[i].LabelConfidence = hint.Confidence.F()
	}
}

func hintCenter(hint oracle.PanelHint) geom.Point {
	b := hint.Bounds
	return geom.Point{
		X: int(b.X.F() + b.Width.F()/2),
		Y: int(b.Y.F() + b.Height.F()/2),
	}
}

func distance(a, b geom.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// assignFromStandardLayout fills in any panel still missing a lead
// label by its (row, col) position in the recognized standard formats,
// tagging the source position_inferred with a capped confidence (§4.7).
func assignFromStandardLayout(panels []model.Panel, format layout.Format) {
	for i := range panels {
		p := &panels[i]
		if p.Lead != "" || p.IsRhythmStrip {
			continue
		}

		lead, ok := standardLeadAt(format, p.Row, p.Col)
		if !ok {
			continue
		}
		p.Lead = lead
		p.LeadSource = model.LeadSourcePositionInferred
		p.LabelConfidence = positionInferredConfidenceCap
	}
}

func standardLeadAt(format layout.Format, row, col int) (string, bool) {
	switch format {
	case layout.Format12Lead:
		if row >= 0 && row < 3 && col >= 0 && col < 4 {
			return model.Format12Lead[row][col], true
		}
	case layout.Format15Lead:
		if row >= 0 && row < 3 && col >= 0 && col < 4 {
			return model.Format12Lead[row][col], true
		}
		if row == 3 && col >= 0 && col < 3 {
			return model.Format15LeadExtraRow[col], true
		}
	}
	return "", false
}

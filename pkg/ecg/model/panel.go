/*
Copyright 2018 The pdfcpu Authors.

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

package model

import "github.com/mechiko/ecgdigitizer/pkg/ecg/geom"

// Panel is a logical sub-region displaying one lead's waveform (§3 Panel).
type Panel struct {
	ID              int
	Lead            string // "" means unassigned (spec's null)
	LeadSource      LeadSource
	Bounds          geom.Bounds
	BaselineY       int
	Row, Col        int
	IsRhythmStrip   bool
	TimeStartS      float64
	TimeEndS        float64
	LabelConfidence float64

	// OracleBaselineY and OracleBaselineKnown carry the oracle's own
	// baseline estimate for this panel, if the hybrid merge matched one
	// (§4.7, §4.8 cascade's third rung).
	OracleBaselineY     int
	OracleBaselineKnown bool
}

// BaselineValid enforces the §3 invariant baseline_y in
// [bounds.y, bounds.y+bounds.height].
func (p Panel) BaselineValid() bool {
	return p.BaselineY >= p.Bounds.Y && p.BaselineY <= p.Bounds.Bottom()
}

// InStandard12Grid reports whether (row, col) falls inside a 3x4 layout,
// the §8 invariant 3 constraint for non-rhythm-strip panels.
func (p Panel) InStandard12Grid() bool {
	return p.Row >= 0 && p.Row < 3 && p.Col >= 0 && p.Col < 4
}

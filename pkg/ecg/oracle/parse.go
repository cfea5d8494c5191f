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

package oracle

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// maxPanelsPerAnalysis, maxTracePointsPerPanel and
// maxCriticalPointsPerPanel are fixed caps on the oversize arrays an
// untrusted oracle might emit (§9). The panel cap does not depend on the
// layout the oracle itself declares.
const (
	maxPanelsPerAnalysis = 30
	maxTracePointsPerPanel = 64
	maxCriticalPointsPerPanel = 32
)

// ParseAnalysis runs the §4.6 JSON repair pipeline and unmarshals the
// result into a defensively normalized Analysis. A parse failure that
// survives repair is a soft failure: callers should mark the oracle
// stage failed and continue with rule-based geometry (§4.6, §7).
func ParseAnalysis(rawResponse string) (*Analysis, error) {
	repaired := RepairJSON(rawResponse)

	var a Analysis
	if err := json.Unmarshal([]byte(repaired), &a); err != nil {
		return nil, errors.Wrap(err, "oracle.ParseAnalysis: unmarshal after repair")
	}

	normalize(&a)
	return &a, nil
}

func normalize(a *Analysis) {
	a.Grid.Confidence = FlexFloat(ClampConfidence(a.Grid.Confidence.F()))
	a.Calibration.Confidence = FlexFloat(ClampConfidence(a.Calibration.Confidence.F()))
	a.ImageQuality = FlexFloat(ClampConfidence(a.ImageQuality.F()))

	if len(a.Panels) > maxPanelsPerAnalysis {
		a.Panels = a.Panels[:maxPanelsPerAnalysis]
	}
	for i := range a.Panels {
		p := &a.Panels[i]
		p.Lead = NormalizeLeadName(p.Lead)
		p.Confidence = FlexFloat(ClampConfidence(p.Confidence.F()))
		if len(p.TracePoints) > maxTracePointsPerPanel {
			p.TracePoints = p.TracePoints[:maxTracePointsPerPanel]
		}
		if len(p.CriticalPoints) > maxCriticalPointsPerPanel {
			p.CriticalPoints = p.CriticalPoints[:maxCriticalPointsPerPanel]
		}
		for j := range p.CriticalPoints {
			if !ValidCriticalPointType(p.CriticalPoints[j].Type) {
				p.CriticalPoints[j].Type = "unknown"
			}
		}
	}
}

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

package panelmerge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/layout"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/oracle"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/panelmerge"
)

func twelveLeadLayout() layout.Result {
	var regions []layout.Region
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			regions = append(regions, layout.Region{
				Bounds: geom.NewBounds(c*100, r*100, 90, 90),
				Row:    r,
				Col:    c,
			})
		}
	}
	return layout.Result{Regions: regions, Rows: 3, Cols: 4, Format: layout.Format12Lead, Confidence: 0.8}
}

func TestMergeWithoutOracleFallsBackToStandardLayout(t *testing.T) {
	panels := panelmerge.Merge(twelveLeadLayout(), nil)
	require.Len(t, panels, 12)
	for _, p := range panels {
		expected := model.Format12Lead[p.Row][p.Col]
		require.Equal(t, expected, p.Lead)
		require.Equal(t, model.LeadSourcePositionInferred, p.LeadSource)
		require.LessOrEqual(t, p.LabelConfidence, 0.7)
	}
}

func TestMergeUsesOracleLabelWhenClose(t *testing.T) {
	lr := twelveLeadLayout()
	analysis := &oracle.Analysis{
		Panels: []oracle.PanelHint{
			{
				Bounds:     oracle.RawBounds{X: 5, Y: 5, Width: 90, Height: 90},
				Lead:       "II",
				Confidence: 0.95,
			},
		},
	}

	panels := panelmerge.Merge(lr, analysis)
	require.Equal(t, "II", panels[0].Lead)
	require.Equal(t, model.LeadSourceTextLabel, panels[0].LeadSource)
	require.InDelta(t, 0.95, panels[0].LabelConfidence, 1e-9)

	// Every other panel still falls back to its standard-layout position.
	require.Equal(t, "aVR", panels[1].Lead)
	require.Equal(t, model.LeadSourcePositionInferred, panels[1].LeadSource)
}

func TestMergeIgnoresDistantOracleHint(t *testing.T) {
	lr := twelveLeadLayout()
	analysis := &oracle.Analysis{
		Panels: []oracle.PanelHint{
			{
				Bounds:     oracle.RawBounds{X: 900, Y: 900, Width: 90, Height: 90},
				Lead:       "V6",
				Confidence: 0.9,
			},
		},
	}

	panels := panelmerge.Merge(lr, analysis)
	// The hint is far from every panel center; none should borrow its label.
	for _, p := range panels {
		require.NotEqual(t, model.LeadSourceTextLabel, p.LeadSource)
	}
}

func TestMergePreservesRhythmStripWithoutLabel(t *testing.T) {
	lr := layout.Result{
		Regions: []layout.Region{
			{Bounds: geom.NewBounds(0, 0, 1000, 80), IsRhythmStrip: true},
		},
		Format: layout.FormatRhythmOnly,
	}
	panels := panelmerge.Merge(lr, nil)
	require.Len(t, panels, 1)
	require.True(t, panels[0].IsRhythmStrip)
	require.Empty(t, panels[0].Lead)
}

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

package reconstruct_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/reconstruct"
)

func TestPixelToTimeAndVoltage(t *testing.T) {
	require.InDelta(t, 1.0, reconstruct.PixelToTime(100, 0, 100, 0), 1e-9)
	require.InDelta(t, 0.0, reconstruct.PixelToTime(100, 0, 0, 0), 1e-9)

	require.InDelta(t, 1000.0, reconstruct.PixelToVoltage(0, 100, 100), 1e-9)
	require.InDelta(t, 0.0, reconstruct.PixelToVoltage(100, 100, 0), 1e-9)
}

func TestResampleUniformHoldsSingleSample(t *testing.T) {
	samples := []reconstruct.Sample{{T: 0, V: 5}}
	out := reconstruct.ResampleUniform(samples, 10, 1, 0)
	require.Len(t, out, 10)
	for _, v := range out {
		require.Equal(t, 5.0, v)
	}
}

func TestResampleUniformInterpolatesLinearRamp(t *testing.T) {
	samples := []reconstruct.Sample{{T: 0, V: 0}, {T: 1, V: 10}}
	out := reconstruct.ResampleUniform(samples, 10, 1, 0)
	require.Len(t, out, 10)
	require.InDelta(t, 0, out[0], 0.01)
	require.InDelta(t, 5, out[5], 1.0)
}

func straightTrace(panelID int, lead string, baselineY, n int) *model.RawTrace {
	tr := &model.RawTrace{PanelID: panelID, Lead: lead, BaselineY: baselineY}
	for x := 0; x < n; x++ {
		tr.XPixels = append(tr.XPixels, x)
		tr.YPixels = append(tr.YPixels, baselineY-x/2)
		tr.Confidence = append(tr.Confidence, 0.9)
	}
	return tr
}

func TestReconstructDerivesLeadIII(t *testing.T) {
	panels := []model.Panel{
		{ID: 0, Lead: "I", Bounds: geom.NewBounds(0, 0, 100, 50)},
		{ID: 1, Lead: "II", Bounds: geom.NewBounds(0, 0, 100, 50)},
	}
	traces := []*model.RawTrace{
		straightTrace(0, "I", 25, 100),
		straightTrace(1, "II", 25, 100),
	}
	calib := model.DefaultCalibration()
	signal := reconstruct.Reconstruct(traces, panels, calib, 10, 500, 1)

	require.Contains(t, signal.Leads, "I")
	require.Contains(t, signal.Leads, "II")
	require.Contains(t, signal.Leads, "III")
	require.Contains(t, signal.Leads, "aVR")

	for i := range signal.Leads["III"] {
		expected := signal.Leads["II"][i] - signal.Leads["I"][i]
		require.InDelta(t, expected, signal.Leads["III"][i], 1e-9)
	}
}

func TestReconstructWithZeroPxPerMmReturnsEmptySignal(t *testing.T) {
	calib := model.DefaultCalibration()
	signal := reconstruct.Reconstruct(nil, nil, calib, 0, 500, 1)
	require.Empty(t, signal.Leads["I"])
}

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

package calibration_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/calibration"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

func TestDetectNoPulseOnBlankImage(t *testing.T) {
	img := pixel.NewBlank(400, 300, colorspace.White)
	_, _, found := calibration.Detect(img)
	require.False(t, found)
}

func TestDetectFindsRectangularPulse(t *testing.T) {
	img := pixel.NewBlank(400, 300, colorspace.White)
	// Two 100px-tall vertical strokes 20px apart, near the left edge,
	// tracing the left and right edges of a calibration pulse outline
	// the way a real scan's thin ink would, not a filled rectangle.
	for y := 100; y < 200; y++ {
		img.Set(20, y, colorspace.Black)
		img.Set(40, y, colorspace.Black)
	}
	pxPerMv, confidence, found := calibration.Detect(img)
	require.True(t, found)
	require.InDelta(t, 100, pxPerMv, 5)
	require.Greater(t, confidence, 0.0)
}

func TestEstimateFromAmplitude(t *testing.T) {
	pxPerMv, ok := calibration.EstimateFromAmplitude(100)
	require.True(t, ok)
	require.Greater(t, pxPerMv, 0.0)

	_, ok = calibration.EstimateFromAmplitude(0)
	require.False(t, ok)
}

func TestConsistencyCheck(t *testing.T) {
	// A 625px-wide panel at the assumed 25 mm/s, 2.5s-per-panel layout
	// implies 10 px/mm; a 100 px/mV pulse at 10 mm/mV gain implies the
	// same 10 px/mm, so the two should agree.
	panelPxPerMm, accepted := calibration.ConsistencyCheck(100, 10, 625)
	require.True(t, accepted)
	require.InDelta(t, 10, panelPxPerMm, 0.01)

	// A wildly different pulse height is consistent with neither
	// standard paper speed at this panel width.
	_, accepted = calibration.ConsistencyCheck(1000, 10, 625)
	require.False(t, accepted)
}

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

package baseline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/baseline"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

func TestDetectPrefersFlatSegmentForAnUnbrokenLine(t *testing.T) {
	img := pixel.NewBlank(120, 80, colorspace.White)
	bounds := geom.NewBounds(0, 0, 120, 80)
	for x := 0; x < 120; x++ {
		img.Set(x, 40, colorspace.Black)
	}

	result := baseline.Detect(img, bounds, colorspace.Black, 0, false)
	require.Equal(t, 40, result.Y)
	require.Equal(t, baseline.MethodFlatSegment, result.Method)
	require.Greater(t, result.Confidence, 0.6)
}

func TestDetectFallsBackToHistogramWhenSignalIsNotAContiguousLine(t *testing.T) {
	img := pixel.NewBlank(120, 80, colorspace.White)
	bounds := geom.NewBounds(0, 0, 120, 80)
	// Isolated marks, every 4th column, all at the same row: no two are
	// close enough together for the flat-segment slope window to see a
	// run, but the histogram mode still lands squarely on y=40.
	for x := 0; x < 120; x += 4 {
		img.Set(x, 40, colorspace.Black)
	}

	result := baseline.Detect(img, bounds, colorspace.Black, 0, false)
	require.Equal(t, 40, result.Y)
	require.Equal(t, baseline.MethodHistogram, result.Method)
	require.Greater(t, result.Confidence, 0.5)
}

func TestDetectUsesOracleBaselineWhenNeitherMethodIsConfident(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	bounds := geom.NewBounds(0, 0, 100, 60)

	result := baseline.Detect(img, bounds, colorspace.Black, 30, true)
	require.Equal(t, 30, result.Y)
	require.Equal(t, baseline.MethodOracleProvided, result.Method)
}

func TestDetectIgnoresOracleBaselineOutsideMiddleBand(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	bounds := geom.NewBounds(0, 0, 100, 60)

	result := baseline.Detect(img, bounds, colorspace.Black, 5, true)
	require.Equal(t, baseline.MethodPanelCenter, result.Method)
	require.Equal(t, bounds.Center().Y, result.Y)
}

func TestDetectFallsBackToPanelCenterWhenBlank(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	bounds := geom.NewBounds(0, 0, 100, 60)

	result := baseline.Detect(img, bounds, colorspace.Black, 0, false)
	require.Equal(t, baseline.MethodPanelCenter, result.Method)
	require.Equal(t, bounds.Center().Y, result.Y)
	require.InDelta(t, 0.3, result.Confidence, 1e-9)
}

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

package grid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/grid"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

var pink = colorspace.RGB{R: 255, G: 192, B: 203}

func TestDetectNoGridOnBlankImage(t *testing.T) {
	img := pixel.NewBlank(200, 150, colorspace.White)
	got := grid.Detect(img)
	require.False(t, got.Detected)
}

func TestDetectFindsRegularSpacing(t *testing.T) {
	img := pixel.NewBlank(600, 200, colorspace.White)
	for x := 0; x < 600; x += 10 {
		for y := 0; y < 200; y++ {
			img.Set(x, y, pink)
		}
	}

	got := grid.Detect(img)
	require.True(t, got.Detected)
	require.InDelta(t, 10, got.PxPerMm, 0.5)
	require.True(t, got.Valid())
	require.Greater(t, got.Confidence, 0.0)
}

func TestEstimateFromPageWidth(t *testing.T) {
	got := grid.EstimateFromPageWidth(2794)
	require.InDelta(t, 10, got, 0.01)
}

func TestEstimateFromPanelWidth(t *testing.T) {
	got := grid.EstimateFromPanelWidth(625, 2.5, 25)
	require.InDelta(t, 10, got, 0.01)

	require.Equal(t, 0.0, grid.EstimateFromPanelWidth(100, 0, 25))
}

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

package trace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/geom"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/trace"
)

func panelWithSlope(img *pixel.Image, x0, x1, yStart, yEnd int) {
	n := x1 - x0
	for i := 0; i <= n; i++ {
		x := x0 + i
		y := yStart + (yEnd-yStart)*i/n
		img.Set(x, y, colorspace.Black)
	}
}

func defaultOptions() trace.Options {
	return trace.Options{
		WaveformColor:      colorspace.Black,
		MaxInterpolateGap:  10,
		MinPointConfidence: 0.1,
		SmoothingWindow:    3,
		RejectArtifacts:    true,
	}
}

func TestTracePanelFollowsASlopedLine(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	panelWithSlope(img, 0, 99, 10, 50)

	p := trace.Panel{ID: 0, Lead: "II", Bounds: geom.NewBounds(0, 0, 100, 60), BaselineY: 30}
	got := trace.TracePanel(img, p, defaultOptions())

	require.True(t, got.Usable())
	require.InDelta(t, 10, got.YPixels[0], 3)
	require.InDelta(t, 50, got.YPixels[len(got.YPixels)-1], 3)
}

func TestTracePanelOnBlankPanelIsUnusable(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	p := trace.Panel{ID: 0, Lead: "II", Bounds: geom.NewBounds(0, 0, 100, 60), BaselineY: 30}
	got := trace.TracePanel(img, p, defaultOptions())
	require.False(t, got.Usable())
}

func TestTraceAllRunsEveryPanelConcurrently(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	panelWithSlope(img, 0, 99, 10, 50)

	panels := []trace.Panel{
		{ID: 0, Lead: "I", Bounds: geom.NewBounds(0, 0, 100, 60), BaselineY: 30},
		{ID: 1, Lead: "II", Bounds: geom.NewBounds(0, 0, 100, 60), BaselineY: 30},
	}
	results, err := trace.TraceAll(context.Background(), img, panels, defaultOptions(), 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.True(t, r.Usable())
	}
}

func TestTraceAllRespectsCancellation(t *testing.T) {
	img := pixel.NewBlank(100, 60, colorspace.White)
	panels := []trace.Panel{
		{ID: 0, Lead: "I", Bounds: geom.NewBounds(0, 0, 100, 60), BaselineY: 30},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := trace.TraceAll(ctx, img, panels, defaultOptions(), 1)
	require.Error(t, err)
}

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

package orient_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/orient"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

func markedImage() *pixel.Image {
	img := pixel.NewBlank(4, 3, colorspace.White)
	img.Set(0, 0, colorspace.Black) // top-left corner marker
	return img
}

func TestApplyExifOrientationNormalIsNoOp(t *testing.T) {
	img := markedImage()
	got := orient.ApplyExifOrientation(img, orient.OrientationNormal)
	require.Equal(t, colorspace.Black, got.At(0, 0))
}

func TestApplyExifOrientationFlipHorizontal(t *testing.T) {
	img := markedImage()
	got := orient.ApplyExifOrientation(img, orient.OrientationFlipHorizontal)
	require.Equal(t, colorspace.Black, got.At(3, 0))
	require.Equal(t, colorspace.White, got.At(0, 0))
}

func TestApplyExifOrientationRotate180(t *testing.T) {
	img := markedImage()
	got := orient.ApplyExifOrientation(img, orient.OrientationRotate180)
	require.Equal(t, colorspace.Black, got.At(3, 2))
}

func TestApplyExifOrientationRotate90CWSwapsDimensions(t *testing.T) {
	img := markedImage()
	got := orient.ApplyExifOrientation(img, orient.OrientationRotate90CW)
	require.Equal(t, 3, got.Width())
	require.Equal(t, 4, got.Height())
	require.Equal(t, colorspace.Black, got.At(2, 0))
}

func TestDetectInversionOnNormalImage(t *testing.T) {
	img := pixel.NewBlank(50, 50, colorspace.White)
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.Set(x, y, colorspace.Black)
		}
	}
	result := orient.Detect(img)
	require.False(t, result.Inverted)
}

func TestDetectInversionOnDarkBackground(t *testing.T) {
	img := pixel.NewBlank(50, 50, colorspace.Black)
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.Set(x, y, colorspace.White)
		}
	}
	result := orient.Detect(img)
	require.True(t, result.Inverted)
}

func TestInvertRoundTrips(t *testing.T) {
	img := markedImage()
	inverted := orient.Invert(img)
	require.Equal(t, colorspace.White, inverted.At(0, 0))
	require.Equal(t, colorspace.Black, inverted.At(1, 0))

	back := orient.Invert(inverted)
	require.Equal(t, img.At(0, 0), back.At(0, 0))
	require.Equal(t, img.At(1, 0), back.At(1, 0))
}

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

func TestDownscaleToWorkingResolutionLeavesSmallImagesAlone(t *testing.T) {
	img := pixel.NewBlank(400, 300, colorspace.White)
	result := orient.DownscaleToWorkingResolution(img, 2000)
	require.Same(t, img, result.Image)
	require.Equal(t, 1.0, result.Scale)
}

func TestDownscaleToWorkingResolutionShrinksOversizedImages(t *testing.T) {
	img := pixel.NewBlank(4000, 2000, colorspace.White)
	result := orient.DownscaleToWorkingResolution(img, 2000)
	require.Less(t, result.Scale, 1.0)
	require.Equal(t, 2000, result.Image.Width())
	require.Equal(t, 1000, result.Image.Height())
}

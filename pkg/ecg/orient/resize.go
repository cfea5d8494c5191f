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

package orient

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// ResizeResult reports the resized image and the scale factor applied
// (SPEC_FULL §4.2.1). The digitizer does not map coordinates back, so
// Result geometry is in working-resolution pixels.
type ResizeResult struct {
	Image *pixel.Image
	Scale float64 // workingPx = originalPx * Scale
}

// DownscaleToWorkingResolution shrinks img so its longest edge is at
// most maxDim, using a Catmull-Rom scaler (SPEC_FULL §4.2.1). Images
// already within bounds are returned unchanged with Scale = 1.
func DownscaleToWorkingResolution(img *pixel.Image, maxDim int) ResizeResult {
	w, h := img.Width(), img.Height()
	longEdge := w
	if h > longEdge {
		longEdge = h
	}
	if maxDim <= 0 || longEdge <= maxDim {
		return ResizeResult{Image: img, Scale: 1}
	}

	scale := float64(maxDim) / float64(longEdge)
	newW := int(float64(w)*scale + 0.5)
	newH := int(float64(h)*scale + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	src := toGoImage(img)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return ResizeResult{Image: pixel.New(newW, newH, dst.Pix), Scale: scale}
}

func toGoImage(img *pixel.Image) *image.RGBA {
	gi := image.NewRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	copy(gi.Pix, img.Pix())
	return gi
}

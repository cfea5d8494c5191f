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

// Package orient is the Orientation & Inversion Normalizer (§4.2): it
// applies EXIF rotation, detects and corrects white-on-black displays,
// and downscales oversized inputs before any detection stage runs.
package orient

import (
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// ExifOrientation is the already-extracted orientation tag (values 1-8).
// Parsing it out of raw JPEG/TIFF metadata bytes is the caller's
// responsibility (§1 "out of scope: image decoding"); the normalizer's
// job is applying it.
type ExifOrientation int

const (
	OrientationNormal           ExifOrientation = 1
	OrientationFlipHorizontal   ExifOrientation = 2
	OrientationRotate180        ExifOrientation = 3
	OrientationFlipVertical     ExifOrientation = 4
	OrientationTranspose        ExifOrientation = 5
	OrientationRotate90CW       ExifOrientation = 6
	OrientationTransverse       ExifOrientation = 7
	OrientationRotate270CW      ExifOrientation = 8
)

// ApplyExifOrientation returns a new image with o's symmetry operation
// applied. Orientations 5-8 swap width and height (§4.2).
func ApplyExifOrientation(img *pixel.Image, o ExifOrientation) *pixel.Image {
	switch o {
	case OrientationFlipHorizontal:
		return flipH(img)
	case OrientationRotate180:
		return rotate180(img)
	case OrientationFlipVertical:
		return flipV(img)
	case OrientationTranspose:
		return transpose(img)
	case OrientationRotate90CW:
		return rotate90CW(img)
	case OrientationTransverse:
		return transverse(img)
	case OrientationRotate270CW:
		return rotate270CW(img)
	default:
		return img
	}
}

func flipH(img *pixel.Image) *pixel.Image {
	w, h := img.Width(), img.Height()
	out := pixel.NewBlank(w, h, img.At(0, 0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(w-1-x, y, img.At(x, y))
		}
	}
	return out
}

func flipV(img *pixel.Image) *pixel.Image {
	w, h := img.Width(), img.Height()
	out := pixel.NewBlank(w, h, img.At(0, 0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, h-1-y, img.At(x, y))
		}
	}
	return out
}

func rotate180(img *pixel.Image) *pixel.Image {
	return flipV(flipH(img))
}

// rotate90CW rotates clockwise, swapping width/height.
func rotate90CW(img *pixel.Image) *pixel.Image {
	w, h := img.Width(), img.Height()
	out := pixel.NewBlank(h, w, img.At(0, 0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(h-1-y, x, img.At(x, y))
		}
	}
	return out
}

func rotate270CW(img *pixel.Image) *pixel.Image {
	w, h := img.Width(), img.Height()
	out := pixel.NewBlank(h, w, img.At(0, 0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(y, w-1-x, img.At(x, y))
		}
	}
	return out
}

// transpose mirrors across the top-left/bottom-right diagonal.
func transpose(img *pixel.Image) *pixel.Image {
	w, h := img.Width(), img.Height()
	out := pixel.NewBlank(h, w, img.At(0, 0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(y, x, img.At(x, y))
		}
	}
	return out
}

// transverse mirrors across the anti-diagonal.
func transverse(img *pixel.Image) *pixel.Image {
	return rotate180(transpose(img))
}

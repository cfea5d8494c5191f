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

package pixel

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "github.com/deepteams/webp"
)

// Decode reads a PNG, JPEG, or WebP scan into an Image (§4.12 loading
// stage) — a phone capture of a printed strip routinely arrives as any
// of the three. The decoded image is always converted to RGBA
// regardless of its source color model.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return New(b.Dx(), b.Dy(), rgba.Pix), nil
}

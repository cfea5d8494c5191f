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
	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// InversionVote is one test's opinion on whether the background is dark
// (§4.2: three independent tests, each emitting (inverted?, confidence)).
type InversionVote struct {
	Inverted   bool
	Confidence float64
}

// InversionResult is the combined decision (§4.2).
type InversionResult struct {
	Votes    [3]InversionVote
	Inverted bool
	Confidence float64
}

const edgeGradientThreshold = 50

// histogramVote tests the dark/light pixel ratio over the whole image.
func histogramVote(img *pixel.Image) InversionVote {
	dark, light := 0, 0
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.At(x, y).Brightness() < 128 {
				dark++
			} else {
				light++
			}
		}
	}
	total := dark + light
	if total == 0 {
		return InversionVote{}
	}
	darkRatio := float64(dark) / float64(total)
	if darkRatio > 0.5 {
		return InversionVote{Inverted: true, Confidence: darkRatio}
	}
	return InversionVote{Inverted: false, Confidence: 1 - darkRatio}
}

// edgeVote compares mean brightness at horizontal-gradient edges against
// mean brightness elsewhere. A dark background behind bright grid/ink
// edges shows a brighter mean at edges than off them.
func edgeVote(img *pixel.Image) InversionVote {
	w, h := img.Width(), img.Height()
	var edgeSum, edgeN, otherSum, otherN float64

	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			g := img.At(x, y).Brightness() - img.At(x-1, y).Brightness()
			if g < 0 {
				g = -g
			}
			b := img.At(x, y).Brightness()
			if g > edgeGradientThreshold {
				edgeSum += b
				edgeN++
			} else {
				otherSum += b
				otherN++
			}
		}
	}
	if edgeN == 0 || otherN == 0 {
		return InversionVote{}
	}
	edgeMean := edgeSum / edgeN
	otherMean := otherSum / otherN
	if edgeMean > otherMean {
		conf := minF((edgeMean-otherMean)/128, 1)
		return InversionVote{Inverted: true, Confidence: conf}
	}
	conf := minF((otherMean-edgeMean)/128, 1)
	return InversionVote{Inverted: false, Confidence: conf}
}

// periodicityVote votes on the brightness of the background color
// sampled from the four corners: dark corners vote inverted, bright
// corners vote normal. It does not measure grid line spacing.
func periodicityVote(img *pixel.Image) InversionVote {
	bg := img.BackgroundColor()
	if bg.Brightness() < 128 {
		conf := 1 - bg.Brightness()/255
		return InversionVote{Inverted: true, Confidence: conf}
	}
	conf := bg.Brightness() / 255
	return InversionVote{Inverted: false, Confidence: conf}
}

// Detect runs the three independent tests and combines them by majority
// vote (§4.2): inverted wins if >= 2 votes say so and the combined
// (mean) confidence exceeds 0.6.
func Detect(img *pixel.Image) InversionResult {
	votes := [3]InversionVote{histogramVote(img), edgeVote(img), periodicityVote(img)}

	invertedVotes := 0
	var sumConf float64
	for _, v := range votes {
		if v.Inverted {
			invertedVotes++
		}
		sumConf += v.Confidence
	}
	combined := sumConf / 3

	return InversionResult{
		Votes:      votes,
		Inverted:   invertedVotes >= 2 && combined > 0.6,
		Confidence: combined,
	}
}

// Invert flips every pixel (r,g,b) := (255-r,255-g,255-b), preserving
// alpha (pixel.Image has none, so this is a pure color remap) (§4.2).
func Invert(img *pixel.Image) *pixel.Image {
	w, h := img.Width(), img.Height()
	out := pixel.NewBlank(w, h, colorspace.White)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, img.At(x, y).Inverted())
		}
	}
	return out
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

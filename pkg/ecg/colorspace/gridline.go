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

package colorspace

// IsChromaticGridLine reports whether c matches one of the four printed
// ECG grid-line families (pink, blue, green, orange) per the dominance
// ratios in §4.3.
func IsChromaticGridLine(c RGB) bool {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)

	pink := r > 150 && r > 1.05*g && r > 1.05*b
	blue := b > 150 && b > 1.05*r && b > 1.05*g
	green := g > 150 && g > 1.05*r && g > 1.05*b
	orange := r > 150 && g > 110 && b < 110 && r > 1.05*b

	return pink || blue || green || orange
}

// IsLowSaturationGridLine reports whether c is a plausible gray/thin grid
// line: low saturation, and a brightness that differs from the background
// by more than 15 but still sits in a mid-gray band (not black, not
// background-white).
func IsLowSaturationGridLine(c, background RGB) bool {
	if c.Saturation() >= 0.15 {
		return false
	}
	diff := c.Brightness() - background.Brightness()
	if diff < 0 {
		diff = -diff
	}
	if diff <= 15 {
		return false
	}
	return c.Brightness() > 80 && c.Brightness() < 230
}

// IsGridLine implements the full grid-line predicate of §4.3: rejects
// waveform ink and near-background pixels, then accepts either a
// chromatic grid-line color or a low-saturation gray one.
func IsGridLine(c, background RGB) bool {
	if c.Brightness() < 60 {
		return false
	}
	if c.L1Distance(background) < 20 {
		return false
	}
	return IsChromaticGridLine(c) || IsLowSaturationGridLine(c, background)
}

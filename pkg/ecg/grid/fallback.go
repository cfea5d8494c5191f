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

package grid

const (
	// standardPageWidthMm is the 11-inch page width fallback (§4.3).
	standardPageWidthMm = 279.4
)

// EstimateFromPageWidth assumes the image spans a standard 11-inch-wide
// page (§4.3 grid-detection fallback).
func EstimateFromPageWidth(imageWidthPx int) float64 {
	return float64(imageWidthPx) / standardPageWidthMm
}

// EstimateFromPanelWidth assumes each panel shows durationSeconds of
// signal at paperSpeedMmPerS (§4.4 consistency check uses this same
// assumption for 2.5s panels at 25 or 50 mm/s).
func EstimateFromPanelWidth(panelWidthPx int, durationSeconds, paperSpeedMmPerS float64) float64 {
	mm := durationSeconds * paperSpeedMmPerS
	if mm <= 0 {
		return 0
	}
	return float64(panelWidthPx) / mm
}

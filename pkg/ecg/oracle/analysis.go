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

// Package oracle is the Label Oracle Adapter (§4.6): it calls an
// external large-vision-model endpoint, defensively parses its response,
// normalizes it, and caches it.
package oracle

// Analysis is the normalized form of the oracle's wire response (§6
// Oracle wire contract): grid, layout, calibration, panels,
// imageQuality, notes. Every numeric field is FlexFloat since the
// oracle is untrusted input that may quote numbers as strings (§4.6,
// §9).
type Analysis struct {
	Grid         GridHint        `json:"grid"`
	Layout       LayoutHint      `json:"layout"`
	Calibration  CalibrationHint `json:"calibration"`
	Panels       []PanelHint     `json:"panels"`
	ImageQuality FlexFloat       `json:"imageQuality"`
	Notes        string          `json:"notes"`
}

// GridHint is the oracle's best guess at grid geometry.
type GridHint struct {
	PxPerMm    FlexFloat `json:"pxPerMm"`
	Confidence FlexFloat `json:"confidence"`
}

// LayoutHint is the oracle's best guess at panel layout shape.
type LayoutHint struct {
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Format string `json:"format"`
}

// CalibrationHint is the oracle's best guess at gain/paper speed.
type CalibrationHint struct {
	GainMmPerMv      FlexFloat `json:"gainMmPerMv"`
	PaperSpeedMmPerS FlexFloat `json:"paperSpeedMmPerS"`
	Confidence       FlexFloat `json:"confidence"`
}

// TracePoint is one of the optional 41-point relative trace samples
// (§6): xPercent in [0,100], yPixel absolute.
type TracePoint struct {
	XPercent FlexFloat `json:"xPercent"`
	YPixel   FlexFloat `json:"yPixel"`
}

// CriticalPointType enumerates the recognized critical-point kinds.
type CriticalPointType string

const (
	CriticalPointR CriticalPointType = "R"
	CriticalPointS CriticalPointType = "S"
	CriticalPointP CriticalPointType = "P"
	CriticalPointT CriticalPointType = "T"
)

// CriticalPoint is one oracle-identified R/S/P/T landmark (§6).
type CriticalPoint struct {
	Type     CriticalPointType `json:"type"`
	XPercent FlexFloat         `json:"xPercent"`
	YPixel   FlexFloat         `json:"yPixel"`
}

// RawBounds is a wire-format rectangle, accepted loosely (§4.6, §9
// "oracle as untrusted input").
type RawBounds struct {
	X      FlexFloat `json:"x"`
	Y      FlexFloat `json:"y"`
	Width  FlexFloat `json:"width"`
	Height FlexFloat `json:"height"`
}

// PanelHint is the oracle's description of one panel: bounds, baseline,
// label, and optionally a relative trace and critical points (§6).
type PanelHint struct {
	Bounds         RawBounds       `json:"bounds"`
	Lead           string          `json:"lead"`
	Confidence     FlexFloat       `json:"confidence"`
	BaselineY      FlexFloat       `json:"baselineY"`
	TracePoints    []TracePoint    `json:"tracePoints"`
	CriticalPoints []CriticalPoint `json:"criticalPoints"`
}

// ValidCriticalPointType reports whether t is one of the closed set
// {R,S,P,T}; an unrecognized value maps to "unknown" per §9.
func ValidCriticalPointType(t CriticalPointType) bool {
	switch t {
	case CriticalPointR, CriticalPointS, CriticalPointP, CriticalPointT:
		return true
	}
	return false
}

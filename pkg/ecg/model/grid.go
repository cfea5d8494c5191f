/*
Copyright 2018 The pdfcpu Authors.

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

package model

import "github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"

// GridInfo is the output of the Grid Geometry Detector (§3, §4.3).
type GridInfo struct {
	Detected        bool
	PxPerMm         float64
	SmallBoxPx      float64
	LargeBoxPx      float64
	ThinLineColor   colorspace.RGB
	ThickLineColor  colorspace.RGB
	BackgroundColor colorspace.RGB
	RotationRadians float64
	Confidence      float64
}

// Valid enforces the §3 invariant: if Detected, PxPerMm must be a
// realistic scan value.
func (g GridInfo) Valid() bool {
	if !g.Detected {
		return true
	}
	return g.PxPerMm >= 2 && g.PxPerMm <= 30
}

// CalibrationSource records how a calibration scalar (gain or paper
// speed) was determined (§3 Calibration).
type CalibrationSource string

const (
	CalSourcePulse           CalibrationSource = "pulse"
	CalSourceTextLabel       CalibrationSource = "text_label"
	CalSourceStandardAssumed CalibrationSource = "standard_assumed"
	CalSourceUserInput       CalibrationSource = "user_input"
)

// Calibration is the combined gain/paper-speed estimate (§3 Calibration).
type Calibration struct {
	GainMmPerMv     float64 // default 10
	PaperSpeedMmPerS float64 // default 25
	GainSource      CalibrationSource
	SpeedSource     CalibrationSource
	Confidence      float64
}

// DefaultCalibration returns the standard-assumed 10mm/mV, 25mm/s pair.
func DefaultCalibration() Calibration {
	return Calibration{
		GainMmPerMv:      10,
		PaperSpeedMmPerS: 25,
		GainSource:       CalSourceStandardAssumed,
		SpeedSource:      CalSourceStandardAssumed,
		Confidence:       0.3,
	}
}

// PxPerMv is px_per_mm * gain (§3 Calibration invariant).
func (c Calibration) PxPerMv(pxPerMm float64) float64 {
	return pxPerMm * c.GainMmPerMv
}

// PxPerSecond is px_per_mm * paper_speed (§3 Calibration invariant).
func (c Calibration) PxPerSecond(pxPerMm float64) float64 {
	return pxPerMm * c.PaperSpeedMmPerS
}

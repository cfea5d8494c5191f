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

// Package synth renders synthetic ECG scans from known samples, giving
// the round-trip tests in pkg/ecg/digitize a reference image whose
// ground-truth signal is known exactly (§8 round-trips, scenarios
// S1-S3, S6).
package synth

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
)

// Options configures a synthetic 12-lead render.
type Options struct {
	Width, Height int
	PxPerMm       float64 // grid spacing; 0 defaults to 10
	SampleRate    float64 // 0 defaults to 500
	DurationS     float64 // 0 defaults to 2.5

	GridColor       colorspace.RGB // 0 value defaults to pink
	WaveformColor   colorspace.RGB // 0 value defaults to black
	BackgroundColor colorspace.RGB // 0 value defaults to white

	IncludeCalibrationPulse bool
	Inverted                bool // render with every RGB channel inverted (§8 invariant 5, S2)
}

var defaultGridColor = colorspace.RGB{R: 255, G: 192, B: 203}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 1200
	}
	if o.Height == 0 {
		o.Height = 900
	}
	if o.PxPerMm == 0 {
		o.PxPerMm = 10
	}
	if o.SampleRate == 0 {
		o.SampleRate = 500
	}
	if o.DurationS == 0 {
		o.DurationS = 2.5
	}
	if o.GridColor == (colorspace.RGB{}) {
		o.GridColor = defaultGridColor
	}
	if o.WaveformColor == (colorspace.RGB{}) {
		o.WaveformColor = colorspace.Black
	}
	if o.BackgroundColor == (colorspace.RGB{}) {
		o.BackgroundColor = colorspace.White
	}
	return o
}

// Render draws a synthetic standard 12-lead tracing (3 rows x 4 cols)
// and returns both the image and the exact per-lead samples it was
// drawn from, so a caller can compare against a digitized Result
// without any measurement error of its own (§8 S1, S2, S6).
func Render(opt Options) (*pixel.Image, *model.Signal) {
	opt = opt.withDefaults()

	rgba := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.Src.Draw(rgba, rgba.Bounds(), image.NewUniform(toGoColor(opt.BackgroundColor)), image.Point{})

	drawGrid(rgba, opt)

	signal := model.NewSignal(opt.SampleRate, opt.DurationS)
	margin := int(opt.PxPerMm * 4)
	const rows, cols = 3, 4
	panelW := (opt.Width - 2*margin) / cols
	panelH := (opt.Height - 2*margin) / rows
	// gutter keeps neighboring panels' ink from touching, so the layout
	// detector's block merging (§4.5) sees 12 distinct regions instead
	// of one run per row. It must clear the detector's block size (up
	// to 50px for a typical scan), not just look visually separated.
	gutter := int(opt.PxPerMm * 6)
	if gutter < 55 {
		gutter = 55
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lead := model.Format12Lead[r][c]
			x0 := margin + c*panelW
			y0 := margin + r*panelH
			baselineY := y0 + panelH/2

			samples := syntheticLead(lead, opt.SampleRate, opt.DurationS)
			signal.Leads[lead] = samples
			drawWaveform(rgba, x0, panelW-gutter, baselineY, samples, opt)

			if opt.IncludeCalibrationPulse && c == 0 {
				drawCalibrationPulse(rgba, x0+4, baselineY, opt)
			}
		}
	}

	if opt.Inverted {
		invertInPlace(rgba)
	}

	return pixel.New(opt.Width, opt.Height, rgba.Pix), signal
}

// drawGrid fills a thin line every pxPerMm and a thick line every fifth
// one, matching the spacing the grid detector (§4.3) looks for.
func drawGrid(rgba *image.RGBA, opt Options) {
	thin := image.NewUniform(toGoColor(opt.GridColor))
	step := opt.PxPerMm
	if step < 1 {
		step = 1
	}
	i := 0
	for x := 0.0; x < float64(opt.Width); x += step {
		w := 1
		if i%5 == 0 {
			w = 2
		}
		rect := image.Rect(int(x), 0, int(x)+w, opt.Height)
		draw.Src.Draw(rgba, rect, thin, image.Point{})
		i++
	}
	i = 0
	for y := 0.0; y < float64(opt.Height); y += step {
		h := 1
		if i%5 == 0 {
			h = 2
		}
		rect := image.Rect(0, int(y), opt.Width, int(y)+h)
		draw.Src.Draw(rgba, rect, thin, image.Point{})
		i++
	}
}

// syntheticLead generates a plausible per-lead waveform: a repeating
// sinusoidal P/T complex with a sharp QRS spike, scaled per lead so
// Einthoven's and Goldberger's relations (§4.10) hold on the ground
// truth the way they would on a real 12-lead capture.
func syntheticLead(lead string, sampleRate, durationS float64) []float64 {
	n := int(durationS*sampleRate + 0.5)
	base := make([]float64, n)
	const heartRateHz = 1.2
	for i := range base {
		t := float64(i) / sampleRate
		phase := t * heartRateHz * 2 * math.Pi
		v := 0.15*math.Sin(phase) + 0.08*math.Sin(2*phase)
		frac := math.Mod(t*heartRateHz, 1)
		if frac < 0.04 {
			v += 1.0 * math.Sin(frac/0.04*math.Pi)
		}
		base[i] = v
	}

	gain, ok := leadGain[lead]
	if !ok {
		gain = 1.0
	}
	out := make([]float64, n)
	for i, v := range base {
		out[i] = v * gain
	}
	return out
}

// leadGain scales the shared base waveform per lead so the derived
// limb leads (III = II - I, aVR = -(I+II)/2, ...) are consistent with
// the directly-drawn ones, the way a real vector-derived 12-lead
// capture is (§4.10).
var leadGain = map[string]float64{
	"I": 1.0, "II": 1.3, "III": 0.3,
	"aVR": -1.15, "aVL": 0.35, "aVF": 0.8,
	"V1": -0.4, "V2": -0.1, "V3": 0.6,
	"V4": 1.1, "V5": 1.3, "V6": 1.0,
	"V3R": -0.3, "V4R": -0.2, "V7": 0.9,
}

// drawWaveform plots samples as a continuous line centered at baselineY,
// pxPerMv = pxPerMm * defaultGainMmPerMv (§3 Calibration) and
// pxPerSecond = pxPerMm * defaultPaperSpeedMmPerS.
func drawWaveform(rgba *image.RGBA, x0, panelW, baselineY int, samples []float64, opt Options) {
	pxPerMv := opt.PxPerMm * 10
	pxPerSecond := opt.PxPerMm * 25
	ink := image.NewUniform(toGoColor(opt.WaveformColor))

	prevX, prevY := x0, baselineY
	for i, v := range samples {
		t := float64(i) / opt.SampleRate
		x := x0 + int(t*pxPerSecond+0.5)
		if x-x0 >= panelW {
			break
		}
		y := baselineY - int(v*pxPerMv+0.5)
		drawLine(rgba, prevX, prevY, x, y, ink)
		prevX, prevY = x, y
	}
}

// drawCalibrationPulse draws a 1mV-tall rectangular pulse, matching the
// shape the pulse detector (§4.4) scans the leftmost 15% of the image
// for.
func drawCalibrationPulse(rgba *image.RGBA, x, baselineY int, opt Options) {
	heightPx := int(opt.PxPerMm * 10) // 1 mV at the default 10 mm/mV gain
	width := 6
	ink := image.NewUniform(toGoColor(opt.WaveformColor))
	left := image.Rect(x, baselineY-heightPx, x+1, baselineY+1)
	right := image.Rect(x+width, baselineY-heightPx, x+width+1, baselineY+1)
	top := image.Rect(x, baselineY-heightPx, x+width+1, baselineY-heightPx+1)
	draw.Src.Draw(rgba, left, ink, image.Point{})
	draw.Src.Draw(rgba, right, ink, image.Point{})
	draw.Src.Draw(rgba, top, ink, image.Point{})
}

// drawLine rasterizes a thin segment with a simple Bresenham walk; the
// waveform tracer only needs a line a few pixels thick to find, not an
// antialiased curve.
func drawLine(rgba *image.RGBA, x0, y0, x1, y1 int, c image.Image) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setPixel(rgba, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setPixel(rgba *image.RGBA, x, y int, c image.Image) {
	b := rgba.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	draw.Src.Draw(rgba, image.Rect(x, y, x+1, y+1), c, image.Point{})
}

func invertInPlace(rgba *image.RGBA) {
	for i := 0; i+3 < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 255 - rgba.Pix[i]
		rgba.Pix[i+1] = 255 - rgba.Pix[i+1]
		rgba.Pix[i+2] = 255 - rgba.Pix[i+2]
	}
}

func toGoColor(c colorspace.RGB) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

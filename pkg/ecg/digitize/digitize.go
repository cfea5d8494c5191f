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

// Package digitize is the Orchestrator (§4.12): it drives every stage of
// the pipeline in order, records a StageLog entry for each transition,
// and decides whether the run is an overall success.
package digitize

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/baseline"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/calibration"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/grid"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/layout"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/oracle"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/orient"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/panelmerge"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/quality"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/reconstruct"
	"github.com/mechiko/ecgdigitizer/pkg/ecg/trace"
	"github.com/mechiko/ecgdigitizer/pkg/log"
	"github.com/mechiko/ecgdigitizer/pkg/log/zaplog"
)

const (
	stageLoading     = "loading"
	stageOrientation = "orientation_inversion"
	stageOracle      = "oracle_analysis"
	stageRuleBased   = "rule_based_fallback"
	stageHybrid      = "hybrid_merge"
	stageCalibration = "calibration"
	stageWaveform    = "waveform_extraction"
	stageReconstruct = "reconstruction"
	stageQuality     = "quality_assessment"
)

// Digitizer runs the full pipeline. ZapLogger is optional: when set, one
// digitizer.stage event is emitted per StageLog entry (§4.12).
type Digitizer struct {
	Config    *model.Configuration
	Oracle    *oracle.Adapter // nil disables oracle_analysis entirely
	ZapLogger *zap.Logger
}

// New returns a Digitizer. adapter may be nil to run rule-based only.
func New(cfg *model.Configuration, adapter *oracle.Adapter, zl *zap.Logger) *Digitizer {
	return &Digitizer{Config: cfg, Oracle: adapter, ZapLogger: zl}
}

// Digitize runs the §4.12 state machine end to end against img (already
// decoded; see pkg/ecg/pixel.Decode for the loading step proper) and
// returns the owned-then-transferred Result.
func (d *Digitizer) Digitize(ctx context.Context, img *pixel.Image, exifOrientation orient.ExifOrientation) (*model.Result, error) {
	totalStart := time.Now()
	result := &model.Result{LeadConfidence: map[string]float64{}}

	img = d.runLoading(result, img, exifOrientation)

	var analysis *oracle.Analysis
	if d.Config.OracleProvider != "" && d.Oracle != nil {
		analysis = d.runOracleAnalysis(ctx, result, img)
	} else {
		result.AddStage(model.StageLog{Name: stageOracle, Status: model.StageSkipped})
		d.logStage(stageOracle, model.StageSkipped, 0, 0, "")
	}

	layoutResult := d.runRuleBasedFallback(result, img)
	panels := d.runHybridMerge(result, layoutResult, analysis)
	if len(panels) == 0 {
		result.AddIssue(model.Issue{
			Code:     model.CodeFatal,
			Severity: model.SeverityError,
			Message:  "no panels survived layout detection and oracle merge",
		})
	}

	gridInfo := grid.Detect(img)
	calib, pxPerMm := d.runCalibration(result, img, gridInfo, panels, analysis)

	waveform := layout.DominantDarkColor(img)
	traces := d.runWaveformExtraction(ctx, result, img, panels, waveform)
	if len(panels) > 0 && !anyTraceUsable(traces) {
		result.AddIssue(model.Issue{
			Code:     model.CodeFatal,
			Severity: model.SeverityError,
			Message:  "no usable trace was extracted from any panel",
		})
	}

	durationS := estimatePanelDurationS(panels, calib, pxPerMm)
	signal := d.runReconstruction(result, traces, panels, calib, pxPerMm, durationS)
	result.Signal = signal

	imageQuality := 1.0
	if analysis != nil {
		imageQuality = analysis.ImageQuality.F()
	}
	d.runQualityAssessment(result, traces, panels, gridInfo.Confidence, calib.Confidence, imageQuality)

	result.Method = chooseMethod(analysis, panels)
	result.Grid = gridInfo
	result.Calibration = calib
	result.Panels = panels
	result.Success = result.OverallConfidence > 0 && !hasFatalIssue(result)
	result.TotalDuration = time.Since(totalStart)

	return result, nil
}

func (d *Digitizer) logStage(name string, status model.StageStatus, confidence float64, dur time.Duration, note string) {
	var statusStr string
	switch status {
	case model.StageSuccess:
		statusStr = "success"
	case model.StageFailed:
		statusStr = "failed"
	default:
		statusStr = "skipped"
	}
	if d.ZapLogger == nil {
		log.StageEvent(name, statusStr, confidence, dur.Milliseconds(), note)
		return
	}
	zaplog.StageEvent(d.ZapLogger, name, statusStr, confidence, dur.Milliseconds(), note)
}

func (d *Digitizer) runLoading(result *model.Result, img *pixel.Image, exifOrientation orient.ExifOrientation) *pixel.Image {
	start := time.Now()

	oriented := orient.ApplyExifOrientation(img, exifOrientation)
	resized := orient.DownscaleToWorkingResolution(oriented, d.Config.MaxWorkingDimension)
	out := resized.Image

	inv := orient.Detect(out)
	if inv.Inverted {
		out = orient.Invert(out)
	}

	result.AddStage(model.StageLog{Name: stageLoading, Status: model.StageSuccess, Duration: time.Since(start)})
	d.logStage(stageLoading, model.StageSuccess, inv.Confidence, time.Since(start), "")
	return out
}

func (d *Digitizer) runOracleAnalysis(ctx context.Context, result *model.Result, img *pixel.Image) *oracle.Analysis {
	start := time.Now()
	analysis, confidence, dur, err := d.Oracle.Analyze(ctx, img)
	if err != nil {
		result.AddStage(model.StageLog{Name: stageOracle, Status: model.StageFailed, Duration: dur, Note: err.Error()})
		result.AddIssue(model.Issue{
			Code:     model.CodeOracleFailed,
			Severity: model.SeverityWarning,
			Message:  "oracle analysis failed, continuing rule-based only: " + err.Error(),
		})
		d.logStage(stageOracle, model.StageFailed, 0, time.Since(start), err.Error())
		return nil
	}
	result.AddStage(model.StageLog{Name: stageOracle, Status: model.StageSuccess, Confidence: confidence, Duration: dur})
	d.logStage(stageOracle, model.StageSuccess, confidence, dur, "")
	return analysis
}

func (d *Digitizer) runRuleBasedFallback(result *model.Result, img *pixel.Image) layout.Result {
	start := time.Now()
	lr := layout.Detect(img)
	status := model.StageSuccess
	if lr.Format == layout.FormatUnknown {
		status = model.StageFailed
	}
	result.AddStage(model.StageLog{Name: stageRuleBased, Status: status, Confidence: lr.Confidence, Duration: time.Since(start)})
	d.logStage(stageRuleBased, status, lr.Confidence, time.Since(start), string(lr.Format))
	return lr
}

func (d *Digitizer) runHybridMerge(result *model.Result, lr layout.Result, analysis *oracle.Analysis) []model.Panel {
	start := time.Now()
	panels := panelmerge.Merge(lr, analysis)

	if d.Config.CriticalLeadsOnly {
		panels = filterCriticalPanels(panels, d.Config.CriticalLeads)
	}

	method := model.MethodRuleBased
	if analysis != nil {
		method = model.MethodHybrid
	}
	result.AddStage(model.StageLog{Name: stageHybrid, Status: model.StageSuccess, Duration: time.Since(start), Note: string(method)})
	d.logStage(stageHybrid, model.StageSuccess, 0, time.Since(start), string(method))
	return panels
}

// filterCriticalPanels keeps rhythm strips and any panel labeled as one
// of the configured critical leads, implementing the two-pass oracle
// strategy's cheaper second pass (SPEC_FULL §4.6.1).
func filterCriticalPanels(panels []model.Panel, criticalLeads []string) []model.Panel {
	if len(criticalLeads) == 0 {
		return panels
	}
	want := map[string]bool{}
	for _, l := range criticalLeads {
		want[l] = true
	}
	var out []model.Panel
	for _, p := range panels {
		if p.IsRhythmStrip || want[p.Lead] {
			out = append(out, p)
		}
	}
	return out
}

func (d *Digitizer) runCalibration(result *model.Result, img *pixel.Image, gridInfo model.GridInfo, panels []model.Panel, analysis *oracle.Analysis) (model.Calibration, float64) {
	start := time.Now()

	calib := model.DefaultCalibration()

	if analysis != nil {
		if analysis.Calibration.GainMmPerMv.F() > 0 {
			calib.GainMmPerMv = analysis.Calibration.GainMmPerMv.F()
			calib.GainSource = model.CalSourceTextLabel
		}
		if analysis.Calibration.PaperSpeedMmPerS.F() > 0 {
			calib.PaperSpeedMmPerS = analysis.Calibration.PaperSpeedMmPerS.F()
			calib.SpeedSource = model.CalSourceTextLabel
		}
		calib.Confidence = analysis.Calibration.Confidence.F()
	}

	pxPerMv, pulseConfidence, found := calibration.Detect(img)
	pxPerMm := gridInfo.PxPerMm
	if !gridInfo.Detected {
		pxPerMm = grid.EstimateFromPageWidth(img.Width())
	}

	if found {
		panelWidthPx := widestNonRhythmPanel(panels)
		consistentPxPerMm, accepted := calibration.ConsistencyCheck(pxPerMv, calib.GainMmPerMv, panelWidthPx)
		if accepted {
			pxPerMm = consistentPxPerMm
			calib.GainSource = model.CalSourcePulse
			calib.Confidence = pulseConfidence
		} else {
			if consistentPxPerMm > 0 {
				pxPerMm = consistentPxPerMm
			}
			result.AddIssue(model.Issue{
				Code:     model.CodeCalibrationRejected,
				Severity: model.SeverityWarning,
				Message:  "calibration pulse rejected by grid consistency check",
			})
		}
	}

	if !gridInfo.Detected {
		result.AddIssue(model.Issue{
			Code:     model.CodeGridNotDetected,
			Severity: model.SeverityWarning,
			Message:  "grid geometry not detected, falling back to standard page width assumption",
		})
	}

	status := model.StageSuccess
	if !gridInfo.Detected && !found {
		status = model.StageFailed
	}
	result.AddStage(model.StageLog{Name: stageCalibration, Status: status, Confidence: calib.Confidence, Duration: time.Since(start)})
	d.logStage(stageCalibration, status, calib.Confidence, time.Since(start), "")
	return calib, pxPerMm
}

func widestNonRhythmPanel(panels []model.Panel) int {
	widest := 0
	for _, p := range panels {
		if p.IsRhythmStrip {
			continue
		}
		if p.Bounds.Width > widest {
			widest = p.Bounds.Width
		}
	}
	return widest
}

func (d *Digitizer) runWaveformExtraction(ctx context.Context, result *model.Result, img *pixel.Image, panels []model.Panel, waveform colorspace.RGB) []*model.RawTrace {
	start := time.Now()

	tracePanels := make([]trace.Panel, len(panels))
	for i, p := range panels {
		by := p.BaselineY
		if !p.BaselineValid() {
			bl := baseline.Detect(img, p.Bounds, waveform, p.OracleBaselineY, p.OracleBaselineKnown)
			by = bl.Y
		}
		tracePanels[i] = trace.Panel{ID: p.ID, Lead: p.Lead, Bounds: p.Bounds, BaselineY: by}
	}

	opt := trace.Options{
		WaveformColor:      waveform,
		MaxInterpolateGap:  d.Config.MaxInterpolateGap,
		MinPointConfidence: d.Config.MinPointConfidence,
		SmoothingWindow:    d.Config.SmoothingWindow,
		RejectArtifacts:    d.Config.RejectArtifacts,
	}
	maxWorkers := runtime.NumCPU()
	if len(tracePanels) < maxWorkers {
		maxWorkers = len(tracePanels)
	}
	traces, err := trace.TraceAll(ctx, img, tracePanels, opt, maxWorkers)

	status := model.StageSuccess
	note := ""
	if err != nil {
		status = model.StageFailed
		note = err.Error()
	}
	result.AddStage(model.StageLog{Name: stageWaveform, Status: status, Duration: time.Since(start), Note: note})
	d.logStage(stageWaveform, status, 0, time.Since(start), note)
	return traces
}

func (d *Digitizer) runReconstruction(result *model.Result, traces []*model.RawTrace, panels []model.Panel, calib model.Calibration, pxPerMm, durationS float64) *model.Signal {
	start := time.Now()
	signal := reconstruct.Reconstruct(traces, panels, calib, pxPerMm, d.Config.TargetSampleRate, durationS)
	result.AddStage(model.StageLog{Name: stageReconstruct, Status: model.StageSuccess, Duration: time.Since(start)})
	d.logStage(stageReconstruct, model.StageSuccess, 0, time.Since(start), "")
	return signal
}

func (d *Digitizer) runQualityAssessment(result *model.Result, traces []*model.RawTrace, panels []model.Panel, gridConfidence, calibConfidence, imageQuality float64) {
	start := time.Now()
	score := quality.Assess(traces, panels, gridConfidence, calibConfidence, imageQuality, d.Config.EnableQualityBonusFloors)
	result.LeadConfidence = score.LeadConfidence
	result.OverallConfidence = score.OverallConfidence
	for _, issue := range score.Issues {
		result.AddIssue(issue)
	}
	result.AddStage(model.StageLog{Name: stageQuality, Status: model.StageSuccess, Confidence: score.OverallConfidence, Duration: time.Since(start)})
	d.logStage(stageQuality, model.StageSuccess, score.OverallConfidence, time.Since(start), "")
}

func estimatePanelDurationS(panels []model.Panel, calib model.Calibration, pxPerMm float64) float64 {
	widest := widestNonRhythmPanel(panels)
	pxPerSecond := calib.PxPerSecond(pxPerMm)
	if pxPerSecond <= 0 || widest == 0 {
		return 2.5
	}
	return float64(widest) / pxPerSecond
}

func chooseMethod(analysis *oracle.Analysis, panels []model.Panel) model.Method {
	if analysis == nil {
		return model.MethodRuleBased
	}
	for _, p := range panels {
		if p.LeadSource == model.LeadSourceTextLabel {
			return model.MethodHybrid
		}
	}
	return model.MethodOracleGuided
}

func anyTraceUsable(traces []*model.RawTrace) bool {
	for _, t := range traces {
		if t != nil && t.Usable() {
			return true
		}
	}
	return false
}

func hasFatalIssue(result *model.Result) bool {
	for _, issue := range result.Issues {
		if issue.Code == model.CodeFatal {
			return true
		}
	}
	return false
}

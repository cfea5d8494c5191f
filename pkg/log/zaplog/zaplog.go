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

// Package zaplog adapts go.uber.org/zap to the pkg/log.Logger interface
// and provides the structured stage-event logger used by the
// orchestrator.
package zaplog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mechiko/ecgdigitizer/pkg/log"
)

// sugared wraps a *zap.SugaredLogger as a pkg/log.Logger.
type sugared struct {
	s *zap.SugaredLogger
}

// Wrap returns a pkg/log.Logger backed by l.
func Wrap(l *zap.Logger) log.Logger {
	return &sugared{s: l.Sugar()}
}

func (s *sugared) Printf(format string, args ...interface{}) {
	s.s.Infof(format, args...)
}

func (s *sugared) Println(args ...interface{}) {
	s.s.Info(fmt.Sprint(args...))
}

func (s *sugared) Fatalf(format string, args ...interface{}) {
	s.s.Fatalf(format, args...)
}

func (s *sugared) Fatalln(args ...interface{}) {
	s.s.Fatal(fmt.Sprint(args...))
}

// Install builds a production zap.Logger and wires it as the default
// Debug/Info/Stats logger for pkg/log. Trace stays disabled (matching
// pdfcpu's default of discarding trace output) unless enableTrace is set.
func Install(enableTrace bool) (*zap.Logger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	log.SetInfoLogger(Wrap(zl.Named("info")))
	log.SetDebugLogger(Wrap(zl.Named("debug")))
	log.SetStatsLogger(Wrap(zl.Named("stats")))
	if enableTrace {
		log.SetTraceLogger(Wrap(zl.Named("trace")))
	}
	return zl, nil
}

// StageEvent emits one structured log line per pipeline stage transition.
func StageEvent(zl *zap.Logger, stage, status string, confidence float64, durationMs int64, note string) {
	fields := []zap.Field{
		zap.String("stage", stage),
		zap.String("status", status),
		zap.Float64("confidence", confidence),
		zap.Int64("duration_ms", durationMs),
	}
	if note != "" {
		fields = append(fields, zap.String("note", note))
	}
	zl.Info("digitizer.stage", fields...)
}

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

package zaplog_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mechiko/ecgdigitizer/pkg/log"
	"github.com/mechiko/ecgdigitizer/pkg/log/zaplog"
)

func TestWrapRoutesPrintfThroughZapAtInfoLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	zl := zap.New(core)

	wrapped := zaplog.Wrap(zl)
	wrapped.Printf("found %d panels", 12)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "found 12 panels", entries[0].Message)
}

func TestStageEventEmitsStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	zl := zap.New(core)

	zaplog.StageEvent(zl, "calibration", "success", 0.8, 42, "pulse found")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "digitizer.stage", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "calibration", fields["stage"])
	require.Equal(t, "success", fields["status"])
	require.Equal(t, "pulse found", fields["note"])
}

func TestInstallWiresDefaultLoggers(t *testing.T) {
	zl, err := zaplog.Install(false)
	require.NoError(t, err)
	require.NotNil(t, zl)
	require.NotPanics(t, func() { log.Info.Println("installed") })
	log.DisableLoggers()
}

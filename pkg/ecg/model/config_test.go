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

package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/model"
)

func TestDefaultConfigurationValidates(t *testing.T) {
	cfg := model.DefaultConfiguration()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsOutOfRangeFields(t *testing.T) {
	cfg := model.DefaultConfiguration()
	cfg.AIConfidenceThreshold = 1.5
	require.Error(t, cfg.Validate())
}

func TestLoadYAMLOverridesDefaultsAndIgnoresUnknownKeys(t *testing.T) {
	cfg := model.DefaultConfiguration()
	yaml := []byte("targetSampleRate: 1000\nunknownFutureOption: true\n")
	require.NoError(t, cfg.LoadYAML(yaml))
	require.Equal(t, 1000.0, cfg.TargetSampleRate)
	require.NoError(t, cfg.Validate())
}

func TestToYAMLRoundTrips(t *testing.T) {
	cfg := model.DefaultConfiguration()
	data, err := cfg.ToYAML()
	require.NoError(t, err)

	reloaded := &model.Configuration{}
	require.NoError(t, reloaded.LoadYAML(data))
	require.Equal(t, cfg.TargetSampleRate, reloaded.TargetSampleRate)
	require.Equal(t, cfg.CriticalLeads, reloaded.CriticalLeads)
}

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

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Configuration is the single struct threaded through the orchestrator
// and every stage (§6, SPEC_FULL §3). Unknown YAML keys are ignored, not
// errors (§4, §9); every field has a documented default so every option
// is optional.
type Configuration struct {
	// Oracle adapter (§4.6).
	OracleProvider  string        `yaml:"oracleProvider" validate:"omitempty"`
	OracleEndpoint  string        `yaml:"oracleEndpoint" validate:"omitempty,url"`
	OracleModel     string        `yaml:"oracleModel" validate:"omitempty"`
	OracleAPIKey    string        `yaml:"oracleApiKey" validate:"omitempty"`
	OracleTimeout   time.Duration `yaml:"oracleTimeout" validate:"omitempty,gt=0"`
	ReasoningEffort string        `yaml:"reasoningEffort" validate:"omitempty"`

	// Confidence and fallback thresholds.
	TargetSampleRate        float64 `yaml:"targetSampleRate" validate:"gt=0"`
	AIConfidenceThreshold   float64 `yaml:"aiConfidenceThreshold" validate:"gte=0,lte=1"`
	EnableLocalFallback     bool    `yaml:"enableLocalFallback"`
	CriticalLeadsOnly       bool    `yaml:"criticalLeadsOnly"`
	CriticalLeads           []string `yaml:"criticalLeads" validate:"omitempty,dive,required"`

	// Oracle response cache (§4.6, §5).
	CacheEnabled     bool          `yaml:"cacheEnabled"`
	CacheDir         string        `yaml:"cacheDir"`
	CacheTTL         time.Duration `yaml:"cacheTtl" validate:"omitempty,gt=0"`
	CacheMaxBytes    int64         `yaml:"cacheMaxBytes" validate:"omitempty,gt=0"`
	CacheCompress    bool          `yaml:"cacheCompress"`
	OracleRatePerSec float64       `yaml:"oracleRateLimitPerSecond" validate:"omitempty,gt=0"`

	// Waveform tracer (§4.9).
	DarknessThreshold  int     `yaml:"darknessThreshold" validate:"gte=0,lte=255"`
	MaxInterpolateGap  int     `yaml:"maxInterpolateGap" validate:"gte=0"`
	MinPointConfidence float64 `yaml:"minPointConfidence" validate:"gte=0,lte=1"`
	SmoothingWindow    int     `yaml:"smoothingWindow" validate:"gte=1"`
	RejectArtifacts    bool    `yaml:"rejectArtifacts"`

	// Pre-detection resize (SPEC_FULL §4.2.1).
	MaxWorkingDimension int `yaml:"maxWorkingDimension" validate:"omitempty,gt=0"`

	// Quality scorer (§4.11, Open Questions).
	EnableQualityBonusFloors bool    `yaml:"enableQualityBonusFloors"`
	EinthovenToleranceMv     float64 `yaml:"einthovenToleranceMv" validate:"gt=0"`
}

// DefaultConfiguration returns the documented defaults for every
// recognized option (§6).
func DefaultConfiguration() *Configuration {
	return &Configuration{
		OracleProvider:           "",
		OracleTimeout:            20 * time.Second,
		TargetSampleRate:         500,
		AIConfidenceThreshold:    0.7,
		EnableLocalFallback:      true,
		CriticalLeadsOnly:        false,
		CriticalLeads:            []string{"I", "II", "III"},
		CacheEnabled:             false,
		CacheTTL:                 7 * 24 * time.Hour,
		CacheMaxBytes:            256 << 20,
		CacheCompress:            true,
		OracleRatePerSec:         2,
		DarknessThreshold:        80,
		MaxInterpolateGap:        10,
		MinPointConfidence:       0.3,
		SmoothingWindow:          3,
		RejectArtifacts:          true,
		MaxWorkingDimension:      2000,
		EnableQualityBonusFloors: true,
		EinthovenToleranceMv:     0.05,
	}
}

// Validate checks the configuration against its struct tags.
func (c *Configuration) Validate() error {
	return validator.New().Struct(c)
}

// LoadYAML merges YAML-encoded overrides onto the receiver, the way
// pkg/pdfcpu/model/parseConfig.go layers a config.yaml onto defaults.
// Unknown keys in data are ignored by gopkg.in/yaml.v2's default
// behavior.
func (c *Configuration) LoadYAML(data []byte) error {
	return yaml.Unmarshal(data, c)
}

// ToYAML serializes the configuration, e.g. to seed a config.yaml on
// first run.
func (c *Configuration) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

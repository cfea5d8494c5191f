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

package oracle

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"golang.org/x/time/rate"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/pixel"
	"github.com/mechiko/ecgdigitizer/pkg/log"
)

// Adapter is the Label Oracle Adapter's contract to the core (§4.6):
// a single Analyze(image) -> (analysis, confidence, duration) call that
// hides the provider, caching, rate limiting and JSON repair.
type Adapter struct {
	Provider        Provider
	Prompt          string
	Model           string
	APIKey          string
	ReasoningEffort string

	Cache       *Cache
	CacheEnabled bool

	Limiter *rate.Limiter
}

// NewAdapter builds an Adapter. rateLimitPerSecond <= 0 disables
// limiting.
func NewAdapter(provider Provider, prompt, model, apiKey, reasoningEffort string, cache *Cache, cacheEnabled bool, rateLimitPerSecond float64) *Adapter {
	var limiter *rate.Limiter
	if rateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimitPerSecond), 1)
	}
	return &Adapter{
		Provider:        provider,
		Prompt:          prompt,
		Model:           model,
		APIKey:          apiKey,
		ReasoningEffort: reasoningEffort,
		Cache:           cache,
		CacheEnabled:    cacheEnabled,
		Limiter:         limiter,
	}
}

// Analyze calls the oracle (or returns a cache hit), bounded by ctx's
// deadline. A timeout, transport error, or unrepairable JSON response is
// a soft failure: (nil, 0, elapsed, err) with err non-nil, and the
// orchestrator is expected to mark the stage failed and fall back to
// rule-based geometry (§4.6, §7).
func (a *Adapter) Analyze(ctx context.Context, img *pixel.Image) (*Analysis, float64, time.Duration, error) {
	start := time.Now()

	key := a.cacheKey(img)
	if a.CacheEnabled && a.Cache != nil {
		if cached, ok := a.Cache.Get(key); ok {
			log.Debug.Printf("oracle: cache hit for %s", key.fileName())
			return cached, ClampConfidence(maxFlex(cached.Grid.Confidence, cached.Calibration.Confidence).F()), time.Since(start), nil
		}
	}

	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return nil, 0, time.Since(start), err
		}
	}

	pngBytes, err := encodePNG(img)
	if err != nil {
		return nil, 0, time.Since(start), err
	}

	raw, err := a.Provider.Analyze(ctx, Request{
		ImagePNG:        pngBytes,
		Prompt:          a.Prompt,
		Model:           a.Model,
		APIKey:          a.APIKey,
		ReasoningEffort: a.ReasoningEffort,
	})
	if err != nil {
		return nil, 0, time.Since(start), err
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		return nil, 0, time.Since(start), err
	}

	if a.CacheEnabled && a.Cache != nil {
		if err := a.Cache.Put(key, *analysis); err != nil {
			log.Info.Printf("oracle: cache write failed: %v", err)
		}
	}

	conf := ClampConfidence(maxFlex(analysis.Grid.Confidence, analysis.Calibration.Confidence).F())
	return analysis, conf, time.Since(start), nil
}

func (a *Adapter) cacheKey(img *pixel.Image) CacheKey {
	imgHash := HashStridedSample(img.Pix(), img.Width(), img.Height(), 97)
	return CacheKey{ImageHash: imgHash, PromptHash: HashText(a.Prompt)}
}

func maxFlex(a, b FlexFloat) FlexFloat {
	if a > b {
		return a
	}
	return b
}

func encodePNG(img *pixel.Image) ([]byte, error) {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	copy(rgba.Pix, img.Pix())
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

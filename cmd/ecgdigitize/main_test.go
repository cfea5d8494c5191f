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

package main

import (
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/synth"
)

func writeSyntheticScan(t *testing.T, dir string) string {
	img, _ := synth.Render(synth.Options{})
	path := filepath.Join(dir, "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	rgba := goimage.NewRGBA(goimage.Rect(0, 0, img.Width(), img.Height()))
	copy(rgba.Pix, img.Pix())
	require.NoError(t, png.Encode(f, rgba))
	return path
}

func TestLoadConfigurationReturnsDefaultsWithoutAPath(t *testing.T) {
	cfg := loadConfiguration("")
	require.Equal(t, 500.0, cfg.TargetSampleRate)
}

func TestRunDigitizesAScanFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSyntheticScan(t, dir)

	cfg := loadConfiguration("")
	result, err := run(path, cfg, false)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Stages)
}

func TestRunRejectsAMissingFile(t *testing.T) {
	cfg := loadConfiguration("")
	_, err := run(filepath.Join(t.TempDir(), "missing.png"), cfg, false)
	require.Error(t, err)
}

func TestWriteResultWritesToFile(t *testing.T) {
	dir := t.TempDir()
	outPath = filepath.Join(dir, "result.json")
	defer func() { outPath = "" }()

	cfg := loadConfiguration("")
	result, err := run(writeSyntheticScan(t, dir), cfg, false)
	require.NoError(t, err)

	writeResult(result)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "Stages")
}

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

package colorspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/colorspace"
)

func TestBrightnessAndDarkness(t *testing.T) {
	require.Equal(t, 255.0, colorspace.White.Brightness())
	require.Equal(t, 0.0, colorspace.White.Darkness())
	require.Equal(t, 0.0, colorspace.Black.Brightness())
	require.Equal(t, 255.0, colorspace.Black.Darkness())
}

func TestInverted(t *testing.T) {
	require.Equal(t, colorspace.Black, colorspace.White.Inverted())
	c := colorspace.RGB{R: 10, G: 200, B: 50}
	require.Equal(t, colorspace.RGB{R: 245, G: 55, B: 205}, c.Inverted())
}

func TestL1Distance(t *testing.T) {
	a := colorspace.RGB{R: 10, G: 20, B: 30}
	b := colorspace.RGB{R: 15, G: 10, B: 40}
	require.Equal(t, 25, a.L1Distance(b))
}

func TestColorMatchIdenticalIsMax(t *testing.T) {
	c := colorspace.RGB{R: 40, G: 40, B: 40}
	require.Equal(t, 255.0, c.ColorMatch(c))
}

func TestColorMatchFarApartIsLow(t *testing.T) {
	m := colorspace.Black.ColorMatch(colorspace.White)
	require.Less(t, m, 50.0)
}

func TestSaturation(t *testing.T) {
	require.Equal(t, 0.0, colorspace.Black.Saturation())
	require.Equal(t, 0.0, colorspace.RGB{R: 128, G: 128, B: 128}.Saturation())
	pureRed := colorspace.RGB{R: 255, G: 0, B: 0}
	require.Equal(t, 1.0, pureRed.Saturation())
}

func TestString(t *testing.T) {
	require.Equal(t, "#ff0000", colorspace.RGB{R: 255}.String())
}

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
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// leadAliases maps the oracle's upper-cased spelling back to the
// documented mixed-case lead name (§4.6: AVR -> aVR, AVL -> aVL,
// AVF -> aVF); everything else upper-cases trivially (I, II, III, V1..).
var leadAliases = map[string]string{
	"AVR": "aVR",
	"AVL": "aVL",
	"AVF": "aVF",
}

var upper = cases.Upper(language.Und)

// NormalizeLeadName upper-cases then re-cases name per §4.6. An input
// that doesn't match any known lead spelling, even after upper-casing,
// is returned upper-cased; ParseAnalysis keeps it as is, and lead names
// are not checked against a closed set.
func NormalizeLeadName(name string) string {
	u := upper.String(strings.TrimSpace(name))
	if alias, ok := leadAliases[u]; ok {
		return alias
	}
	return u
}

// ClampConfidence clamps c to [0,1] (§4.6, §9: all numeric fields are
// clamped).
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

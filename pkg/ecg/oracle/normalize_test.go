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

package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/ecgdigitizer/pkg/ecg/oracle"
)

func TestNormalizeLeadNameAppliesAugmentedLimbAliases(t *testing.T) {
	require.Equal(t, "aVR", oracle.NormalizeLeadName("avr"))
	require.Equal(t, "aVL", oracle.NormalizeLeadName(" AVL "))
	require.Equal(t, "aVF", oracle.NormalizeLeadName("Avf"))
}

func TestNormalizeLeadNamePassesThroughOrdinaryLeads(t *testing.T) {
	require.Equal(t, "II", oracle.NormalizeLeadName("ii"))
	require.Equal(t, "V1", oracle.NormalizeLeadName("v1"))
}

func TestNormalizeLeadNameUppercasesUnknownSpellings(t *testing.T) {
	require.Equal(t, "LEADZZZ", oracle.NormalizeLeadName("leadzzz"))
}

func TestClampConfidenceBounds(t *testing.T) {
	require.Equal(t, 0.0, oracle.ClampConfidence(-0.5))
	require.Equal(t, 1.0, oracle.ClampConfidence(1.5))
	require.Equal(t, 0.42, oracle.ClampConfidence(0.42))
}

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

// Signal is the reconstructed ECG (§3 ECG Signal): a mapping from lead
// name to a microvolt sample array, all at SampleRate.
type Signal struct {
	SampleRate float64
	DurationS  float64
	Leads      map[string][]float64
}

// NewSignal returns an empty Signal at the given rate and duration.
func NewSignal(sampleRate, durationS float64) *Signal {
	return &Signal{SampleRate: sampleRate, DurationS: durationS, Leads: map[string][]float64{}}
}

// ExpectedLength is round(duration * sampleRate), the §8 invariant 1
// target length every lead array must match within +/-2.
func (s *Signal) ExpectedLength() int {
	return int(s.DurationS*s.SampleRate + 0.5)
}

// LeadNames returns the sorted-by-standard-order set of present leads.
func (s *Signal) LeadNames() []string {
	names := make([]string, 0, len(s.Leads))
	for _, l := range StandardLeads {
		if _, ok := s.Leads[l]; ok {
			names = append(names, l)
		}
	}
	for name := range s.Leads {
		if !IsStandardLead(name) {
			names = append(names, name)
		}
	}
	return names
}

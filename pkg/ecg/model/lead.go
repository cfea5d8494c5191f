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

// StandardLeads enumerates the 15 recognized lead names (§3 Panel):
// the 12 standard leads plus the 3 pediatric-right/posterior leads.
var StandardLeads = []string{
	"I", "II", "III", "aVR", "aVL", "aVF",
	"V1", "V2", "V3", "V4", "V5", "V6",
	"V3R", "V4R", "V7",
}

// Standard12Leads is the 12 leads a conventional adult tracing carries.
var Standard12Leads = []string{
	"I", "II", "III", "aVR", "aVL", "aVF",
	"V1", "V2", "V3", "V4", "V5", "V6",
}

// IsStandardLead reports whether name is one of the 15 recognized leads.
func IsStandardLead(name string) bool {
	for _, l := range StandardLeads {
		if l == name {
			return true
		}
	}
	return false
}

// LeadSource records how a panel's lead label was determined.
type LeadSource string

const (
	LeadSourceTextLabel       LeadSource = "text_label"
	LeadSourcePositionInferred LeadSource = "position_inferred"
	LeadSourceUnknown         LeadSource = "unknown"
)

// Format12Lead is the standard 3-row x 4-col layout (§4.7).
var Format12Lead = [3][4]string{
	{"I", "aVR", "V1", "V4"},
	{"II", "aVL", "V2", "V5"},
	{"III", "aVF", "V3", "V6"},
}

// Format15LeadExtraRow is the pediatric format's 4th row (§4.5, §4.7).
var Format15LeadExtraRow = [3]string{"V3R", "V4R", "V7"}

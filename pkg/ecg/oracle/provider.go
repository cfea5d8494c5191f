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
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Request bundles everything a Provider needs to call the remote LVM
// (§9 "polymorphism over providers"): no provider-specific field leaks
// into the adapter's core contract.
type Request struct {
	ImagePNG        []byte
	Prompt          string
	Model           string
	APIKey          string
	ReasoningEffort string
}

// Provider hides one LVM vendor's wire encoding and response dialect
// behind a single operation, per §9's trait/interface design note. No
// inheritance hierarchy; a tagged variant per vendor is equivalent.
type Provider interface {
	// Analyze sends req and returns the raw (possibly malformed) JSON
	// response text.
	Analyze(ctx context.Context, req Request) (rawJSON string, err error)
}

// registry is the process-wide provider-name -> Provider mapping (§9).
var (
	registryMu sync.RWMutex
	registry   = map[string]Provider{}
)

// Register adds or replaces the provider for name.
func Register(name string, p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = p
}

// Lookup returns the provider registered for name.
func Lookup(name string) (Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, errors.Wrap(fmt.Errorf("no oracle provider registered for %q", name), "oracle.Lookup")
	}
	return p, nil
}

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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// HTTPProvider is a simple-chat-style Provider: it POSTs a JSON body
// {model, prompt, image, reasoningEffort} to Endpoint and reads the
// completion text back out of a conventional chat-completion envelope.
// It is one concrete wire dialect behind the Provider interface (§9);
// a reasoning-API-with-tools dialect would be a second implementation
// registered under a different provider name.
type HTTPProvider struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPProvider returns an HTTPProvider using http.DefaultClient when
// client is nil.
func NewHTTPProvider(endpoint string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{Endpoint: endpoint, Client: client}
}

type chatRequest struct {
	Model           string `json:"model"`
	Prompt          string `json:"prompt"`
	ImageBase64     string `json:"image"`
	ReasoningEffort string `json:"reasoningEffort,omitempty"`
}

type chatChoice struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// Analyze implements Provider.
func (p *HTTPProvider) Analyze(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:           req.Model,
		Prompt:          req.Prompt,
		ImageBase64:     base64.StdEncoding.EncodeToString(req.ImagePNG),
		ReasoningEffort: req.ReasoningEffort,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "oracle.HTTPProvider.Analyze: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "oracle.HTTPProvider.Analyze: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	}

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "oracle.HTTPProvider.Analyze: transport")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "oracle.HTTPProvider.Analyze: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrap(fmt.Errorf("oracle endpoint returned HTTP %d: %s", resp.StatusCode, raw), "oracle.HTTPProvider.Analyze")
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil || len(cr.Choices) == 0 {
		// Some endpoints return the analysis JSON directly as the body,
		// without a chat-completion envelope; hand it back raw and let
		// the adapter's repair pass sort it out.
		return string(raw), nil
	}
	return cr.Choices[0].Text, nil
}

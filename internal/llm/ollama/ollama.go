// Package ollama implements the analysis provider backed by a locally running
// Ollama instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pseudomancer/pseudomancer/internal/llm"
)

const generatePath = "/api/generate"

// Provider implements a minimal, non-streaming Ollama generate client.
type Provider struct {
	name    string
	client  *http.Client
	baseURL string
	model   string
}

// NewProvider constructs an Ollama provider. A zero timeout leaves the request
// unbounded; model inference latency is accepted as a straight synchronous wait
// and the caller's context is the only way to cut it short.
// Base URL defaulting happens in the config layer; an empty or malformed URL
// here simply fails the query.
func NewProvider(name, baseURL, model string, timeout time.Duration) *Provider {
	return &Provider{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// generateRequest is the /api/generate request body. Streaming is disabled and
// the json format is forced so the model returns one complete JSON document
// instead of incremental chunks: the rewrite step needs the whole result before
// it can start.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

// generateResponse is the envelope Ollama wraps around the model output. The
// Response field is itself a JSON document (double-encoded).
type generateResponse struct {
	Response string `json:"response"`
}

// Analyze submits pseudocode for analysis and decodes the result. Exactly one
// request/response cycle is performed; no retries. Empty code is not rejected
// locally, but the endpoint returns an empty analysis for it, which comes back
// as a *llm.ParseError.
func (p *Provider) Analyze(ctx context.Context, code string) (*llm.AnalysisResult, error) {
	body := generateRequest{
		Model:  p.model,
		Prompt: code,
		Stream: false,
		Format: "json",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &llm.QueryError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, &llm.QueryError{Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &llm.QueryError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return nil, &llm.QueryError{Err: fmt.Errorf("ollama: status %d: %s", res.StatusCode, string(b))}
	}

	var resp generateResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, &llm.ParseError{Err: fmt.Errorf("decode envelope: %w", err)}
	}

	var result llm.AnalysisResult
	if err := json.Unmarshal([]byte(resp.Response), &result); err != nil {
		return nil, &llm.ParseError{Err: fmt.Errorf("decode analysis: %w", err)}
	}

	return &result, nil
}

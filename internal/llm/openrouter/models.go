package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

type ModelEndpointPricing struct {
	Request    string `json:"request"`
	Image      string `json:"image"`
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type ModelEndpoint struct {
	Name                string               `json:"name"`
	ContextLength       int                  `json:"context_length"`
	Pricing             ModelEndpointPricing `json:"pricing"`
	ProviderName        string               `json:"provider_name"`
	SupportedParameters []string             `json:"supported_parameters"`
	Quantization        string               `json:"quantization"`
	MaxCompletionTokens int                  `json:"max_completion_tokens"`
	MaxPromptTokens     int                  `json:"max_prompt_tokens"`
	Status              json.RawMessage      `json:"status"`
	UptimeLast30m       float64              `json:"uptime_last_30m"`
}

type ModelArchitecture struct {
	InputModalities  []string `json:"input_modalities"`
	OutputModalities []string `json:"output_modalities"`
	Tokenizer        string   `json:"tokenizer"`
	InstructType     string   `json:"instruct_type"`
}

type ModelData struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Created      int64             `json:"created"`
	Description  string            `json:"description"`
	Architecture ModelArchitecture `json:"architecture"`
	Endpoints    []ModelEndpoint   `json:"endpoints"`
}

type ModelEndpointsResponse struct {
	Data ModelData `json:"data"`
}

// Supports reports whether the model's primary endpoint lists param
// (e.g. "tools" or "reasoning") among its supported parameters
func (r *ModelEndpointsResponse) Supports(param string) bool {
	if r == nil || len(r.Data.Endpoints) == 0 {
		return false
	}
	return slices.Contains(r.Data.Endpoints[0].SupportedParameters, param)
}

func (r *ModelEndpointsResponse) SupportsTools() bool {
	return r.Supports("tools")
}

func (r *ModelEndpointsResponse) SupportsReasoning() bool {
	return r.Supports("reasoning")
}

// SplitModelID splits "author/slug" into its parts
func SplitModelID(model string) (author, slug string, err error) {
	author, slug, ok := strings.Cut(model, "/")
	if !ok || author == "" || slug == "" {
		return "", "", fmt.Errorf("model %q is not of the form author/slug", model)
	}
	return author, slug, nil
}

// ModelEndpoints fetches the endpoint listing for a model id such as
// "openai/gpt-4o"
func (c *Client) ModelEndpoints(ctx context.Context, model string) (*ModelEndpointsResponse, error) {
	author, slug, err := SplitModelID(model)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/models/%s/%s/endpoints", url.PathEscape(author), url.PathEscape(slug))
	httpReq, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model endpoints: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch model endpoints: %w", newAPIError(resp))
	}

	var out ModelEndpointsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode model endpoints: %w", err)
	}
	return &out, nil
}

// CheckModel verifies the model exists and, when needTools is set, that it
// accepts tool definitions
func (c *Client) CheckModel(ctx context.Context, model string, needTools bool) (*ModelEndpointsResponse, error) {
	if model == "" {
		model = c.model
	}
	resp, err := c.ModelEndpoints(ctx, model)
	if err != nil {
		return nil, err
	}
	if needTools && !resp.SupportsTools() {
		return resp, fmt.Errorf("%s: %w", model, ErrToolsUnsupported)
	}
	return resp, nil
}

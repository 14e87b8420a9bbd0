package openrouter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

const endpointsBody = `{
  "data": {
    "id": "openai/gpt-4o",
    "name": "OpenAI: GPT-4o",
    "created": 1715367049,
    "description": "flagship",
    "architecture": {"input_modalities": ["text"], "output_modalities": ["text"], "tokenizer": "GPT", "instruct_type": ""},
    "endpoints": [{
      "name": "OpenAI | openai/gpt-4o",
      "context_length": 128000,
      "pricing": {"request": "0", "image": "0", "prompt": "0.0000025", "completion": "0.00001"},
      "provider_name": "OpenAI",
      "supported_parameters": ["tools", "tool_choice", "max_tokens"],
      "quantization": "unknown",
      "max_completion_tokens": 16384,
      "max_prompt_tokens": 0,
      "status": 0,
      "uptime_last_30m": 99.9
    }]
  }
}`

func TestClient_ModelEndpoints(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/openai/gpt-4o/endpoints" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, endpointsBody)
	})

	resp, err := client.ModelEndpoints(context.Background(), "openai/gpt-4o")
	if err != nil {
		t.Fatalf("ModelEndpoints failed: %v", err)
	}
	if resp.Data.Name != "OpenAI: GPT-4o" || len(resp.Data.Endpoints) != 1 {
		t.Errorf("Unexpected model data: %+v", resp.Data)
	}
	if !resp.SupportsTools() {
		t.Error("Expected tools support")
	}
	if resp.SupportsReasoning() {
		t.Error("Did not expect reasoning support")
	}
}

func TestClient_ModelEndpoints_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Model not found"}}`, http.StatusNotFound)
	})

	_, err := client.ModelEndpoints(context.Background(), "nobody/nothing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 APIError, got %v", err)
	}
}

func TestSplitModelID(t *testing.T) {
	if a, s, err := SplitModelID("deepseek/deepseek-r1"); err != nil || a != "deepseek" || s != "deepseek-r1" {
		t.Errorf("Unexpected split: %q %q %v", a, s, err)
	}
	for _, bad := range []string{"", "gpt-4o", "/x", "x/"} {
		if _, _, err := SplitModelID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestSupports_NoEndpoints(t *testing.T) {
	var nilResp *ModelEndpointsResponse
	if nilResp.SupportsTools() {
		t.Error("nil response supports nothing")
	}
	if (&ModelEndpointsResponse{}).SupportsReasoning() {
		t.Error("empty response supports nothing")
	}
}

func TestClient_CheckModel(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"id":"x/y","endpoints":[{"supported_parameters":["reasoning"]}]}}`)
	})

	if _, err := client.CheckModel(context.Background(), "x/y", false); err != nil {
		t.Errorf("Learn mode should not need tools, got %v", err)
	}
	resp, err := client.CheckModel(context.Background(), "x/y", true)
	if !errors.Is(err, ErrToolsUnsupported) {
		t.Errorf("Expected ErrToolsUnsupported, got %v", err)
	}
	if !resp.SupportsReasoning() {
		t.Error("Response should still be returned with the error")
	}
}

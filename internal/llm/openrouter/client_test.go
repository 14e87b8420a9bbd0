package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leetcoach/internal/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", "openai/gpt-4o", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestClient_StreamChat_RequestShape(t *testing.T) {
	var got map[string]any
	var header http.Header

	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Method != http.MethodPost {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		header = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("Request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, contentFrame("hi")+"data: [DONE]\n")
	})

	req := &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "coach"},
			{Role: llm.RoleUser, Content: "hint please"},
		},
		Reasoning: llm.ReasoningHigh,
		Tools: []*llm.ToolDefinition{{
			Type:     "function",
			Function: &llm.FunctionDef{Name: "suggest_code", Parameters: map[string]any{"type": "object"}},
		}},
	}

	result, err := client.StreamChat(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}
	if result.Content != "hi" || result.Phase != llm.PhaseCompleted {
		t.Errorf("Unexpected result: %+v", result)
	}

	if header.Get("Authorization") != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", header.Get("Authorization"))
	}
	if header.Get("X-Request-ID") == "" {
		t.Error("Expected a request id header")
	}
	if got["model"] != "openai/gpt-4o" || got["stream"] != true {
		t.Errorf("Unexpected model/stream: %v %v", got["model"], got["stream"])
	}
	if r, ok := got["reasoning"].(map[string]any); !ok || r["effort"] != "high" {
		t.Errorf("Expected reasoning.effort=high, got %v", got["reasoning"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %v", got["messages"])
	}
	if m := msgs[1].(map[string]any); m["role"] != "user" || m["content"] != "hint please" {
		t.Errorf("Unexpected message: %v", m)
	}
	tools, _ := got["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("Expected 1 tool, got %v", got["tools"])
	}
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	if fn["name"] != "suggest_code" {
		t.Errorf("Unexpected tool: %v", fn)
	}
}

func TestClient_StreamChat_OmitsOptionalFields(t *testing.T) {
	var got map[string]any
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, "data: [DONE]\n")
	})

	req := &llm.ChatRequest{Model: "anthropic/claude-sonnet-4", Messages: []llm.Message{{Role: llm.RoleUser, Content: "q"}}}
	if _, err := client.StreamChat(context.Background(), req, nil); err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}
	if _, ok := got["reasoning"]; ok {
		t.Error("reasoning must be omitted when no effort is set")
	}
	if _, ok := got["tools"]; ok {
		t.Error("tools must be omitted when none are given")
	}
	if got["model"] != "anthropic/claude-sonnet-4" {
		t.Errorf("Expected request model to override the default, got %v", got["model"])
	}
}

func TestClient_StreamChat_HTTPErrorWithJSONMessage(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"invalid key","code":401}}`)
	})
	rec := &recorder{}

	result, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "q"}},
	}, rec.callbacks())

	if err == nil {
		t.Fatal("Expected error for 401")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid key" {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
	if apiErr.Retryable() {
		t.Error("401 must not be retryable")
	}
	if len(rec.errs) != 1 || !strings.Contains(rec.errs[0].Error(), "invalid key") {
		t.Errorf("Expected OnError with 'invalid key', got %v", rec.errs)
	}
	if len(rec.completes) != 0 || len(rec.chunks) != 0 {
		t.Errorf("OnComplete/OnChunk must not fire, got %v %v", rec.completes, rec.chunks)
	}
	if result.Phase != llm.PhaseErrored {
		t.Errorf("Expected errored phase, got %s", result.Phase)
	}
}

func TestClient_StreamChat_HTTPErrorWithRawBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream exploded")
	})

	_, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "q"}},
	}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Message != "upstream exploded" || !apiErr.Retryable() {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
	if !strings.Contains(err.Error(), "status: 502") {
		t.Errorf("Expected status in message, got %q", err.Error())
	}
}

func TestClient_StreamChat_HTTPErrorEmptyBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "q"}},
	}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Too Many Requests" {
		t.Errorf("Expected status text fallback, got %v", err)
	}
}

func TestClient_StreamChat_InvalidRoleFailsBeforeRequest(t *testing.T) {
	called := false
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	rec := &recorder{}

	_, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: "robot", Content: "q"}},
	}, rec.callbacks())
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if called {
		t.Error("No request should be sent for an invalid conversation")
	}
	if len(rec.errs) != 1 {
		t.Errorf("Expected OnError once, got %v", rec.errs)
	}
}

func TestClient_StreamChat_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient("k", "m/x", WithBaseURL(url))
	rec := &recorder{}
	_, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "q"}},
	}, rec.callbacks())
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if len(rec.errs) != 1 || len(rec.completes) != 0 {
		t.Errorf("Expected only OnError, got errs=%v completes=%v", rec.errs, rec.completes)
	}
}

func TestClient_StreamChat_ToolCall(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		frames := []string{
			`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"id":"c1","type":"function","function":{"name":"suggest_code","arguments":"{\"suggestion\":"}}]}}]}`,
			`data: {"choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"return 42\"}"}}]}}]}`,
			`data: {"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
		}
		for _, f := range frames {
			io.WriteString(w, f+"\n\n")
			flusher.Flush()
		}
	})
	rec := &recorder{}

	result, err := client.StreamChat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "solve it"}},
	}, rec.callbacks())
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}
	if result.Phase != llm.PhaseToolCallTerminated {
		t.Errorf("Expected tool-call termination, got %s", result.Phase)
	}
	if len(result.ToolCalls) != 1 || result.ToolCalls[0].Arguments["suggestion"] != "return 42" {
		t.Errorf("Unexpected tool calls: %+v", result.ToolCalls)
	}
	if len(rec.toolNames) != 1 {
		t.Errorf("Expected OnToolCall once, got %v", rec.toolNames)
	}
}

func TestClient_StreamChat_PreStreamFailuresEndErrored(t *testing.T) {
	refused := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	refusedURL := refused.URL
	refused.Close()

	tests := []struct {
		name   string
		client *Client
		msgs   []llm.Message
	}{
		{
			name:   "invalid role",
			client: NewClient("k", "m/x", WithBaseURL(refusedURL)),
			msgs:   []llm.Message{{Role: "robot", Content: "q"}},
		},
		{
			name:   "connection refused",
			client: NewClient("k", "m/x", WithBaseURL(refusedURL)),
			msgs:   []llm.Message{{Role: llm.RoleUser, Content: "q"}},
		},
		{
			name: "server error",
			client: newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}),
			msgs: []llm.Message{{Role: llm.RoleUser, Content: "q"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.client.StreamChat(context.Background(), &llm.ChatRequest{Messages: tt.msgs}, nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if result.Phase != llm.PhaseErrored {
				t.Errorf("Expected errored phase, got %s", result.Phase)
			}
		})
	}
}

package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"leetcoach/internal/llm"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	appTitle   string
	appURL     string
}

type Option func(*Client)

// WithBaseURL points the client at another OpenRouter-compatible API
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAttribution sets the X-Title and HTTP-Referer headers OpenRouter uses
// to attribute traffic to an app
func WithAttribution(title, url string) Option {
	return func(c *Client) {
		c.appTitle = title
		c.appURL = url
	}
}

// NewClient creates a client for the given API key and default model
func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type reasoningParam struct {
	Effort llm.ReasoningEffort `json:"effort"`
}

type chatCompletionBody struct {
	Model     string          `json:"model"`
	Messages  []llm.Message   `json:"messages"`
	Stream    bool            `json:"stream"`
	Reasoning *reasoningParam `json:"reasoning,omitempty"`
	Tools     []openai.Tool   `json:"tools,omitempty"`
}

func (c *Client) buildRequestBody(req *llm.ChatRequest) *chatCompletionBody {
	model := req.Model
	if model == "" {
		model = c.model
	}

	body := &chatCompletionBody{
		Model:    model,
		Messages: make([]llm.Message, len(req.Messages)),
		Stream:   true,
	}
	for i, msg := range req.Messages {
		body.Messages[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}

	if req.Reasoning != llm.ReasoningNone {
		body.Reasoning = &reasoningParam{Effort: req.Reasoning}
	}

	if len(req.Tools) > 0 {
		body.Tools = make([]openai.Tool, len(req.Tools))
		for i, t := range req.Tools {
			body.Tools[i] = t.ToOpenAI()
		}
	}
	return body
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.appTitle != "" {
		httpReq.Header.Set("X-Title", c.appTitle)
	}
	if c.appURL != "" {
		httpReq.Header.Set("HTTP-Referer", c.appURL)
	}
	return httpReq, nil
}

// StreamChat posts req with stream=true and decodes the answer into cb.
// Every failure, including a non-2xx status that arrives before any body is
// read, is delivered to OnError and returned; otherwise OnComplete fires.
// Nothing is retried.
func (c *Client) StreamChat(ctx context.Context, req *llm.ChatRequest, cb *llm.Callbacks) (*llm.StreamResult, error) {
	state := NewStreamState()
	emit := llm.NewEmitter(cb)
	state.Phase = llm.PhaseRequesting

	fail := func(err error) (*llm.StreamResult, error) {
		err = failStream(state, emit, err)
		return state.Result(), err
	}

	if err := llm.ValidateMessages(req.Messages); err != nil {
		return fail(err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/chat/completions", c.buildRequestBody(req))
	if err != nil {
		return fail(err)
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp)
		resp.Body.Close()
		return fail(apiErr)
	}

	if resp.Body == nil {
		return fail(ErrNoBody)
	}

	state, err = Decode(ctx, resp.Body, state, cb)
	return state.Result(), err
}

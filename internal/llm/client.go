package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Streamer sends one chat request and delivers the streamed answer through
// callbacks. Implementations must fire exactly one of OnComplete or OnError.
type Streamer interface {
	StreamChat(ctx context.Context, req *ChatRequest, cb *Callbacks) (*StreamResult, error)
	Model() string
}

type ChatRequest struct {
	Model     string
	Messages  []Message
	Reasoning ReasoningEffort
	Tools     []*ToolDefinition
}

type ToolDefinition struct {
	Type     string
	Function *FunctionDef
}

type FunctionDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToOpenAI converts the definition into the wire form shared by
// OpenAI-compatible endpoints
func (d *ToolDefinition) ToOpenAI() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        d.Function.Name,
			Description: d.Function.Description,
			Parameters:  d.Function.Parameters,
		},
	}
}

// Callbacks is the outward contract of a streamed completion. Every field is
// optional.
type Callbacks struct {
	OnChunk     func(delta, full string)
	OnReasoning func(full string)
	OnToolCall  func(name string, args map[string]any)
	OnComplete  func(full string)
	OnError     func(err error)

	// OnMalformedFrame receives frames whose payload was not valid JSON.
	// They are dropped either way.
	OnMalformedFrame func(payload string, err error)
}

func (c *Callbacks) chunk(delta, full string) {
	if c != nil && c.OnChunk != nil {
		c.OnChunk(delta, full)
	}
}

func (c *Callbacks) reasoning(full string) {
	if c != nil && c.OnReasoning != nil {
		c.OnReasoning(full)
	}
}

func (c *Callbacks) toolCall(name string, args map[string]any) {
	if c != nil && c.OnToolCall != nil {
		c.OnToolCall(name, args)
	}
}

func (c *Callbacks) complete(full string) {
	if c != nil && c.OnComplete != nil {
		c.OnComplete(full)
	}
}

func (c *Callbacks) fail(err error) {
	if c != nil && c.OnError != nil {
		c.OnError(err)
	}
}

func (c *Callbacks) malformed(payload string, err error) {
	if c != nil && c.OnMalformedFrame != nil {
		c.OnMalformedFrame(payload, err)
	}
}

// Emitter forwards to the optional callbacks. Providers use it so they
// never need to nil-check individual fields.
type Emitter struct{ cb *Callbacks }

func NewEmitter(cb *Callbacks) Emitter { return Emitter{cb: cb} }

func (e Emitter) Chunk(delta, full string) { e.cb.chunk(delta, full) }
func (e Emitter) Reasoning(full string) { e.cb.reasoning(full) }
func (e Emitter) ToolCall(name string, args map[string]any) { e.cb.toolCall(name, args) }
func (e Emitter) Complete(full string) { e.cb.complete(full) }
func (e Emitter) Error(err error) { e.cb.fail(err) }
func (e Emitter) Malformed(payload string, err error) { e.cb.malformed(payload, err) }

// StreamResult summarizes a finished stream
type StreamResult struct {
	Phase     Phase
	Content   string
	Reasoning string
	ToolCalls []ToolCall
}

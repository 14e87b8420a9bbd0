package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"leetcoach/internal/llm"

	openai "github.com/sashabaranov/go-openai"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
	readSize     = 4096
)

// StreamState is everything one decode accumulates. It belongs to a single
// request/response cycle and is discarded afterwards.
type StreamState struct {
	Phase llm.Phase

	pending   []byte
	content   strings.Builder
	reasoning strings.Builder
	toolCalls *ToolCallAccumulator
	completed []llm.ToolCall
}

func NewStreamState() *StreamState {
	return &StreamState{toolCalls: NewToolCallAccumulator()}
}

// Content is the answer text received so far
func (s *StreamState) Content() string {
	return s.content.String()
}

// Reasoning is the reasoning text received so far
func (s *StreamState) Reasoning() string {
	return s.reasoning.String()
}

// ToolCalls returns the calls delivered at tool-call termination
func (s *StreamState) ToolCalls() []llm.ToolCall {
	return s.completed
}

// Pending is the unterminated tail of the byte stream
func (s *StreamState) Pending() []byte {
	return s.pending
}

// Result snapshots the state
func (s *StreamState) Result() *llm.StreamResult {
	return &llm.StreamResult{
		Phase:     s.Phase,
		Content:   s.Content(),
		Reasoning: s.Reasoning(),
		ToolCalls: s.completed,
	}
}

func (s *StreamState) moveTo(next llm.Phase) error {
	p, err := s.Phase.Transition(next)
	if err != nil {
		return err
	}
	s.Phase = p
	return nil
}

type frame struct {
	Choices []struct {
		Delta struct {
			Content          string            `json:"content"`
			ToolCalls        []openai.ToolCall `json:"tool_calls"`
			Reasoning        json.RawMessage   `json:"reasoning"`
			ReasoningDetails json.RawMessage   `json:"reasoning_details"`
		} `json:"delta"`
		FinishReason openai.FinishReason `json:"finish_reason"`
	} `json:"choices"`
}

type lineResult int

const (
	lineContinue lineResult = iota
	lineDone
	lineToolCalls
)

// Decode consumes an SSE body and reports what it carries through cb. The
// body is closed on every return path. On a normal end of stream ([DONE] or
// EOF) and on tool-call termination OnComplete fires once; on a read failure
// or cancellation OnError fires once instead and the error is returned.
//
// A nil state starts a fresh one. The state is returned so callers can
// inspect what was accumulated, including after a failure.
func Decode(ctx context.Context, body io.ReadCloser, state *StreamState, cb *llm.Callbacks) (*StreamState, error) {
	if state == nil {
		state = NewStreamState()
	}
	emit := llm.NewEmitter(cb)

	if body == nil {
		return state, failStream(state, emit, ErrNoBody)
	}
	defer body.Close()

	if err := state.moveTo(llm.PhaseStreaming); err != nil {
		return state, failStream(state, emit, err)
	}

	buf := make([]byte, readSize)
	for {
		if err := ctx.Err(); err != nil {
			return state, failStream(state, emit, err)
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			state.pending = append(state.pending, buf[:n]...)
			switch consumeLines(state, emit) {
			case lineDone:
				return state, finishStream(state, emit, llm.PhaseCompleted)
			case lineToolCalls:
				return state, finishStream(state, emit, llm.PhaseToolCallTerminated)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return state, finishStream(state, emit, llm.PhaseCompleted)
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				readErr = ctxErr
			}
			return state, failStream(state, emit, fmt.Errorf("read stream: %w", readErr))
		}
	}
}

// consumeLines handles every complete line in the pending buffer and keeps
// the unterminated remainder.
func consumeLines(state *StreamState, emit llm.Emitter) lineResult {
	consumed := 0
	defer func() {
		state.pending = append(state.pending[:0], state.pending[consumed:]...)
	}()

	for {
		i := bytes.IndexByte(state.pending[consumed:], '\n')
		if i < 0 {
			return lineContinue
		}
		line := strings.TrimSpace(string(state.pending[consumed : consumed+i]))
		consumed += i + 1

		if r := handleLine(state, emit, line); r != lineContinue {
			return r
		}
	}
}

func handleLine(state *StreamState, emit llm.Emitter, line string) lineResult {
	if !strings.HasPrefix(line, dataPrefix) {
		return lineContinue
	}
	payload := line[len(dataPrefix):]
	if payload == doneSentinel {
		return lineDone
	}

	var f frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		emit.Malformed(payload, err)
		return lineContinue
	}
	if len(f.Choices) == 0 {
		return lineContinue
	}

	choice := f.Choices[0]
	delta := choice.Delta

	if delta.Content != "" {
		state.content.WriteString(delta.Content)
		emit.Chunk(delta.Content, state.content.String())
	}

	for _, tc := range delta.ToolCalls {
		state.toolCalls.AddDelta(tc)
	}

	// reasoning_details carries the same text as reasoning when both are
	// present, so only one of them is read. Details without any text (an
	// empty list, encrypted blocks) fall back to reasoning.
	text := NormalizeReasoning(delta.ReasoningDetails)
	if text == "" {
		text = NormalizeReasoning(delta.Reasoning)
	}
	if text != "" {
		state.reasoning.WriteString(text)
		emit.Reasoning(state.reasoning.String())
	}

	if choice.FinishReason == openai.FinishReasonToolCalls {
		deliverToolCalls(state, emit)
		return lineToolCalls
	}
	return lineContinue
}

func deliverToolCalls(state *StreamState, emit llm.Emitter) {
	for _, call := range state.toolCalls.Calls() {
		if call.Name == "" || call.Arguments == "" {
			continue
		}
		var args map[string]any
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			emit.Malformed(call.Arguments, fmt.Errorf("tool %s arguments: %w", call.Name, err))
			continue
		}
		state.completed = append(state.completed, llm.ToolCall{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: args,
		})
		emit.ToolCall(call.Name, args)
	}
}

func finishStream(state *StreamState, emit llm.Emitter, phase llm.Phase) error {
	if err := state.moveTo(phase); err != nil {
		return failStream(state, emit, err)
	}
	emit.Complete(state.Content())
	return nil
}

func failStream(state *StreamState, emit llm.Emitter, err error) error {
	if !state.Phase.Terminal() {
		state.Phase = llm.PhaseErrored
	}
	emit.Error(err)
	return err
}

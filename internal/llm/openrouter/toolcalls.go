package openrouter

import (
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

// PartialToolCall is a tool call still being assembled from deltas
type PartialToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolCallAccumulator merges tool-call deltas by index. A single response
// may interleave deltas for several calls.
type ToolCallAccumulator struct {
	calls map[int]*PartialToolCall
}

func NewToolCallAccumulator() *ToolCallAccumulator {
	return &ToolCallAccumulator{calls: make(map[int]*PartialToolCall)}
}

// AddDelta appends the delta's name and argument fragments to the call at
// its index. A missing index means 0.
func (a *ToolCallAccumulator) AddDelta(delta openai.ToolCall) {
	index := 0
	if delta.Index != nil {
		index = *delta.Index
	}

	call, exists := a.calls[index]
	if !exists {
		call = &PartialToolCall{}
		a.calls[index] = call
	}

	if delta.ID != "" {
		call.ID = delta.ID
	}
	call.Name += delta.Function.Name
	call.Arguments += delta.Function.Arguments
}

func (a *ToolCallAccumulator) Len() int {
	return len(a.calls)
}

// Calls returns the accumulated calls in ascending index order
func (a *ToolCallAccumulator) Calls() []PartialToolCall {
	indices := make([]int, 0, len(a.calls))
	for i := range a.calls {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	result := make([]PartialToolCall, 0, len(indices))
	for _, i := range indices {
		result = append(result, *a.calls[i])
	}
	return result
}

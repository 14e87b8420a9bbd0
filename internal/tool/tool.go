package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Tool is an action the coach may ask for by name. Tools are only offered
// in agent mode.
type Tool interface {
	Name() string

	// Description is sent to the model and says when to call the tool
	Description() string

	// BestPractices is appended to the system prompt in agent mode; "" for none
	BestPractices() string

	// Parameters is the JSON schema of the argument object
	Parameters() map[string]any

	Execute(ctx context.Context, params json.RawMessage) (*Result, error)
}

// Result is what a tool reports back into the conversation. Output is the
// text the model sees on success, Error the reason on failure; Data holds
// structured facts for callers (e.g. whether a suggestion was accepted).
type Result struct {
	Success bool
	Output  string
	Error   string
	Data    map[string]any
}

// Failure builds an unsuccessful Result
func Failure(format string, args ...any) *Result {
	return &Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Text is the line recorded in the conversation for this result
func (r *Result) Text() string {
	if !r.Success && r.Error != "" {
		return r.Error
	}
	return r.Output
}

// CallResult ties a Result to the model's tool call that produced it
type CallResult struct {
	ToolName  string
	CallID    string
	Params    json.RawMessage
	Result    *Result
	StartTime time.Time
	EndTime   time.Time
}

func (c *CallResult) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

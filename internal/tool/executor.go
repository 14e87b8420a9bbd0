package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"leetcoach/internal/hook"
	"leetcoach/internal/llm"
)

// EmptyOutputPlaceholder is returned when a tool produces no output, since
// tool messages with empty content are rejected by some providers
const EmptyOutputPlaceholder = "(Tool executed successfully with no output)"

// Executor runs tool calls one at a time in the order the model emitted
// them. Suggestions rewrite the same solution file and may prompt the user,
// so calls are never run concurrently.
type Executor struct {
	registry    *Registry
	hookManager *hook.Manager
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// SetHookManager sets the hook manager for tool execution hooks
func (e *Executor) SetHookManager(manager *hook.Manager) {
	e.hookManager = manager
}

func (e *Executor) Execute(ctx context.Context, calls []llm.ToolCall) ([]*CallResult, error) {
	results := make([]*CallResult, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.executeOne(ctx, call))
	}
	return results, nil
}

func failed(call llm.ToolCall, params json.RawMessage, start time.Time, msg string) *CallResult {
	return &CallResult{
		ToolName:  call.Name,
		CallID:    call.ID,
		Params:    params,
		Result:    &Result{Success: false, Output: msg, Error: msg},
		StartTime: start,
		EndTime:   time.Now(),
	}
}

func (e *Executor) executeOne(ctx context.Context, call llm.ToolCall) *CallResult {
	startTime := time.Now()

	params, err := json.Marshal(call.Arguments)
	if err != nil {
		return failed(call, nil, startTime, fmt.Sprintf("invalid arguments: %v", err))
	}

	t, err := e.registry.Get(call.Name)
	if err != nil {
		return failed(call, params, startTime, err.Error())
	}

	if e.hookManager != nil {
		hookData := hook.NewHookData(hook.BeforeToolExecution, call.Name).
			Set("params", string(params))

		feedback, err := e.hookManager.Trigger(ctx, hookData)
		if err != nil {
			return failed(call, params, startTime, fmt.Sprintf("hook error: %v", err))
		}
		if !feedback.Allow {
			return failed(call, params, startTime, fmt.Sprintf("Tool execution was denied by the user: %s", feedback.Message))
		}

		// Tools that ask for confirmation themselves (suggest_code) look the
		// manager up from the context
		ctx = hook.WithManager(ctx, e.hookManager)
	}

	result, err := t.Execute(ctx, params)
	if err != nil {
		return failed(call, params, startTime, err.Error())
	}

	if e.hookManager != nil {
		hookData := hook.NewHookData(hook.AfterToolExecution, call.Name).
			Set("params", string(params)).
			Set("result", result).
			Set("duration", time.Since(startTime))

		// After hooks don't block, just trigger
		_, _ = e.hookManager.Trigger(ctx, hookData)
	}

	if result.Output == "" {
		result.Output = EmptyOutputPlaceholder
	}

	return &CallResult{
		ToolName:  call.Name,
		CallID:    call.ID,
		Params:    params,
		Result:    result,
		StartTime: startTime,
		EndTime:   time.Now(),
	}
}

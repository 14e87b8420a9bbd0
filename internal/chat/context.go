package chat

import (
	"time"

	"leetcoach/internal/logger"
)

// ExecutionContext tracks a session's counters and routes its logging
type ExecutionContext struct {
	Logger        *logger.Logger
	StartTime     time.Time
	Turns         int
	ToolCallCount int
}

func NewExecutionContext(log *logger.Logger) *ExecutionContext {
	if log == nil {
		log = logger.Discard()
	}
	return &ExecutionContext{
		Logger:    log,
		StartTime: time.Now(),
	}
}

func (ctx *ExecutionContext) LogToolCall(toolName, params string) {
	ctx.ToolCallCount++
	ctx.Logger.ToolCall(toolName, params)
}

func (ctx *ExecutionContext) LogToolResult(toolName string, success bool, output string, duration time.Duration) {
	ctx.Logger.ToolResult(toolName, success, output, duration)
}

func (ctx *ExecutionContext) LogReasoning(content string) {
	ctx.Logger.Reasoning(content)
}

func (ctx *ExecutionContext) LogResponse(content string) {
	ctx.Logger.CoachResponse(content)
}

// End logs the closing banner
func (ctx *ExecutionContext) End() {
	ctx.Logger.SessionEnd(time.Since(ctx.StartTime), ctx.Turns, ctx.ToolCallCount)
}
